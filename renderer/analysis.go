package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fundscreen"
)

// AnalysisMarkdown renders the ranked funds followed by the category
// averages they were compared with. Either dataset may be nil.
func AnalysisMarkdown(ranked *fundscreen.Dataset, columns []string, limit int, averages *fundscreen.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis\n\n")
	if ranked != nil {
		fmt.Fprintf(&b, "## Ranking\n\n")
		if ranked.Len() == 0 {
			fmt.Fprintf(&b, "_No fund to rank._\n")
		} else {
			b.WriteString(DatasetMarkdown(ranked, columns, limit))
		}
	}
	ConditionalBlock(&b, func(w io.Writer) bool {
		if averages == nil || averages.Len() == 0 {
			return false
		}
		fmt.Fprintf(w, "\n## Category Averages\n\n")
		fmt.Fprint(w, DatasetMarkdown(averages, nil, 0))
		return true
	})
	return b.String()
}
