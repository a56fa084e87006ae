package renderer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/formula"
)

// AliasesMarkdown renders the alias table. When d is not nil a column tells
// whether each target is in the data.
func AliasesMarkdown(a formula.Aliases, d *fundscreen.Dataset) string {
	var b strings.Builder
	if d == nil {
		fmt.Fprintf(&b, "| Alias | Column |\n")
		fmt.Fprintf(&b, "|:---|:---|\n")
	} else {
		fmt.Fprintf(&b, "| Alias | Column | In data |\n")
		fmt.Fprintf(&b, "|:---|:---|:---:|\n")
	}
	for _, name := range a.Names() {
		if d == nil {
			fmt.Fprintf(&b, "| %s | %s |\n", name, escape(a[name]))
			continue
		}
		present := "no"
		if d.HasColumn(a[name]) {
			present = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", name, escape(a[name]), present)
	}
	return b.String()
}

// ErrorMarkdown renders a rejected formula. A *formula.Error with a position
// points at the offending token under the expression it was found in.
func ErrorMarkdown(err error) string {
	var b strings.Builder
	var fe *formula.Error
	if !errors.As(err, &fe) {
		fmt.Fprintf(&b, "**Error:** %s\n", err)
		return b.String()
	}
	fmt.Fprintf(&b, "**%s:** %s\n", fe.Kind, fe.Msg)
	if fe.Pos >= 0 && fe.Pos <= len(fe.Expr) {
		width := utf8.RuneCountInString(fe.Expr[:fe.Pos])
		fmt.Fprintf(&b, "\n```text\n%s\n%s^\n```\n", fe.Expr, strings.Repeat(" ", width))
	}
	return b.String()
}
