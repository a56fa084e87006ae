package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/renderer"
	"github.com/google/subcommands"
)

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	by        string
	ascending bool
	limit     int
	save      bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "rank the selected funds against their category" }
func (*analyzeCmd) Usage() string {
	return `fsc analyze [-by <column>] [-asc] [-limit <n>] [-save]

  Adds performance ratios and a composite score to the selected funds, ranks
  them and shows the category averages.

  See 'fsc topic analysis'.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.by, "by", fundscreen.ColCompositeScore, "numeric column to rank on")
	f.BoolVar(&c.ascending, "asc", false, "rank the smallest values first")
	f.IntVar(&c.limit, "limit", 20, "maximum number of funds to display, 0 for all")
	f.BoolVar(&c.save, "save", false, "keep the analysis columns in the selection, to use them in formulas")
}

func (c *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	d, expr, err := ws.Selection()
	if err != nil {
		return fail("Error loading fund data: %v", err)
	}

	d, err = fundscreen.WithPerformanceMetrics(d)
	if err != nil {
		return fail("Error computing performance metrics: %v", err)
	}
	d, err = fundscreen.WithCompositeScore(d)
	if err != nil {
		return fail("Error computing composite score: %v", err)
	}
	ranked, err := fundscreen.Rank(d, c.by, c.ascending)
	if err != nil {
		return fail("Error ranking funds: %v", err)
	}
	averages, err := fundscreen.CategoryAverages(d, fundscreen.NumericColumns...)
	if err != nil {
		return fail("Error computing category averages: %v", err)
	}

	if c.save {
		if err := ws.SetSelection(ranked, expr); err != nil {
			return fail("Error saving the selection: %v", err)
		}
	}

	columns := []string{fundscreen.ColRank, fundscreen.ColName, fundscreen.ColAPIR, c.by}
	for _, col := range []string{fundscreen.ColReturnRisk, fundscreen.ColReturnFee, fundscreen.ColCompositeScore} {
		if col != c.by {
			columns = append(columns, col)
		}
	}

	var b strings.Builder
	if expr != "" {
		fmt.Fprintf(&b, "Formula: `` %s ``\n\n", expr)
	}
	b.WriteString(renderer.AnalysisMarkdown(ranked, columns, c.limit, averages))
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
