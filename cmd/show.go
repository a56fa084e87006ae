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

// defaultColumns are shown when no column is asked for.
var defaultColumns = []string{
	fundscreen.ColName,
	fundscreen.ColAPIR,
	fundscreen.ColCategory,
	fundscreen.ColReturn,
	fundscreen.ColFee,
	fundscreen.ColStdDev,
	fundscreen.ColSharpe,
}

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	columns     string
	limit       int
	all         bool
	listColumns bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the selected funds" }
func (*showCmd) Usage() string {
	return `fsc show [-columns <a,b,...>] [-limit <n>] [-all] [-list-columns]

  Displays the funds kept by the last formula, or every fund when no formula
  was applied.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.columns, "columns", strings.Join(defaultColumns, ","), "comma separated list of columns to display, empty for all")
	f.IntVar(&c.limit, "limit", 50, "maximum number of funds to display, 0 for all")
	f.BoolVar(&c.all, "all", false, "display all the imported funds, ignoring the selection")
	f.BoolVar(&c.listColumns, "list-columns", false, "list the column names instead")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}

	var d *fundscreen.Dataset
	expr := ""
	if c.all {
		d, err = ws.Funds()
	} else {
		d, expr, err = ws.Selection()
	}
	if err != nil {
		return fail("Error loading fund data: %v", err)
	}

	var b strings.Builder
	if c.listColumns {
		for _, col := range d.Columns() {
			fmt.Fprintf(&b, "- `%s`\n", col)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	if expr != "" {
		fmt.Fprintf(&b, "Formula: `` %s ``\n\n", expr)
	}
	fmt.Fprintf(&b, "%d funds\n\n", d.Len())
	b.WriteString(renderer.DatasetMarkdown(d, splitList(c.columns), c.limit))
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
