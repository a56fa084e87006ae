package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/renderer"
	"github.com/google/subcommands"
)

// filterCmd holds the flags for the 'filter' subcommand.
type filterCmd struct {
	columns   string
	limit     int
	selection bool
	reset     bool
}

func (*filterCmd) Name() string     { return "filter" }
func (*filterCmd) Synopsis() string { return "select the funds matching a formula" }
func (*filterCmd) Usage() string {
	return `fsc filter [-columns <a,b,...>] [-limit <n>] [-selection] <formula>
fsc filter -reset

  Applies a formula to every imported fund and keeps those for which it is
  true. The kept funds become the selection used by 'show', 'analyze' and
  'assist'.

  Example: fsc filter 'return > 5 and fee < 1'

  See 'fsc topic formula'.
`
}

func (c *filterCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.columns, "columns", strings.Join(defaultColumns, ","), "comma separated list of columns to display, empty for all")
	f.IntVar(&c.limit, "limit", 20, "maximum number of kept funds to display, 0 for all")
	f.BoolVar(&c.selection, "selection", false, "filter the current selection instead of all the funds")
	f.BoolVar(&c.reset, "reset", false, "clear the selection")
}

func (c *filterCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	ws := workspace{dir: cfg.DataDir}

	if c.reset {
		if err := ws.ClearSelection(); err != nil {
			return fail("Error clearing the selection: %v", err)
		}
		fmt.Println("Selection cleared")
		return subcommands.ExitSuccess
	}

	expr := strings.Join(f.Args(), " ")
	var d *fundscreen.Dataset
	previous := ""
	if c.selection {
		d, previous, err = ws.Selection()
	} else {
		d, err = ws.Funds()
	}
	if err != nil {
		return fail("Error loading fund data: %v", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return fail("Error loading aliases: %v", err)
	}
	outcome, err := engine.Submit(expr, d)
	if err != nil {
		fmt.Fprint(os.Stderr, renderMarkdown(renderer.ErrorMarkdown(err)))
		return subcommands.ExitFailure
	}

	recorded := outcome.Expression.Source()
	if previous != "" {
		recorded = "(" + previous + ") and (" + recorded + ")"
	}
	if err := ws.SetSelection(outcome.Filtered, recorded); err != nil {
		return fail("Error saving the selection: %v", err)
	}

	printMarkdown(renderer.RenderFilter(renderer.NewFilter(outcome, engine.Aliases(), splitList(c.columns), c.limit)))
	return subcommands.ExitSuccess
}
