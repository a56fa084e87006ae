package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/renderer"
	"github.com/google/subcommands"
)

// checkCmd holds the flags for the 'check' subcommand.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate a formula without applying it" }
func (*checkCmd) Usage() string {
	return `fsc check <formula>

  Resolves the aliases of a formula and validates it against the columns of
  the imported data, or the standard fund columns when nothing is imported.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return fail("Error loading aliases: %v", err)
	}

	columns := fundscreen.RequiredColumns
	if d, err := (workspace{dir: cfg.DataDir}).Funds(); err == nil {
		columns = d.Columns()
	} else {
		log.Println("warning, no fund data, checking against the standard fund columns")
	}

	x, used, err := engine.Check(strings.Join(f.Args(), " "), columns)
	if err != nil {
		fmt.Fprint(os.Stderr, renderMarkdown(renderer.ErrorMarkdown(err)))
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The formula is valid.\n\n```formula\n%s\n```\n\n", x)
	if len(used) > 0 {
		fmt.Fprintf(&b, "Aliases: %s\n\n", strings.Join(used, ", "))
	}
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(x.Columns(), ", "))
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
