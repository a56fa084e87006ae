package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/fundscreen/formula"
	"github.com/etnz/fundscreen/renderer"
	"github.com/google/subcommands"
)

// aliasesCmd holds the flags for the 'aliases' subcommand.
type aliasesCmd struct {
	yaml bool
}

func (*aliasesCmd) Name() string     { return "aliases" }
func (*aliasesCmd) Synopsis() string { return "list the aliases usable in formulas" }
func (*aliasesCmd) Usage() string {
	return `fsc aliases [-yaml]

  Lists the aliases and the columns they stand for: the default ones, then
  those of the alias file and of the configuration.

  See 'fsc topic aliases'.
`
}

func (c *aliasesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yaml, "yaml", false, "print the aliases as a YAML alias file")
}

func (c *aliasesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	aliases, err := cfg.AliasTable()
	if err != nil {
		return fail("Error loading aliases: %v", err)
	}

	if c.yaml {
		if err := formula.EncodeAliases(os.Stdout, aliases); err != nil {
			return fail("Error writing aliases: %v", err)
		}
		return subcommands.ExitSuccess
	}

	// the data is optional, it only tells which aliases can be used
	funds, _ := workspace{dir: cfg.DataDir}.Funds()
	printMarkdown(renderer.AliasesMarkdown(aliases, funds))
	return subcommands.ExitSuccess
}
