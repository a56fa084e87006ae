package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundscreen/docs"
	"github.com/etnz/fundscreen/formula"
	"github.com/google/subcommands"
)

// topicCmd holds the flags for the 'topic' subcommand.
type topicCmd struct {
	examples bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `fsc topic [-examples] [<topic>...]

  Shows the documentation of the given topics, or the list of topics.

  With -examples, lists the example formulas of the topics instead, all of
  them when no topic is given, and tells which ones apply to the imported data.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.examples, "examples", false, "list the example formulas of the topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if c.examples {
		if len(topics) == 0 {
			topics = []string{"*"}
		}
		md, err := examplesMarkdown(topics)
		if err != nil {
			return fail("Error reading doc: %v", err)
		}
		printMarkdown(md)
		return subcommands.ExitSuccess
	}

	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// examplesMarkdown lists the formulas of topics. When fund data is imported,
// each formula is checked against its columns.
func examplesMarkdown(topics []string) (string, error) {
	var examples []docs.Example
	for _, t := range topics {
		ex, err := docs.Examples(t)
		if err != nil {
			return "", err
		}
		examples = append(examples, ex...)
	}
	if len(examples) == 0 {
		return "_No example formula._\n", nil
	}

	var engine *formula.Engine
	var columns []string
	if cfg, err := loadConfig(); err == nil {
		if funds, err := (workspace{dir: cfg.DataDir}).Funds(); err == nil {
			columns = funds.Columns()
			engine, _ = newEngine(cfg)
		}
	}

	var b strings.Builder
	b.WriteString("| Topic | Formula | Status |\n|:---|:---|:---|\n")
	for _, ex := range examples {
		status := "example"
		switch {
		case ex.Reject:
			status = "refused"
		case engine != nil:
			if _, _, err := engine.Check(ex.Formula, columns); err != nil {
				status = "not applicable to the data"
			} else {
				status = "applicable"
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", ex.Topic, code(ex.Formula), status)
	}
	return b.String(), nil
}

// code quotes a formula as inline markdown code in a table cell.
func code(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}
