package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundscreen/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the formula assistant.
type AssistCmd struct{}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "write formulas with the help of an AI assistant" }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `fsc assist [<prompt>]

  Starts an interactive session with an assistant that writes and tries
  formulas on the selected funds. It needs a Gemini API key in the
  GEMINI_API_KEY environment variable.
`
}

// SetFlags sets the flags for the command.
func (*AssistCmd) SetFlags(_ *flag.FlagSet) {}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return fail("Error loading aliases: %v", err)
	}
	funds, _, err := workspace{dir: cfg.DataDir}.Selection()
	if err != nil {
		return fail("Error loading fund data: %v", err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail("Error initializing Gemini's client: %v", err)
	}

	ws := &agent.Workspace{Engine: engine, Funds: funds}
	a := agent.New(os.Stdout, os.Stdin, cfg.Model, agent.NewScreener(cfg.Model, ws), agent.NewResearcher(cfg.Model))
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
