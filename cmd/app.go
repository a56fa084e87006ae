// Package cmd implements the fsc CLI application to screen funds and build
// a recommended portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundscreen/config"
	"github.com/etnz/fundscreen/formula"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default "+config.DefaultFile+")")
var dataDir = flag.String("data-dir", "", "Path to the workspace folder, overrides data_dir")

// Verbose enables the development logger.
var Verbose = flag.Bool("v", false, "verbose output")

// Commands lists every fsc subcommand with its group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"data": {
			&importCmd{},
			&platformCmd{},
			&showCmd{},
		},
		"screening": {
			&filterCmd{},
			&checkCmd{},
			&aliasesCmd{},
			&analyzeCmd{},
		},
		"portfolio": {
			&addCmd{},
			&removeCmd{},
			&allocateCmd{},
			&portfolioCmd{},
			&exportCmd{},
		},
		"help": {
			&topicCmd{},
			&AssistCmd{},
		},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// loadConfig loads the configuration with the global flags applied.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	return cfg, nil
}

// newLogger returns a development logger in verbose mode, a no-op one
// otherwise.
func newLogger() *zap.Logger {
	if !*Verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newEngine returns a formula engine with the configured aliases.
func newEngine(cfg config.Config) (*formula.Engine, error) {
	aliases, err := cfg.AliasTable()
	if err != nil {
		return nil, err
	}
	return formula.NewEngine(newLogger(), aliases)
}

// renderMarkdown formats markdown for the terminal, or returns it as is
// when it cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printMarkdown prints markdown to the standard output.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// splitList splits a comma separated flag value.
func splitList(s string) []string {
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// absPath returns path made absolute, or unchanged on failure.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// fail prints an error and returns ExitFailure.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
