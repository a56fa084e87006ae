// Command fsc screens managed funds with formulas and builds a recommended
// portfolio from the selection.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/fundscreen/cmd"
	"github.com/etnz/fundscreen/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "fsc")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// in completion mode, this call writes the completion and exits
	completion().Complete("fsc")

	flag.Parse()

	if flag.NArg() > 0 && !registered(flag.Arg(0)) {
		if found, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// registered reports whether name is a built-in subcommand.
func registered(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, cmds := range cmd.Commands() {
		for _, c := range cmds {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}

// completion describes the fsc command line for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	topics, _ := docs.GetAllTopics()
	for _, cmds := range cmd.Commands() {
		for _, c := range cmds {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			sub := &complete.Command{Flags: flags(f)}
			switch c.Name() {
			case "topic":
				sub.Args = predict.Set(topics)
			case "import", "platform":
				sub.Args = predict.Files("*")
			}
			root.Sub[c.Name()] = sub
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

// flags predicts the values of the flags in f.
func flags(f *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case isBool(fl):
			res[fl.Name] = predict.Nothing
		case fl.Name == "config" || fl.Name == "o":
			res[fl.Name] = predict.Files("*")
		case fl.Name == "data-dir":
			res[fl.Name] = predict.Dirs("*")
		default:
			res[fl.Name] = predict.Something
		}
	})
	return res
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
