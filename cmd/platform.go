package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/google/subcommands"
)

// platformCmd holds the flags for the 'platform' subcommand.
type platformCmd struct {
	list bool
}

func (*platformCmd) Name() string     { return "platform" }
func (*platformCmd) Synopsis() string { return "keep the funds available on an investment platform" }
func (*platformCmd) Usage() string {
	return `fsc platform [-list] [<file>...]

  Reads the text of a platform fund list from files, or the standard input,
  and keeps in the imported data only the funds whose APIR code appears in it.

  Convert PDF lists to text first, for instance with 'pdftotext list.pdf -'.
`
}

func (c *platformCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "only list the APIR codes found, do not change the data")
}

func (c *platformCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var b strings.Builder
	if f.NArg() == 0 {
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			return fail("Error reading standard input: %v", err)
		}
	}
	for _, name := range f.Args() {
		content, err := os.ReadFile(name)
		if err != nil {
			return fail("Error reading %q: %v", name, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}

	codes := fundscreen.ExtractAPIRCodes(b.String())
	if len(codes) == 0 {
		return fail("No APIR code found in the platform list")
	}
	if c.list {
		for _, code := range codes {
			fmt.Println(code)
		}
		return subcommands.ExitSuccess
	}

	ws, err := openWorkspace()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	funds, err := ws.Funds()
	if err != nil {
		return fail("Error loading fund data: %v", err)
	}
	kept := fundscreen.FilterByAPIR(funds, codes)
	if err := ws.SetFunds(kept); err != nil {
		return fail("Error saving fund data: %v", err)
	}
	fmt.Printf("Found %d APIR codes, kept %d of %d funds\n", len(codes), kept.Len(), funds.Len())
	return subcommands.ExitSuccess
}
