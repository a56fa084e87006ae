package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	path   string
	force  bool
	append bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import fund data from CSV, XLSX or JSON files" }
func (*importCmd) Usage() string {
	return `fsc import [-path <jsonpath>] [-force] [-append] <file>...

  Imports fund exports into the workspace. Files are read according to their
  extension (.csv, .xlsx, .json), '-' reads CSV from the standard input.
  Several files are concatenated.

  See 'fsc topic import'.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "$", "JSONPath expression selecting the array of funds in JSON files")
	f.BoolVar(&c.force, "force", false, "import even if required columns are missing or not numeric")
	f.BoolVar(&c.append, "append", false, "append to the data already imported")
}

// decodeFile reads a dataset from a file according to its extension.
func decodeFile(name, jsonPath string) (*fundscreen.Dataset, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", "":
		return fundscreen.DecodeCSV(r)
	case ".xlsx":
		return fundscreen.DecodeXLSX(r)
	case ".json":
		return fundscreen.DecodeJSON(r, jsonPath)
	default:
		return nil, fmt.Errorf("unsupported file type %q: use a .csv, .xlsx or .json file", ext)
	}
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one file is required")
		return subcommands.ExitUsageError
	}
	ws, err := openWorkspace()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}

	var datasets []*fundscreen.Dataset
	if c.append {
		existing, err := ws.Funds()
		if err != nil {
			return fail("Error loading fund data: %v", err)
		}
		datasets = append(datasets, existing)
	}
	for _, name := range f.Args() {
		d, err := decodeFile(name, c.path)
		if err != nil {
			return fail("Error reading %q: %v", name, err)
		}
		datasets = append(datasets, d)
	}
	funds := fundscreen.Concat(datasets...)

	if err := fundscreen.ValidateFunds(funds); err != nil {
		if !c.force {
			return fail("Invalid fund data:\n%v\nUse -force to import anyway.", err)
		}
		fmt.Fprintf(os.Stderr, "Warning, invalid fund data:\n%v\n", err)
	}

	if err := ws.SetFunds(funds); err != nil {
		return fail("Error saving fund data: %v", err)
	}
	fmt.Printf("Imported %d funds with %d columns into %s\n", funds.Len(), len(funds.Columns()), ws.path(fundsFile))
	return subcommands.ExitSuccess
}
