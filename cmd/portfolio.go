package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/date"
	"github.com/etnz/fundscreen/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	class   string
	comment string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add funds to the recommended portfolio" }
func (*addCmd) Usage() string {
	return `fsc add [-class <asset class>] [-comment <text>] <APIR code>...

  Adds funds of the imported data to the recommended portfolio. The asset
  class comes from the Morningstar category unless -class is given.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "asset class of the funds")
	f.StringVar(&c.comment, "comment", "", "comments on the funds")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one APIR code is required")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	mapping, err := cfg.CategoryMapping()
	if err != nil {
		return fail("Error in category mapping: %v", err)
	}
	ws := workspace{dir: cfg.DataDir}
	funds, err := ws.Funds()
	if err != nil {
		return fail("Error loading fund data: %v", err)
	}
	p, err := ws.Portfolio()
	if err != nil {
		return fail("Error loading portfolio: %v", err)
	}

	today := date.Today()
	for _, code := range f.Args() {
		e, err := p.AddFund(funds, code, mapping, today)
		if err != nil {
			return fail("Error adding %q: %v", code, err)
		}
		if c.class != "" {
			if err := p.SetAssetClass(e.APIR, c.class); err != nil {
				return fail("Error adding %q: %v", code, err)
			}
		}
		if c.comment != "" {
			p.Comment(e.APIR, c.comment)
		}
		fmt.Printf("Added %s %s (%s)\n", e.APIR, e.Name, e.AssetClass)
	}

	if err := ws.SetPortfolio(p); err != nil {
		return fail("Error saving portfolio: %v", err)
	}
	return subcommands.ExitSuccess
}

// removeCmd holds the flags for the 'remove' subcommand.
type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove funds from the recommended portfolio" }
func (*removeCmd) Usage() string {
	return `fsc remove <APIR code>...

  Removes funds and their allocation from the recommended portfolio.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one APIR code is required")
		return subcommands.ExitUsageError
	}
	ws, err := openWorkspace()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	p, err := ws.Portfolio()
	if err != nil {
		return fail("Error loading portfolio: %v", err)
	}
	for _, code := range f.Args() {
		e, err := p.Remove(code)
		if err != nil {
			return fail("Error removing %q: %v", code, err)
		}
		fmt.Printf("Removed %s %s\n", e.APIR, e.Name)
	}
	if err := ws.SetPortfolio(p); err != nil {
		return fail("Error saving portfolio: %v", err)
	}
	return subcommands.ExitSuccess
}

// allocateCmd holds the flags for the 'allocate' subcommand.
type allocateCmd struct {
	class   string
	comment string
	clear   bool
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "set the allocation of a fund in the portfolio" }
func (*allocateCmd) Usage() string {
	return `fsc allocate [-class <asset class>] [-comment <text>] <APIR code> [<percent>]
fsc allocate -clear <APIR code>

  Sets the allocation percent of a fund, between 0 and 100. The asset class
  and the comments of the fund can be changed at the same time.
`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "change the asset class of the fund")
	f.StringVar(&c.comment, "comment", "", "change the comments on the fund")
	f.BoolVar(&c.clear, "clear", false, "clear the allocation of the fund")
}

func (c *allocateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Error: expecting an APIR code and optionally a percent")
		return subcommands.ExitUsageError
	}
	code := f.Arg(0)

	ws, err := openWorkspace()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	p, err := ws.Portfolio()
	if err != nil {
		return fail("Error loading portfolio: %v", err)
	}

	switch {
	case c.clear:
		err = p.Unallocate(code)
	case f.NArg() == 2:
		var percent decimal.Decimal
		percent, err = decimal.NewFromString(f.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid percent %q\n", f.Arg(1))
			return subcommands.ExitUsageError
		}
		err = p.Allocate(code, percent)
	}
	if err != nil {
		return fail("Error allocating %q: %v", code, err)
	}
	if c.class != "" {
		if err := p.SetAssetClass(code, c.class); err != nil {
			return fail("Error allocating %q: %v", code, err)
		}
	}
	if c.comment != "" {
		if err := p.Comment(code, c.comment); err != nil {
			return fail("Error allocating %q: %v", code, err)
		}
	}

	if err := ws.SetPortfolio(p); err != nil {
		return fail("Error saving portfolio: %v", err)
	}
	total := p.TotalAllocation()
	fmt.Printf("Total allocation: %s\n", fundscreen.P(total))
	if total.GreaterThan(decimal.NewFromInt(100)) {
		fmt.Fprintln(os.Stderr, "Warning, the portfolio is allocated over 100%")
	}
	return subcommands.ExitSuccess
}

// portfolioCmd holds the flags for the 'portfolio' subcommand.
type portfolioCmd struct {
	profile string
	amount  string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display the recommended portfolio" }
func (*portfolioCmd) Usage() string {
	return `fsc portfolio [-profile <risk profile>] [-amount <investment>]

  Displays the funds of the recommended portfolio, their weighted metrics and,
  with -profile, the asset allocation against a strategic risk profile.

  See 'fsc topic portfolio'.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.profile, "profile", "", "risk profile to compare with (Defensive, Conservative, Moderate, Balanced, Growth, High Growth)")
	f.StringVar(&c.amount, "amount", "", "investment amount, in the configured currency")
}

// parseAmount parses an investment amount, zero when empty.
func parseAmount(s, currency string) (fundscreen.Money, error) {
	if s == "" {
		return fundscreen.Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return fundscreen.Money{}, fmt.Errorf("invalid amount %q", s)
	}
	return fundscreen.M(d, currency), nil
}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	amount, err := parseAmount(c.amount, cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var profile fundscreen.RiskProfile
	if c.profile != "" {
		if profile, err = fundscreen.FindRiskProfile(c.profile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ws := workspace{dir: cfg.DataDir}
	p, err := ws.Portfolio()
	if err != nil {
		return fail("Error loading portfolio: %v", err)
	}
	// metrics are only shown when the data is available
	funds, err := ws.Funds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning, no metrics: %v\n", err)
	}

	printMarkdown(renderer.RenderPortfolio(renderer.NewPortfolio(p, funds, profile, amount)))
	return subcommands.ExitSuccess
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	amount    string
	output    string
	selection bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio or the selection as CSV" }
func (*exportCmd) Usage() string {
	return `fsc export [-amount <investment>] [-o <file>] [-selection]

  Writes the recommended portfolio as CSV, with an amount per fund when
  -amount is given. With -selection, writes the selected funds instead.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "investment amount, in the configured currency")
	f.StringVar(&c.output, "o", "", "output file, standard output when empty")
	f.BoolVar(&c.selection, "selection", false, "export the selected funds instead of the portfolio")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	amount, err := parseAmount(c.amount, cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ws := workspace{dir: cfg.DataDir}

	w := os.Stdout
	if c.output != "" {
		if w, err = os.Create(c.output); err != nil {
			return fail("Error creating %q: %v", c.output, err)
		}
		defer w.Close()
	}

	if c.selection {
		d, _, lerr := ws.Selection()
		if lerr != nil {
			return fail("Error loading fund data: %v", lerr)
		}
		err = fundscreen.EncodeCSV(w, d)
	} else {
		p, lerr := ws.Portfolio()
		if lerr != nil {
			return fail("Error loading portfolio: %v", lerr)
		}
		err = fundscreen.ExportPortfolio(w, p, amount)
	}
	if err != nil {
		return fail("Error exporting: %v", err)
	}
	return subcommands.ExitSuccess
}
