package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/fundscreen"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fundsCSV = `Name,APIR Code,Morningstar Category,3 Years Annualised (%),Investment Management Fee(%),Equity StyleBox™,Morningstar Rating,3 Year Beta,3 Year Standard Deviation,3 Year Sharpe Ratio
Alpha Fund,ABC0001AU,Equity Australia Large Blend,8.5,0.5,Large Blend,4,0.9,12,0.8
Beta Fund,DEF0002AU,Equity Australia Real Estate,6,1.2,Mid Value,3,1.1,15,0.4
Gamma Fund,GHI0003AU,Global Bond,,0.3,,2,0.2,4,0.1
`

// setup points the workspace at a temporary folder for the test.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := *dataDir
	*dataDir = dir
	t.Cleanup(func() { *dataDir = old })
	return dir
}

// run executes cmd with args as if typed on the command line.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

func writeFunds(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(name, []byte(fundsCSV), 0o644))
	return name
}

func TestScreeningFlow(t *testing.T) {
	dir := setup(t)
	ws := workspace{dir: dir}

	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, writeFunds(t)))
	funds, err := ws.Funds()
	require.NoError(t, err)
	assert.Equal(t, 3, funds.Len())

	require.Equal(t, subcommands.ExitSuccess, run(t, &filterCmd{}, "return > 5 and fee < 1"))
	selection, expr, err := ws.Selection()
	require.NoError(t, err)
	require.Equal(t, 1, selection.Len())
	assert.Equal(t, "ABC0001AU", selection.Value(0, fundscreen.ColAPIR).Text())
	assert.Contains(t, expr, "> 5")

	// narrowing the selection records both formulas
	require.Equal(t, subcommands.ExitSuccess, run(t, &filterCmd{}, "-selection", "rating >= 4"))
	selection, expr, err = ws.Selection()
	require.NoError(t, err)
	assert.Equal(t, 1, selection.Len())
	assert.True(t, strings.HasPrefix(expr, "("), expr)

	assert.Equal(t, subcommands.ExitFailure, run(t, &filterCmd{}, "return >"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &filterCmd{}, "unknown_alias > 1"))

	require.Equal(t, subcommands.ExitSuccess, run(t, &filterCmd{}, "-reset"))
	selection, expr, err = ws.Selection()
	require.NoError(t, err)
	assert.Equal(t, 3, selection.Len())
	assert.Empty(t, expr)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &checkCmd{}, "sharpe", ">", "0.5"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &checkCmd{}, "sharpe + 1"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &showCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &aliasesCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &analyzeCmd{}, "-save"))
	selection, _, err = ws.Selection()
	require.NoError(t, err)
	assert.True(t, selection.HasColumn(fundscreen.ColCompositeScore))

	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "ABC0001AU", "DEF0002AU"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &addCmd{}, "ZZZ9999AU"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &allocateCmd{}, "-comment", "core holding", "ABC0001AU", "60"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &allocateCmd{}, "-class", fundscreen.Alternatives, "DEF0002AU", "40"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &allocateCmd{}, "DEF0002AU", "forty"))

	p, err := ws.Portfolio()
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, "100", p.TotalAllocation().String())
	e, ok := p.Get("ABC0001AU")
	require.True(t, ok)
	assert.Equal(t, fundscreen.AustralianEquities, e.AssetClass)
	assert.Equal(t, "core holding", e.Comments)
	e, ok = p.Get("DEF0002AU")
	require.True(t, ok)
	assert.Equal(t, fundscreen.Alternatives, e.AssetClass)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &portfolioCmd{}, "-profile", "Balanced", "-amount", "100000"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &portfolioCmd{}, "-profile", "Reckless"))

	out := filepath.Join(t.TempDir(), "portfolio.csv")
	require.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, "-amount", "1000", "-o", out))
	exported, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "ABC0001AU,Alpha Fund,Equity Australia Large Blend,Australian Equities,60,core holding,")
	assert.Contains(t, string(exported), ",600.00\n")

	require.Equal(t, subcommands.ExitSuccess, run(t, &removeCmd{}, "DEF0002AU"))
	p, err = ws.Portfolio()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())
}

func TestImport_Invalid(t *testing.T) {
	dir := setup(t)
	name := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(name, []byte("Name,APIR Code\nAlpha,ABC0001AU\n"), 0o644))

	assert.Equal(t, subcommands.ExitFailure, run(t, &importCmd{}, name))
	_, err := os.Stat(filepath.Join(dir, fundsFile))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "-force", name))
	_, err = os.Stat(filepath.Join(dir, fundsFile))
	assert.NoError(t, err)

	assert.Equal(t, subcommands.ExitFailure, run(t, &importCmd{}, filepath.Join(t.TempDir(), "funds.txt")))
}

func TestPlatform(t *testing.T) {
	dir := setup(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, writeFunds(t)))

	list := filepath.Join(t.TempDir(), "platform.txt")
	require.NoError(t, os.WriteFile(list, []byte("Available funds\nAlpha Fund ABC0001AU\nGamma Fund GHI0003AU\n"), 0o644))
	require.Equal(t, subcommands.ExitSuccess, run(t, &platformCmd{}, list))

	funds, err := workspace{dir: dir}.Funds()
	require.NoError(t, err)
	assert.Equal(t, 2, funds.Len())
}

func TestWorkspace(t *testing.T) {
	ws := workspace{dir: filepath.Join(t.TempDir(), "nested")}

	_, err := ws.Funds()
	assert.ErrorContains(t, err, "fsc import")
	_, _, err = ws.Selection()
	assert.Error(t, err)

	p, err := ws.Portfolio()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	d, err := fundscreen.DecodeCSV(strings.NewReader(fundsCSV))
	require.NoError(t, err)
	require.NoError(t, ws.SetFunds(d))

	sel, expr, err := ws.Selection()
	require.NoError(t, err)
	assert.Equal(t, 3, sel.Len())
	assert.Empty(t, expr)

	require.NoError(t, ws.SetSelection(d.Where(func(r fundscreen.Row) bool {
		return r.Get(fundscreen.ColAPIR).Text() == "GHI0003AU"
	}), "fee < 1"))
	sel, expr, err = ws.Selection()
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Len())
	assert.Equal(t, "fee < 1", expr)

	// new data forgets the selection
	require.NoError(t, ws.SetFunds(d))
	sel, expr, err = ws.Selection()
	require.NoError(t, err)
	assert.Equal(t, 3, sel.Len())
	assert.Empty(t, expr)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, splitList(" a,, b c ,"))
	assert.Nil(t, splitList(""))
}

func TestExamplesMarkdown(t *testing.T) {
	setup(t)
	md, err := examplesMarkdown([]string{"analysis"})
	require.NoError(t, err)
	assert.Contains(t, md, "| analysis | `` `Composite Score` > 0 `` | refused |")

	md, err = examplesMarkdown([]string{"formula"})
	require.NoError(t, err)
	assert.Contains(t, md, "| formula | `return > 5 and fee < 1` | example |")

	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, writeFunds(t)))
	md, err = examplesMarkdown([]string{"formula"})
	require.NoError(t, err)
	assert.Contains(t, md, "| formula | `return > 5 and fee < 1` | applicable |")
	assert.Contains(t, md, "| formula | `return = 5` | refused |")

	_, err = examplesMarkdown([]string{"ledger"})
	assert.Error(t, err)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}, "-examples"))
}
