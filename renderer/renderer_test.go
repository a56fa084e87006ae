package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/date"
	"github.com/etnz/fundscreen/formula"
	"github.com/shopspring/decimal"
)

func funds() *fundscreen.Dataset {
	return fundscreen.MustDataset([]string{fundscreen.ColName, fundscreen.ColAPIR, fundscreen.ColReturn, fundscreen.ColFee},
		[]fundscreen.Value{fundscreen.T("Alpha"), fundscreen.T("ABC0001AU"), fundscreen.N(4), fundscreen.N(0.5)},
		[]fundscreen.Value{fundscreen.T("Beta"), fundscreen.T("DEF0002AU"), fundscreen.N(6), fundscreen.N(0.5)},
		[]fundscreen.Value{fundscreen.T("Gamma"), fundscreen.T("GHI0003AU"), fundscreen.NA(), fundscreen.N(0.2)},
	)
}

// contains reports every missing part of got.
func contains(t *testing.T, got string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(got, p) {
			t.Errorf("output does not contain %q:\n%s", p, got)
		}
	}
}

func TestDatasetMarkdown(t *testing.T) {
	d := fundscreen.MustDataset([]string{fundscreen.ColName, fundscreen.ColReturn},
		[]fundscreen.Value{fundscreen.T("A|B"), fundscreen.N(4.567)},
		[]fundscreen.Value{fundscreen.T("C"), fundscreen.NA()},
		[]fundscreen.Value{fundscreen.T("D"), fundscreen.N(1)},
	)

	tests := []struct {
		name    string
		columns []string
		limit   int
		want    string
	}{
		{
			name:  "limited",
			limit: 2,
			want: `| Name | 3 Years Annualised (%) |
|:---|---:|
| A\|B | 4.57 |
| C | N/A |

_1 more funds not shown._
`,
		},
		{
			name:    "selected columns",
			columns: []string{fundscreen.ColReturn, "absent"},
			want: `| 3 Years Annualised (%) |
|---:|
| 4.57 |
| N/A |
| 1 |
`,
		},
		{
			name:    "no column",
			columns: []string{"absent"},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DatasetMarkdown(d, tt.columns, tt.limit); got != tt.want {
				t.Errorf("DatasetMarkdown() = \n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderFilter(t *testing.T) {
	e, err := formula.NewEngine(nil, nil)
	if err != nil {
		t.Fatalf("NewEngine() unexpected error: %v", err)
	}
	o, err := e.Submit("return > 5 and fee < 1", funds())
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	f := NewFilter(o, e.Aliases(), []string{fundscreen.ColName, fundscreen.ColReturn}, 0)
	got := RenderFilter(f)
	contains(t, got,
		"# Filter",
		"**Formula:** `` `3 Years Annualised (%)` > 5 and `Investment Management Fee(%)` < 1 ``",
		"| return | 3 Years Annualised (%) |",
		"| fee | Investment Management Fee(%) |",
		"| Total | 3 |",
		"| Kept | 1 (33.3%) |",
		"| Excluded by formula | 1 |",
		"| Excluded, missing data | 1 |",
		"- Missing operand: 1",
		"| Beta | 6 |",
	)
	if strings.Contains(got, "Alpha") || strings.Contains(got, "Gamma") {
		t.Errorf("excluded funds are rendered:\n%s", got)
	}
	if strings.Contains(got, "Division by zero") {
		t.Errorf("empty reasons are rendered:\n%s", got)
	}

	o, err = e.Submit("`3 Years Annualised (%)` > 100", funds())
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	got = RenderFilter(NewFilter(o, e.Aliases(), nil, 0))
	contains(t, got, "_No fund matches the formula._", "| Kept | 0 (0.0%) |")
	if strings.Contains(got, "| Alias |") {
		t.Errorf("alias table rendered without aliases:\n%s", got)
	}
}

func TestRenderPortfolio(t *testing.T) {
	p := fundscreen.NewPortfolio()
	p.Add(fundscreen.Entry{APIR: "ABC0001AU", Name: "Alpha", AssetClass: fundscreen.Cash, Comments: "core", Added: date.New(2025, time.March, 1)})
	p.Add(fundscreen.Entry{APIR: "DEF0002AU", Name: "Beta", AssetClass: fundscreen.Property})
	p.Allocate("ABC0001AU", decimal.NewFromInt(40))

	profile, err := fundscreen.FindRiskProfile("Balanced")
	if err != nil {
		t.Fatalf("FindRiskProfile() unexpected error: %v", err)
	}
	got := RenderPortfolio(NewPortfolio(p, funds(), profile, fundscreen.M(10000, "AUD")))
	contains(t, got,
		"# Recommended Portfolio",
		"Investment: $10,000.00",
		"| ABC0001AU | Alpha | Cash | 40.0% | $4,000.00 | core |",
		"| DEF0002AU | Beta | Property | - |  |  |",
		"Total allocation: 40.0% (1 funds without allocation)",
		"| 3 Years Return | 1.6% |",
		"| Data Coverage | 40.0% |",
		"## Asset Allocation (Balanced)",
		"| Cash | 40.0% | 5.0% | +35.0% |",
		"| Property | 0.0% | 6.0% | -6.0% |",
	)

	got = RenderPortfolio(NewPortfolio(fundscreen.NewPortfolio(), nil, fundscreen.RiskProfile{}, fundscreen.Money{}))
	contains(t, got, "_The portfolio is empty._")
	for _, absent := range []string{"Asset Allocation", "Weighted Metrics", "Investment:"} {
		if strings.Contains(got, absent) {
			t.Errorf("empty portfolio renders %q:\n%s", absent, got)
		}
	}
}

func TestAliasesMarkdown(t *testing.T) {
	a := formula.Aliases{"perf": fundscreen.ColReturn, "x": "Absent"}

	want := `| Alias | Column |
|:---|:---|
| perf | 3 Years Annualised (%) |
| x | Absent |
`
	if got := AliasesMarkdown(a, nil); got != want {
		t.Errorf("AliasesMarkdown() = \n%s\nwant\n%s", got, want)
	}

	got := AliasesMarkdown(a, funds())
	contains(t, got, "| perf | 3 Years Annualised (%) | yes |", "| x | Absent | no |")
}

func TestErrorMarkdown(t *testing.T) {
	_, err := formula.Compile("return > 5 ; 1", formula.DefaultAliases(), funds().Columns())
	if err == nil {
		t.Fatal("Compile() must fail")
	}
	resolved := "`3 Years Annualised (%)` > 5 ; 1"
	caret := strings.Repeat(" ", strings.Index(resolved, ";")) + "^"
	contains(t, ErrorMarkdown(err),
		"**DisallowedToken:**",
		"```text\n"+resolved+"\n"+caret+"\n```\n",
	)

	_, err = formula.Compile("  ", nil, nil)
	got := ErrorMarkdown(err)
	contains(t, got, "**EmptyExpression:**")
	if strings.Contains(got, "^") {
		t.Errorf("an error without position has a caret:\n%s", got)
	}

	if got, want := ErrorMarkdown(errors.New("boom")), "**Error:** boom\n"; got != want {
		t.Errorf("ErrorMarkdown() = %q, want %q", got, want)
	}
}

func TestAnalysisMarkdown(t *testing.T) {
	avg := fundscreen.MustDataset([]string{fundscreen.ColCategory, fundscreen.ColReturn},
		[]fundscreen.Value{fundscreen.T("Global Bond"), fundscreen.N(5)},
	)
	got := AnalysisMarkdown(funds(), []string{fundscreen.ColName}, 1, avg)
	contains(t, got, "## Ranking", "| Alpha |", "_2 more funds not shown._", "## Category Averages", "| Global Bond | 5 |")

	got = AnalysisMarkdown(nil, nil, 0, nil)
	if strings.Contains(got, "Category Averages") {
		t.Errorf("AnalysisMarkdown() renders empty averages:\n%s", got)
	}
}
