package renderer

import (
	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/formula"
)

// Filter is the report of a formula applied to the fund data.
type Filter struct {
	Formula   string  // as validated, aliases resolved
	Canonical string  // as parsed
	Aliases   []Alias // aliases the formula used
	Summary   formula.Summary
	Reasons   []Reason // why rows are missing, only the non zero ones
	Funds     Table
}

// Alias is an alias and the column it stands for.
type Alias struct {
	Name    string
	Column  string
	Present bool
}

// Reason counts the rows missing for one cause.
type Reason struct {
	Label string
	Count int
}

// NewFilter builds the report of o. Kept funds show columns (all when empty),
// at most limit of them when limit is positive.
func NewFilter(o *formula.Outcome, aliases formula.Aliases, columns []string, limit int) *Filter {
	f := &Filter{
		Formula:   o.Expression.Source(),
		Canonical: o.Expression.String(),
		Summary:   o.Summary,
		Funds:     NewTable(o.Filtered, columns, limit),
	}
	for _, name := range o.Aliases {
		f.Aliases = append(f.Aliases, Alias{Name: name, Column: aliases[name], Present: true})
	}
	for _, r := range []Reason{
		{"Missing operand", o.Result.MissingOperands},
		{"Type mismatch", o.Result.TypeMismatches},
		{"Division by zero", o.Result.DivisionsByZero},
	} {
		if r.Count > 0 {
			f.Reasons = append(f.Reasons, r)
		}
	}
	return f
}

// Kept returns the share of kept funds.
func (f *Filter) Kept() fundscreen.Percent {
	if f.Summary.Total == 0 {
		return 0
	}
	return fundscreen.Percent(100 * float64(f.Summary.Kept) / float64(f.Summary.Total))
}
