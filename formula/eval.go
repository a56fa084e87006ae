package formula

import (
	"github.com/etnz/fundscreen"
)

// Result is the outcome of a formula over every row of a dataset.
type Result struct {
	Pass    []bool // Pass[i] is true when row i satisfies the formula
	Missing []bool // Missing[i] is true when row i could not be evaluated

	MissingCount int // number of true in Missing

	// Why rows are missing.
	MissingOperands int
	TypeMismatches  int
	DivisionsByZero int
}

// Len returns the number of rows evaluated.
func (r *Result) Len() int { return len(r.Pass) }

// PassCount returns the number of rows satisfying the formula.
func (r *Result) PassCount() int {
	n := 0
	for _, p := range r.Pass {
		if p {
			n++
		}
	}
	return n
}

// Evaluate computes x on every row of d. A row that reads a missing cell,
// mixes text into arithmetic or divides by zero is missing: it does not pass
// and is counted in MissingCount. Evaluate never fails on row data, it only
// fails when d lacks a column x reads, UnknownColumn.
func Evaluate(x *Expression, d *fundscreen.Dataset) (*Result, error) {
	index := make(map[string]int, len(x.columns))
	for _, c := range x.columns {
		j := d.ColumnIndex(c)
		if j < 0 {
			return nil, errorf(UnknownColumn, c, -1, "column %q is not in the data", c)
		}
		index[c] = j
	}

	n := d.Len()
	res := &Result{Pass: make([]bool, n), Missing: make([]bool, n)}
	for i := range n {
		v := x.root.eval(func(column string) fundscreen.Value { return d.At(i, index[column]) })
		switch {
		case v.kind == kindBool:
			res.Pass[i] = v.b
			continue
		case v.kind != kindMissing:
			// unreachable for a validated formula, whose root is a condition
			v = missing(typeMismatch)
		}
		res.Missing[i] = true
		res.MissingCount++
		switch v.why {
		case divisionByZero:
			res.DivisionsByZero++
		case typeMismatch:
			res.TypeMismatches++
		default:
			res.MissingOperands++
		}
	}
	return res, nil
}
