package fundscreen

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Columns added by the analysis functions.
const (
	ColReturnRisk     = "Return/Risk Ratio"
	ColReturnFee      = "Return/Fee Ratio"
	ColBetaDiff       = "Category Avg Beta - Fund Beta"
	ColSharpeDiff     = "Fund Sharpe - Category Avg Sharpe"
	ColStdDevDiff     = "Fund StdDev - Category Avg StdDev"
	ColCompositeScore = "Composite Score"
	ColRank           = "Rank"
)

// mean accumulates numbers, ignoring everything else.
type mean struct {
	sum   decimal.Decimal
	count int64
}

func (m *mean) add(v Value) {
	if d, ok := v.Number(); ok {
		m.sum = m.sum.Add(d)
		m.count++
	}
}

func (m mean) value() Value {
	if m.count == 0 {
		return NA()
	}
	return N(m.sum.Div(decimal.NewFromInt(m.count)))
}

// CategoryAverages returns one row per Morningstar category, sorted by name,
// with the mean of each requested column. Missing and text values are
// ignored; a category without any number for a column gets a missing mean.
// With no columns, NumericColumns are averaged.
func CategoryAverages(d *Dataset, columns ...string) (*Dataset, error) {
	if !d.HasColumn(ColCategory) {
		return nil, fmt.Errorf("no %q column in the data", ColCategory)
	}
	if len(columns) == 0 {
		columns = NumericColumns
	}
	var present []string
	for _, c := range columns {
		if d.HasColumn(c) {
			present = append(present, c)
		}
	}

	means := make(map[string][]mean)
	for _, r := range d.Rows() {
		cat := r.Get(ColCategory).Text()
		m, ok := means[cat]
		if !ok {
			m = make([]mean, len(present))
			means[cat] = m
		}
		for j, c := range present {
			m[j].add(r.Get(c))
		}
	}

	res, err := NewDataset(append([]string{ColCategory}, present...)...)
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(means))
	for c := range means {
		categories = append(categories, c)
	}
	slices.Sort(categories)
	for _, cat := range categories {
		row := []Value{T(cat)}
		for _, m := range means[cat] {
			row = append(row, m.value())
		}
		res.Append(row...)
	}
	return res, nil
}

// ratio returns a/b, missing when either is missing or b is zero.
func ratio(a, b Value) Value {
	x, ok := a.Number()
	if !ok {
		return NA()
	}
	y, ok := b.Number()
	if !ok || y.IsZero() {
		return NA()
	}
	return N(x.Div(y))
}

// WithPerformanceMetrics returns d with the return to risk and return to fee
// ratios added, when the underlying columns exist.
func WithPerformanceMetrics(d *Dataset) (*Dataset, error) {
	var err error
	res := d
	if d.HasColumn(ColReturn) && d.HasColumn(ColStdDev) {
		res, err = res.WithColumn(ColReturnRisk, derive(res, func(r Row) Value {
			return ratio(r.Get(ColReturn), r.Get(ColStdDev))
		}))
		if err != nil {
			return nil, err
		}
	}
	if d.HasColumn(ColReturn) && d.HasColumn(ColFee) {
		res, err = res.WithColumn(ColReturnFee, derive(res, func(r Row) Value {
			return ratio(r.Get(ColReturn), r.Get(ColFee))
		}))
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// derive computes one value per row.
func derive(d *Dataset, f func(Row) Value) []Value {
	values := make([]Value, d.Len())
	for i, r := range d.Rows() {
		values[i] = f(r)
	}
	return values
}

// WithCompositeScore returns d with the category relative columns and the
// composite score:
//
//	(Fund StdDev - Category Avg StdDev)/10 + (Fund Sharpe - Category Avg Sharpe) + (Category Avg Beta - Fund Beta)
//
// Category averages are computed over d itself. Any missing term makes the
// score missing.
func WithCompositeScore(d *Dataset) (*Dataset, error) {
	for _, c := range []string{ColCategory, ColBeta, ColSharpe, ColStdDev} {
		if !d.HasColumn(c) {
			return nil, fmt.Errorf("no %q column in the data", c)
		}
	}
	avg, err := CategoryAverages(d, ColBeta, ColSharpe, ColStdDev)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]Row)
	for _, r := range avg.Rows() {
		byCategory[r.Get(ColCategory).Text()] = r
	}

	diff := func(r Row, col string, fundFirst bool) Value {
		a, ok := byCategory[r.Get(ColCategory).Text()]
		if !ok {
			return NA()
		}
		fund, ok1 := r.Get(col).Number()
		cat, ok2 := a.Get(col).Number()
		if !ok1 || !ok2 {
			return NA()
		}
		if fundFirst {
			return N(fund.Sub(cat))
		}
		return N(cat.Sub(fund))
	}

	betas := derive(d, func(r Row) Value { return diff(r, ColBeta, false) })
	sharpes := derive(d, func(r Row) Value { return diff(r, ColSharpe, true) })
	stdevs := derive(d, func(r Row) Value { return diff(r, ColStdDev, true) })
	scores := make([]Value, d.Len())
	ten := decimal.NewFromInt(10)
	for i := range scores {
		b, ok1 := betas[i].Number()
		s, ok2 := sharpes[i].Number()
		v, ok3 := stdevs[i].Number()
		if !ok1 || !ok2 || !ok3 {
			scores[i] = NA()
			continue
		}
		scores[i] = N(v.Div(ten).Add(s).Add(b))
	}

	res := d
	for _, c := range []struct {
		name   string
		values []Value
	}{
		{ColBetaDiff, betas},
		{ColSharpeDiff, sharpes},
		{ColStdDevDiff, stdevs},
		{ColCompositeScore, scores},
	} {
		if res, err = res.WithColumn(c.name, c.values); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Rank returns d sorted on a numeric column with a Rank column added (1 is
// the best). Missing values come last and share no rank. Ties keep their
// original order and get distinct ranks.
func Rank(d *Dataset, column string, ascending bool) (*Dataset, error) {
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("no %q column in the data", column)
	}
	sorted := d.SortFunc(func(a, b Row) int {
		x, okx := a.Get(column).Number()
		y, oky := b.Get(column).Number()
		switch {
		case !okx && !oky:
			return 0
		case !okx:
			return 1
		case !oky:
			return -1
		}
		if ascending {
			return x.Cmp(y)
		}
		return y.Cmp(x)
	})
	ranks := make([]Value, sorted.Len())
	for i, r := range sorted.Rows() {
		if _, ok := r.Get(column).Number(); ok {
			ranks[i] = N(i + 1)
		}
	}
	return sorted.WithColumn(ColRank, ranks)
}
