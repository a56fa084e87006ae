package fundscreen

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/etnz/fundscreen/date"
	"github.com/shopspring/decimal"
)

// Entry is a fund hand-picked into the recommended portfolio.
type Entry struct {
	APIR       string              `json:"apir"`
	Name       string              `json:"name"`
	Category   string              `json:"category,omitempty"`
	AssetClass string              `json:"asset_class"`
	Allocation decimal.NullDecimal `json:"allocation"` // percent of the portfolio, null until set
	Comments   string              `json:"comments,omitempty"`
	Added      date.Date           `json:"added"`
}

// Portfolio is the analyst's shortlist, ordered by insertion and keyed by
// APIR code.
type Portfolio struct {
	entries []*Entry
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() *Portfolio { return &Portfolio{} }

// Len returns the number of funds.
func (p *Portfolio) Len() int { return len(p.entries) }

// Entries iterates over the funds in insertion order.
func (p *Portfolio) Entries() iter.Seq[*Entry] { return slices.Values(p.entries) }

// Get returns the entry for an APIR code.
func (p *Portfolio) Get(apir string) (*Entry, bool) {
	i := p.find(apir)
	if i < 0 {
		return nil, false
	}
	return p.entries[i], true
}

func (p *Portfolio) find(apir string) int {
	return slices.IndexFunc(p.entries, func(e *Entry) bool { return strings.EqualFold(e.APIR, apir) })
}

// Add appends e to the portfolio. A fund can only be added once.
func (p *Portfolio) Add(e Entry) error {
	e.APIR = strings.ToUpper(strings.TrimSpace(e.APIR))
	if e.APIR == "" {
		return fmt.Errorf("cannot add a fund without APIR code")
	}
	if p.find(e.APIR) >= 0 {
		return fmt.Errorf("fund %q is already in the portfolio", e.APIR)
	}
	if e.AssetClass == "" {
		e.AssetClass = AssetClasses[0]
	}
	if !IsAssetClass(e.AssetClass) {
		return fmt.Errorf("unknown asset class %q", e.AssetClass)
	}
	p.entries = append(p.entries, &e)
	return nil
}

// AddFund adds the fund with the given APIR code found in d. Its asset class
// comes from the category mapping.
func (p *Portfolio) AddFund(d *Dataset, apir string, mapping CategoryMapping, on date.Date) (*Entry, error) {
	var row Row
	found := false
	for _, r := range d.Rows() {
		if strings.EqualFold(r.Get(ColAPIR).Text(), apir) {
			row, found = r, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no fund with APIR code %q in the data", apir)
	}
	e := Entry{
		APIR:       row.Get(ColAPIR).Text(),
		Name:       row.Get(ColName).Text(),
		Category:   row.Get(ColCategory).Text(),
		AssetClass: mapping.AssetClass(row.Get(ColCategory).Text()),
		Added:      on,
	}
	if err := p.Add(e); err != nil {
		return nil, err
	}
	return p.entries[len(p.entries)-1], nil
}

// Remove deletes a fund from the portfolio, with its allocation.
func (p *Portfolio) Remove(apir string) (Entry, error) {
	i := p.find(apir)
	if i < 0 {
		return Entry{}, fmt.Errorf("fund %q is not in the portfolio", apir)
	}
	e := *p.entries[i]
	p.entries = slices.Delete(p.entries, i, i+1)
	return e, nil
}

// Allocate sets the allocation percent of a fund, between 0 and 100.
func (p *Portfolio) Allocate(apir string, percent decimal.Decimal) error {
	e, ok := p.Get(apir)
	if !ok {
		return fmt.Errorf("fund %q is not in the portfolio", apir)
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("allocation must be between 0 and 100, got %s", percent)
	}
	e.Allocation = decimal.NewNullDecimal(percent)
	return nil
}

// Unallocate clears the allocation of a fund.
func (p *Portfolio) Unallocate(apir string) error {
	e, ok := p.Get(apir)
	if !ok {
		return fmt.Errorf("fund %q is not in the portfolio", apir)
	}
	e.Allocation = decimal.NullDecimal{}
	return nil
}

// Comment replaces the comments of a fund.
func (p *Portfolio) Comment(apir, comments string) error {
	e, ok := p.Get(apir)
	if !ok {
		return fmt.Errorf("fund %q is not in the portfolio", apir)
	}
	e.Comments = strings.TrimSpace(comments)
	return nil
}

// SetAssetClass overrides the asset class of a fund.
func (p *Portfolio) SetAssetClass(apir, class string) error {
	e, ok := p.Get(apir)
	if !ok {
		return fmt.Errorf("fund %q is not in the portfolio", apir)
	}
	if !IsAssetClass(class) {
		return fmt.Errorf("unknown asset class %q", class)
	}
	e.AssetClass = class
	return nil
}

// TotalAllocation sums the allocations that are set.
func (p *Portfolio) TotalAllocation() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.entries {
		if e.Allocation.Valid {
			total = total.Add(e.Allocation.Decimal)
		}
	}
	return total
}

// Metrics are allocation weighted fund metrics.
type Metrics struct {
	Return   decimal.Decimal
	StdDev   decimal.Decimal
	Beta     decimal.Decimal
	Sharpe   decimal.Decimal
	Fee      decimal.Decimal
	Coverage decimal.Decimal // percent of the portfolio whose data was found
}

// Metrics computes the weighted metrics of the allocated funds, looking their
// data up in d by APIR code. A metric missing for a fund contributes nothing.
// ok is false when no allocated fund is found in d.
func (p *Portfolio) Metrics(d *Dataset) (m Metrics, ok bool) {
	rows := make(map[string]Row)
	for _, r := range d.Rows() {
		code := strings.ToUpper(r.Get(ColAPIR).Text())
		if _, seen := rows[code]; !seen {
			rows[code] = r
		}
	}

	hundred := decimal.NewFromInt(100)
	weighted := func(acc *decimal.Decimal, w decimal.Decimal, v Value) {
		if x, ok := v.Number(); ok {
			*acc = acc.Add(w.Mul(x))
		}
	}
	for _, e := range p.entries {
		if !e.Allocation.Valid {
			continue
		}
		r, found := rows[e.APIR]
		if !found {
			continue
		}
		w := e.Allocation.Decimal.Div(hundred)
		weighted(&m.Return, w, r.Get(ColReturn))
		weighted(&m.StdDev, w, r.Get(ColStdDev))
		weighted(&m.Beta, w, r.Get(ColBeta))
		weighted(&m.Sharpe, w, r.Get(ColSharpe))
		weighted(&m.Fee, w, r.Get(ColFee))
		m.Coverage = m.Coverage.Add(e.Allocation.Decimal)
		ok = true
	}
	return m, ok
}

// AssetClassWeight is the allocation of an asset class, against a target.
type AssetClassWeight struct {
	AssetClass string
	Allocation decimal.Decimal
	Target     decimal.Decimal
}

// Difference returns Allocation - Target.
func (w AssetClassWeight) Difference() decimal.Decimal { return w.Allocation.Sub(w.Target) }

// Breakdown sums allocations per asset class, in AssetClasses order, with
// the targets of profile (zero targets for an empty profile).
func (p *Portfolio) Breakdown(profile RiskProfile) []AssetClassWeight {
	sums := make(map[string]decimal.Decimal)
	for _, e := range p.entries {
		if e.Allocation.Valid {
			sums[e.AssetClass] = sums[e.AssetClass].Add(e.Allocation.Decimal)
		}
	}
	res := make([]AssetClassWeight, 0, len(AssetClasses))
	for _, c := range AssetClasses {
		res = append(res, AssetClassWeight{
			AssetClass: c,
			Allocation: sums[c],
			Target:     profile.Targets[c],
		})
	}
	return res
}
