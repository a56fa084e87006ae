package renderer

import (
	"github.com/etnz/fundscreen"
)

// Portfolio is the report of the recommended portfolio.
type Portfolio struct {
	Profile         string // risk profile name, no breakdown when empty
	Amount          string // investment amount, empty when none
	Entries         []PortfolioEntry
	TotalAllocation string
	Unallocated     int // funds without allocation
	Metrics         *PortfolioMetrics
	Breakdown       []Weight
}

// PortfolioEntry is one fund of the portfolio, formatted.
type PortfolioEntry struct {
	APIR       string
	Name       string
	Category   string
	AssetClass string
	Allocation string
	Amount     string
	Comments   string
	Added      string
}

// PortfolioMetrics are the weighted metrics, formatted.
type PortfolioMetrics struct {
	Return   string
	StdDev   string
	Beta     string
	Sharpe   string
	Fee      string
	Coverage string
}

// Weight is the allocation of an asset class against its target.
type Weight struct {
	AssetClass string
	Allocation string
	Target     string
	Difference string
}

// NewPortfolio builds the report of p. Metrics are looked up in d, which
// may be nil. The breakdown compares with profile when it has a name, and
// amounts are computed when total is not zero.
func NewPortfolio(p *fundscreen.Portfolio, d *fundscreen.Dataset, profile fundscreen.RiskProfile, total fundscreen.Money) *Portfolio {
	r := &Portfolio{
		Profile:         profile.Name,
		TotalAllocation: percent(p.TotalAllocation()),
	}
	if !total.IsZero() {
		r.Amount = total.String()
	}

	for e := range p.Entries() {
		pe := PortfolioEntry{
			APIR:       e.APIR,
			Name:       escape(e.Name),
			Category:   escape(e.Category),
			AssetClass: e.AssetClass,
			Allocation: "-",
			Comments:   escape(e.Comments),
		}
		if !e.Added.IsZero() {
			pe.Added = e.Added.String()
		}
		if e.Allocation.Valid {
			pe.Allocation = percent(e.Allocation.Decimal)
			if r.Amount != "" {
				pe.Amount = total.Share(e.Allocation.Decimal).String()
			}
		} else {
			r.Unallocated++
		}
		r.Entries = append(r.Entries, pe)
	}

	if d != nil {
		if m, ok := p.Metrics(d); ok {
			r.Metrics = &PortfolioMetrics{
				Return:   percent(m.Return),
				StdDev:   percent(m.StdDev),
				Beta:     m.Beta.Round(2).String(),
				Sharpe:   m.Sharpe.Round(2).String(),
				Fee:      percent(m.Fee),
				Coverage: percent(m.Coverage),
			}
		}
	}

	if profile.Name != "" {
		for _, w := range p.Breakdown(profile) {
			r.Breakdown = append(r.Breakdown, Weight{
				AssetClass: w.AssetClass,
				Allocation: percent(w.Allocation),
				Target:     percent(w.Target),
				Difference: signedPercent(w.Difference()),
			})
		}
	}
	return r
}
