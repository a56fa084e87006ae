package fundscreen

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Asset classes used for portfolio construction.
const (
	Cash                       = "Cash"
	AustralianFixedInterest    = "Australian Fixed Interest"
	InternationalFixedInterest = "International Fixed Interest"
	AustralianEquities         = "Australian Equities"
	InternationalEquities      = "International Equities"
	Property                   = "Property"
	Alternatives               = "Alternatives"
)

// AssetClasses lists the asset classes in their display order.
var AssetClasses = []string{
	Cash,
	AustralianFixedInterest,
	InternationalFixedInterest,
	AustralianEquities,
	InternationalEquities,
	Property,
	Alternatives,
}

// IsAssetClass reports whether name is one of AssetClasses.
func IsAssetClass(name string) bool {
	for _, c := range AssetClasses {
		if c == name {
			return true
		}
	}
	return false
}

// DefaultCategoryMapping maps Morningstar categories to asset classes.
var DefaultCategoryMapping = map[string]string{
	"Alternative - Private Equity":       Alternatives,
	"Australia Equity Income":            AustralianEquities,
	"Australian Cash":                    Cash,
	"Bonds - Australia":                  AustralianFixedInterest,
	"Equity Australia Large Blend":       AustralianEquities,
	"Equity Australia Large Growth":      AustralianEquities,
	"Equity Australia Large Value":       AustralianEquities,
	"Equity Australia Mid/Small Growth":  AustralianEquities,
	"Equity Australia Real Estate":       Property,
	"Equity Emerging Markets":            InternationalEquities,
	"Equity Region Emerging Markets":     InternationalEquities,
	"Equity Sector Global - Real Estate": Property,
	"Equity World - Currency Hedged":     InternationalEquities,
	"Equity World Large Blend":           InternationalEquities,
	"Equity World Large Growth":          InternationalEquities,
	"Equity World Large Value":           InternationalEquities,
	"Equity World Mid/Small":             InternationalEquities,
	"Global Bond":                        InternationalFixedInterest,
}

// CategoryMapping resolves the asset class of a Morningstar category.
type CategoryMapping map[string]string

// NewCategoryMapping returns the default mapping with overrides applied.
// Overrides must target a known asset class.
func NewCategoryMapping(overrides map[string]string) (CategoryMapping, error) {
	m := make(CategoryMapping, len(DefaultCategoryMapping)+len(overrides))
	for k, v := range DefaultCategoryMapping {
		m[k] = v
	}
	for k, v := range overrides {
		if !IsAssetClass(v) {
			return nil, fmt.Errorf("category %q mapped to unknown asset class %q, want one of %s", k, v, strings.Join(AssetClasses, ", "))
		}
		m[k] = v
	}
	return m, nil
}

// AssetClass returns the asset class for a category, the first asset class
// when the category is unknown.
func (m CategoryMapping) AssetClass(category string) string {
	if c, ok := m[category]; ok {
		return c
	}
	return AssetClasses[0]
}

// RiskProfile is a strategic asset allocation: target percent per asset class.
type RiskProfile struct {
	Name    string
	Targets map[string]decimal.Decimal
}

// profile builds a RiskProfile from targets in AssetClasses order.
func profile(name string, targets ...int64) RiskProfile {
	p := RiskProfile{Name: name, Targets: make(map[string]decimal.Decimal)}
	for i, t := range targets {
		p.Targets[AssetClasses[i]] = decimal.NewFromInt(t)
	}
	return p
}

// RiskProfiles are the default strategic asset allocations, from the most
// defensive to the most growth oriented.
var RiskProfiles = []RiskProfile{
	profile("Defensive", 70, 30, 0, 0, 0, 0, 0),
	profile("Conservative", 20, 40, 20, 8, 6, 3, 3),
	profile("Moderate", 15, 30, 15, 18, 12, 5, 5),
	profile("Balanced", 5, 25, 10, 28, 20, 6, 6),
	profile("Growth", 2, 12, 6, 38, 26, 8, 8),
	profile("High Growth", 2, 0, 0, 48, 34, 8, 8),
}

// FindRiskProfile returns the profile with that name, case insensitive.
func FindRiskProfile(name string) (RiskProfile, error) {
	var names []string
	for _, p := range RiskProfiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
		names = append(names, p.Name)
	}
	return RiskProfile{}, fmt.Errorf("unknown risk profile %q, want one of %s", name, strings.Join(names, ", "))
}
