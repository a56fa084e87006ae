package formula

import (
	"fmt"

	"github.com/etnz/fundscreen"
)

// Summary counts what happened to the rows of a filtered dataset.
// Kept + ExcludedByFormula + ExcludedMissing == Total.
type Summary struct {
	Total             int
	Kept              int
	ExcludedByFormula int
	ExcludedMissing   int
}

// Apply returns the rows of d that pass r, in their original order, and the
// summary. d is left untouched.
func Apply(d *fundscreen.Dataset, r *Result) (*fundscreen.Dataset, Summary, error) {
	if r.Len() != d.Len() {
		return nil, Summary{}, fmt.Errorf("result has %d rows, the data has %d", r.Len(), d.Len())
	}
	filtered, err := d.Select(r.Pass)
	if err != nil {
		return nil, Summary{}, err
	}
	s := Summary{Total: d.Len(), Kept: filtered.Len(), ExcludedMissing: r.MissingCount}
	s.ExcludedByFormula = s.Total - s.Kept - s.ExcludedMissing
	return filtered, s, nil
}
