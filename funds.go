package fundscreen

import (
	"errors"
	"fmt"
	"strings"
)

// Columns of a Morningstar fund export.
const (
	ColName     = "Name"
	ColAPIR     = "APIR Code"
	ColCategory = "Morningstar Category"
	ColReturn   = "3 Years Annualised (%)"
	ColFee      = "Investment Management Fee(%)"
	ColStyleBox = "Equity StyleBox™"
	ColRating   = "Morningstar Rating"
	ColBeta     = "3 Year Beta"
	ColStdDev   = "3 Year Standard Deviation"
	ColSharpe   = "3 Year Sharpe Ratio"
)

// RequiredColumns lists the columns every imported fund file must have.
var RequiredColumns = []string{
	ColName, ColAPIR, ColCategory, ColReturn, ColFee,
	ColStyleBox, ColRating, ColBeta, ColStdDev, ColSharpe,
}

// NumericColumns lists the columns that must hold numbers when not blank.
var NumericColumns = []string{ColReturn, ColFee, ColBeta, ColStdDev, ColSharpe}

// ValidateFunds checks that d has every required column and that numeric
// columns hold numbers or missing values. All failures are joined in the
// returned error.
func ValidateFunds(d *Dataset) error {
	var missing []string
	for _, c := range RequiredColumns {
		if !d.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var errs []error
	for _, c := range NumericColumns {
		j := d.ColumnIndex(c)
		for i := range d.Len() {
			if v := d.At(i, j); v.IsText() {
				errs = append(errs, fmt.Errorf("column %q must contain numeric values (when not blank): row %d has %q", c, i+1, v.Text()))
			}
		}
	}
	return errors.Join(errs...)
}
