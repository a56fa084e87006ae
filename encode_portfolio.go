package fundscreen

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodePortfolio reads a portfolio from a JSONL stream, one Entry per line.
// Empty lines are skipped.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	p := NewPortfolio()
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", i, string(line), err)
		}
		if err := p.Add(e); err != nil {
			return nil, fmt.Errorf("invalid entry on line %d: %w", i, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePortfolio writes p as JSONL, one Entry per line in insertion order.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	enc := json.NewEncoder(w)
	for e := range p.Entries() {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("cannot encode entry %q: %w", e.APIR, err)
		}
	}
	return nil
}

// ExportPortfolio writes p as a CSV table for the client. When total is not
// zero an Amount column splits it according to the allocations.
func ExportPortfolio(w io.Writer, p *Portfolio, total Money) error {
	writer := csv.NewWriter(w)
	header := []string{"APIR", "Name", "Category", "Asset Class", "Allocation (%)", "Comments", "Added"}
	if !total.IsZero() {
		header = append(header, "Amount ("+total.Currency()+")")
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for e := range p.Entries() {
		allocation := ""
		if e.Allocation.Valid {
			allocation = e.Allocation.Decimal.String()
		}
		rec := []string{e.APIR, e.Name, e.Category, e.AssetClass, allocation, e.Comments, e.Added.String()}
		if !total.IsZero() {
			amount := ""
			if e.Allocation.Valid {
				amount = total.Share(e.Allocation.Decimal).Decimal().StringFixed(2)
			}
			rec = append(rec, amount)
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
