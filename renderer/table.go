package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/fundscreen"
)

// Table holds the formatted cells of a dataset.
type Table struct {
	Columns []string
	Numeric []bool // right aligned columns
	Hidden  int    // rows left out by the limit
	Rows    [][]string
}

// NewTable formats the given columns of d, all of them when columns is
// empty. Columns absent from d are skipped. When limit is positive, at most
// limit rows are kept.
func NewTable(d *fundscreen.Dataset, columns []string, limit int) Table {
	if len(columns) == 0 {
		columns = d.Columns()
	}
	var t Table
	for _, c := range columns {
		if d.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}

	t.Numeric = make([]bool, len(t.Columns))
	for j, c := range t.Columns {
		values, _ := d.Column(c)
		numbers := 0
		text := false
		for _, v := range values {
			switch {
			case v.IsNumber():
				numbers++
			case v.IsText():
				text = true
			}
		}
		t.Numeric[j] = numbers > 0 && !text
	}

	for i, r := range d.Rows() {
		if limit > 0 && i >= limit {
			t.Hidden = d.Len() - limit
			break
		}
		row := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = cell(r.Get(c))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Markdown returns the table in markdown. A table without columns is empty.
func (t Table) Markdown() string {
	if len(t.Columns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("|")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, " %s |", escape(c))
	}
	b.WriteString("\n|")
	for _, numeric := range t.Numeric {
		if numeric {
			b.WriteString("---:|")
		} else {
			b.WriteString(":---|")
		}
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
	}
	if t.Hidden > 0 {
		fmt.Fprintf(&b, "\n_%d more funds not shown._\n", t.Hidden)
	}
	return b.String()
}

// DatasetMarkdown renders columns of d (all when empty) as a markdown table
// of at most limit rows (no limit when limit <= 0).
func DatasetMarkdown(d *fundscreen.Dataset, columns []string, limit int) string {
	return NewTable(d, columns, limit).Markdown()
}
