package fundscreen

import (
	"fmt"
	"iter"
	"slices"
)

// Dataset is an ordered sequence of rows sharing a fixed set of named columns.
//
// A Dataset is never modified once built by its producer: every transformation
// (selection, added columns, sorting) returns a new Dataset and leaves the
// receiver untouched, so a Dataset can be handed out as a read-only snapshot.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewDataset returns an empty dataset with the given columns. Duplicated
// column names are an error.
func NewDataset(columns ...string) (*Dataset, error) {
	d := &Dataset{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, exists := d.index[c]; exists {
			return nil, fmt.Errorf("duplicated column %q", c)
		}
		d.index[c] = i
	}
	return d, nil
}

// MustDataset is like NewDataset but panics on error. Rows are appended in order.
func MustDataset(columns []string, rows ...[]Value) *Dataset {
	d, err := NewDataset(columns...)
	if err != nil {
		panic(err)
	}
	for _, r := range rows {
		if err := d.Append(r...); err != nil {
			panic(err)
		}
	}
	return d
}

// Append adds a row. It is meant for producers building the dataset, before
// it is shared.
func (d *Dataset) Append(values ...Value) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("row has %d values, want %d", len(values), len(d.columns))
	}
	d.rows = append(d.rows, slices.Clone(values))
	return nil
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// HasColumn reports whether name is a column of d.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of the column name, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	i, ok := d.index[name]
	if !ok {
		return -1
	}
	return i
}

// At returns the value at row i and column position j.
func (d *Dataset) At(i, j int) Value { return d.rows[i][j] }

// Value returns the value of the column name at row i, Missing if there is no
// such column.
func (d *Dataset) Value(i int, name string) Value {
	j, ok := d.index[name]
	if !ok {
		return NA()
	}
	return d.rows[i][j]
}

// Column returns a copy of all the values of a column.
func (d *Dataset) Column(name string) ([]Value, bool) {
	j, ok := d.index[name]
	if !ok {
		return nil, false
	}
	values := make([]Value, len(d.rows))
	for i, r := range d.rows {
		values[i] = r[j]
	}
	return values, true
}

// Row returns a view on the row i.
func (d *Dataset) Row(i int) Row { return Row{ds: d, i: i} }

// Rows iterates over the rows in order.
func (d *Dataset) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := range d.rows {
			if !yield(i, d.Row(i)) {
				return
			}
		}
	}
}

// Select returns a new dataset with the rows whose keep flag is true, in the
// original order. keep must be aligned with the rows.
func (d *Dataset) Select(keep []bool) (*Dataset, error) {
	if len(keep) != len(d.rows) {
		return nil, fmt.Errorf("selection has %d flags for %d rows", len(keep), len(d.rows))
	}
	res := d.empty()
	for i, k := range keep {
		if k {
			res.rows = append(res.rows, d.rows[i])
		}
	}
	return res, nil
}

// Where returns a new dataset with the rows matching f.
func (d *Dataset) Where(f func(Row) bool) *Dataset {
	res := d.empty()
	for i, r := range d.rows {
		if f(d.Row(i)) {
			res.rows = append(res.rows, r)
		}
	}
	return res
}

// WithColumn returns a new dataset with an extra column, or with the column
// replaced if it already exists.
func (d *Dataset) WithColumn(name string, values []Value) (*Dataset, error) {
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(d.rows))
	}
	j, exists := d.index[name]
	res := d.empty()
	if !exists {
		j = len(res.columns)
		res.columns = append(res.columns, name)
		res.index[name] = j
	}
	res.rows = make([][]Value, len(d.rows))
	for i, r := range d.rows {
		row := slices.Grow(slices.Clone(r), 1)
		if exists {
			row[j] = values[i]
		} else {
			row = append(row, values[i])
		}
		res.rows[i] = row
	}
	return res, nil
}

// SortFunc returns a new dataset with the rows sorted by cmp, stable.
func (d *Dataset) SortFunc(cmp func(a, b Row) int) *Dataset {
	order := make([]int, len(d.rows))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp(d.Row(a), d.Row(b)) })
	res := d.empty()
	res.rows = make([][]Value, len(order))
	for i, o := range order {
		res.rows[i] = d.rows[o]
	}
	return res
}

// empty returns a dataset with the same columns and no rows.
func (d *Dataset) empty() *Dataset {
	res := &Dataset{
		columns: slices.Clone(d.columns),
		index:   make(map[string]int, len(d.columns)),
	}
	for i, c := range res.columns {
		res.index[c] = i
	}
	return res
}

// Concat stacks datasets. The result has the union of the columns in first
// seen order, cells absent from a source dataset are Missing.
func Concat(datasets ...*Dataset) *Dataset {
	res := &Dataset{index: make(map[string]int)}
	for _, d := range datasets {
		for _, c := range d.columns {
			if _, ok := res.index[c]; !ok {
				res.index[c] = len(res.columns)
				res.columns = append(res.columns, c)
			}
		}
	}
	for _, d := range datasets {
		for _, r := range d.rows {
			row := make([]Value, len(res.columns))
			for j, c := range d.columns {
				row[res.index[c]] = r[j]
			}
			res.rows = append(res.rows, row)
		}
	}
	return res
}

// Row is a read-only view on a dataset row.
type Row struct {
	ds *Dataset
	i  int
}

// Index returns the row position in its dataset.
func (r Row) Index() int { return r.i }

// Get returns the value of the column name, Missing if there is no such column.
func (r Row) Get(name string) Value { return r.ds.Value(r.i, name) }

// Map returns the row as a mapping from column name to value.
func (r Row) Map() map[string]Value {
	m := make(map[string]Value, len(r.ds.columns))
	for j, c := range r.ds.columns {
		m[c] = r.ds.rows[r.i][j]
	}
	return m
}
