package fundscreen

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/xuri/excelize/v2"
)

// this file contains functions to handle the import/export of fund datasets.
// CSV is the canonical format, it is what analysts get out of Morningstar and
// what the workspace keeps on disk. JSON and XLSX are accepted on import only.

const bom = "\uFEFF"

// normalizeHeader trims cells, names empty columns unnamed_a, unnamed_b, ...
// and renames duplicated names X.1, X.2, ... like spreadsheet exports do.
func normalizeHeader(header []string) []string {
	res := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	unnamed := 0
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, bom))
		if h == "" {
			h = "unnamed_" + columnLetters(unnamed)
			unnamed++
		}
		res[i] = h
		taken[h] = true
	}
	seen := make(map[string]bool, len(header))
	for i, h := range res {
		if !seen[h] {
			seen[h] = true
			continue
		}
		name := h
		for k := 1; taken[name]; k++ {
			name = h + "." + strconv.Itoa(k)
		}
		res[i] = name
		taken[name], seen[name] = true, true
	}
	return res
}

// columnLetters returns a, b, ... z, aa, ab ...
func columnLetters(n int) string {
	s := ""
	for n >= 0 {
		s = string(rune('a'+n%26)) + s
		n = n/26 - 1
	}
	return s
}

// fromRecords builds a dataset from a header and string records. Short
// records are padded with missing values, long ones are an error.
func fromRecords(header []string, records [][]string) (*Dataset, error) {
	d, err := NewDataset(normalizeHeader(header)...)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(rec), len(header))
		}
		row := make([]Value, len(header))
		for j, cell := range rec {
			row[j] = ParseValue(cell)
		}
		// error checked by construction
		d.Append(row...)
	}
	return d, nil
}

// DecodeCSV reads a dataset from a CSV stream whose first record is the header.
func DecodeCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("the CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("the file is not a valid CSV format: %w", err)
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("the file is not a valid CSV format: %w", err)
	}
	return fromRecords(header, records)
}

// EncodeCSV writes d as CSV with a header record. Missing values are written
// as empty cells.
func EncodeCSV(w io.Writer, d *Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.columns); err != nil {
		return err
	}
	record := make([]string, len(d.columns))
	for _, r := range d.rows {
		for j, v := range r {
			record[j] = v.Text()
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// DecodeJSON reads a dataset from a JSON document. path is a JSONPath
// expression selecting the array of fund objects ("$" when the document is
// the array itself). Object keys become columns: the required fund columns
// first, in their usual order, then the others sorted.
func DecodeJSON(r io.Reader, path string) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse JSON document: %w", err)
	}
	if path == "" {
		path = "$"
	}
	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	// a path selecting a single array with a wildcard returns the elements,
	// a path pointing to the array returns it directly.
	items, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("path %q does not select an array but %T", path, selected)
	}

	objects := make([]map[string]any, 0, len(items))
	seen := make(map[string]bool)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d is not an object but %T", i, item)
		}
		objects = append(objects, obj)
		for k := range obj {
			seen[k] = true
		}
	}

	var columns []string
	for _, c := range RequiredColumns {
		if seen[c] {
			columns = append(columns, c)
			delete(seen, c)
		}
	}
	others := make([]string, 0, len(seen))
	for k := range seen {
		others = append(others, k)
	}
	sort.Strings(others)
	columns = append(columns, others...)

	d, err := NewDataset(columns...)
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		row := make([]Value, len(columns))
		for j, c := range columns {
			row[j] = jsonValue(obj[c])
		}
		d.Append(row...)
	}
	return d, nil
}

// jsonValue converts a decoded JSON value into a cell.
func jsonValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return NA()
	case json.Number:
		return ParseValue(x.String())
	case float64:
		return N(x)
	case string:
		return ParseValue(x)
	case bool:
		return T(strconv.FormatBool(x))
	default:
		b, _ := json.Marshal(x)
		return T(string(b))
	}
}

// DecodeXLSX reads a dataset from the first sheet of an Excel workbook, whose
// first row is the header.
func DecodeXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows found in XLSX file")
	}
	// excelize trims trailing empty cells, and skips nothing else.
	records := slices.DeleteFunc(rows[1:], func(r []string) bool { return len(r) == 0 })
	return fromRecords(rows[0], records)
}
