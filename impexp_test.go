package fundscreen

import (
	"slices"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV(t *testing.T) {
	src := bom + `Name,APIR Code,3 Years Annualised (%),
Alpha Fund,ABC0001AU,4.5,x
Beta Fund,DEF0002AU,-,
Gamma Fund,GHI0003AU,"1,234.5"
`
	d, err := DecodeCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeCSV() unexpected error: %v", err)
	}
	if want := []string{ColName, ColAPIR, ColReturn, "unnamed_a"}; !slices.Equal(d.Columns(), want) {
		t.Errorf("columns = %q, want %q", d.Columns(), want)
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}
	checks := []struct {
		row    int
		column string
		want   Value
	}{
		{0, ColReturn, N(4.5)},
		{0, "unnamed_a", T("x")},
		{1, ColReturn, NA()},
		{2, ColReturn, N(1234.5)},
		{2, "unnamed_a", NA()},
	}
	for _, c := range checks {
		if got := d.Value(c.row, c.column); !got.Equal(c.want) {
			t.Errorf("row %d %q = %v, want %v", c.row, c.column, got, c.want)
		}
	}
}

func TestDecodeCSV_Errors(t *testing.T) {
	if _, err := DecodeCSV(strings.NewReader("")); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("DecodeCSV(empty) error = %v, want an empty file error", err)
	}
	if _, err := DecodeCSV(strings.NewReader("a,b\n\"unterminated,1\n")); err == nil {
		t.Error("DecodeCSV() with a broken quote must fail")
	}
	if _, err := DecodeCSV(strings.NewReader("a,b\n1,2,3\n")); err == nil {
		t.Error("DecodeCSV() with a long row must fail")
	}
}

func TestDecodeCSV_DuplicatedColumns(t *testing.T) {
	d, err := DecodeCSV(strings.NewReader("a,b,a,a.1,a\n1,2,3,4,5\n"))
	if err != nil {
		t.Fatalf("DecodeCSV() unexpected error: %v", err)
	}
	if want := []string{"a", "b", "a.2", "a.1", "a.3"}; !slices.Equal(d.Columns(), want) {
		t.Errorf("columns = %q, want %q", d.Columns(), want)
	}
	if got := d.Value(0, "a.2"); !got.Equal(N(3)) {
		t.Errorf("a.2 = %v, want 3", got)
	}
}

// TestEncodeCSV checks that a decoded file is encoded back identically.
func TestEncodeCSV(t *testing.T) {
	src := `Name,APIR Code,3 Years Annualised (%)
Alpha Fund,ABC0001AU,4.5
"Beta, the fund",DEF0002AU,
`
	d, err := DecodeCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeCSV() unexpected error: %v", err)
	}
	var sb strings.Builder
	if err := EncodeCSV(&sb, d); err != nil {
		t.Fatalf("EncodeCSV() unexpected error: %v", err)
	}
	if got := sb.String(); got != src {
		t.Errorf("EncodeCSV() = \n%s\nwant\n%s", got, src)
	}
}

func TestDecodeJSON(t *testing.T) {
	src := `{"source": "platform", "funds": [
	{"Name": "Alpha Fund", "APIR Code": "ABC0001AU", "3 Years Annualised (%)": 4.5, "Extra": true},
	{"Name": "Beta Fund", "APIR Code": "DEF0002AU", "3 Years Annualised (%)": null}
]}`
	d, err := DecodeJSON(strings.NewReader(src), "$.funds")
	if err != nil {
		t.Fatalf("DecodeJSON() unexpected error: %v", err)
	}
	if want := []string{ColName, ColAPIR, ColReturn, "Extra"}; !slices.Equal(d.Columns(), want) {
		t.Errorf("columns = %q, want %q", d.Columns(), want)
	}
	if got := d.Value(0, ColReturn); !got.Equal(N(4.5)) {
		t.Errorf("return = %v, want 4.5", got)
	}
	if got := d.Value(1, ColReturn); !got.IsMissing() {
		t.Errorf("return = %v, want missing", got)
	}
	if got := d.Value(1, "Extra"); !got.IsMissing() {
		t.Errorf("absent key = %v, want missing", got)
	}
	if got := d.Value(0, "Extra"); !got.Equal(T("true")) {
		t.Errorf("Extra = %v, want true", got)
	}

	if _, err := DecodeJSON(strings.NewReader(src), "$.source"); err == nil {
		t.Error("DecodeJSON() on a non array must fail")
	}
	if _, err := DecodeJSON(strings.NewReader(`[1, 2]`), "$"); err == nil {
		t.Error("DecodeJSON() on an array of numbers must fail")
	}
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": ColName, "B1": ColAPIR, "C1": ColReturn,
		"A2": "Alpha Fund", "B2": "ABC0001AU", "C2": 4.5,
		"A3": "Beta Fund", "B3": "DEF0002AU",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("SetCellValue(%s) unexpected error: %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() unexpected error: %v", err)
	}

	d, err := DecodeXLSX(buf)
	if err != nil {
		t.Fatalf("DecodeXLSX() unexpected error: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if got := d.Value(0, ColReturn); !got.Equal(N(4.5)) {
		t.Errorf("return = %v, want 4.5", got)
	}
	if got := d.Value(1, ColReturn); !got.IsMissing() {
		t.Errorf("return = %v, want missing", got)
	}
}
