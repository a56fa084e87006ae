package fundscreen

import (
	"slices"
	"testing"
)

func TestExtractAPIRCodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain codes",
			text: "Available: BTA0054AU, MAQ0404AU and ETL0015AU.",
			want: []string{"BTA0054AU", "ETL0015AU", "MAQ0404AU"},
		},
		{
			name: "duplicates",
			text: "BTA0054AU BTA0054AU",
			want: []string{"BTA0054AU"},
		},
		{
			name: "split codes",
			text: "Fund list: PER 0260AU and HOW-0034AU",
			want: []string{"HOW0034AU", "PER0260AU"},
		},
		{
			name: "acronyms are ignored",
			text: "FUND NAME ASX AUSTRALIA",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAPIRCodes(tt.text)
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("ExtractAPIRCodes() = %v, missing %q", got, w)
				}
			}
			for _, g := range got {
				if isAlpha(g) || len(g) < 5 {
					t.Errorf("ExtractAPIRCodes() returned %q", g)
				}
			}
			if !slices.IsSorted(got) {
				t.Errorf("ExtractAPIRCodes() = %v, not sorted", got)
			}
		})
	}
}

func TestFilterByAPIR(t *testing.T) {
	d := MustDataset([]string{ColName, ColAPIR},
		[]Value{T("Alpha"), T("BTA0054AU")},
		[]Value{T("Beta"), T("MAQ0404AU")},
		[]Value{T("Gamma"), NA()},
		[]Value{T("Delta"), T(" etl0015au ")},
	)
	got := FilterByAPIR(d, []string{"ETL0015AU", "BTA0054AU"})
	if want := []string{"Alpha", "Delta"}; !slices.Equal(names(got), want) {
		t.Errorf("FilterByAPIR() = %v, want %v", names(got), want)
	}
	if got := FilterByAPIR(d, nil); got.Len() != d.Len() {
		t.Errorf("FilterByAPIR(nil) kept %d rows, want %d", got.Len(), d.Len())
	}
}
