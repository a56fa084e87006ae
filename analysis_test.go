package fundscreen

import (
	"slices"
	"testing"
)

func analysisSample() *Dataset {
	return MustDataset([]string{ColName, ColCategory, ColReturn, ColFee, ColBeta, ColSharpe, ColStdDev},
		[]Value{T("Alpha"), T("Global Bond"), N(4), N(0.5), N(1), N(0.5), N(10)},
		[]Value{T("Beta"), T("Global Bond"), N(6), N(0), N(0.8), N(0.7), N(12)},
		[]Value{T("Gamma"), T("Australian Cash"), N(2), N(0.2), NA(), N(1), N(1)},
		[]Value{T("Delta"), T("Global Bond"), NA(), N(1), N(1.2), N(0.9), N(14)},
	)
}

func TestCategoryAverages(t *testing.T) {
	avg, err := CategoryAverages(analysisSample(), ColReturn, ColBeta, "absent")
	if err != nil {
		t.Fatalf("CategoryAverages() unexpected error: %v", err)
	}
	if want := []string{ColCategory, ColReturn, ColBeta}; !slices.Equal(avg.Columns(), want) {
		t.Fatalf("columns = %v, want %v", avg.Columns(), want)
	}
	checks := []struct {
		row    int
		column string
		want   Value
	}{
		{0, ColCategory, T("Australian Cash")},
		{0, ColReturn, N(2)},
		{0, ColBeta, NA()},
		{1, ColCategory, T("Global Bond")},
		{1, ColReturn, N(5)},
		{1, ColBeta, N(1)},
	}
	for _, c := range checks {
		if got := avg.Value(c.row, c.column); !got.Equal(c.want) {
			t.Errorf("row %d %q = %v, want %v", c.row, c.column, got, c.want)
		}
	}

	if _, err := CategoryAverages(MustDataset([]string{ColName})); err == nil {
		t.Error("CategoryAverages() without category must fail")
	}
}

func TestWithPerformanceMetrics(t *testing.T) {
	d, err := WithPerformanceMetrics(analysisSample())
	if err != nil {
		t.Fatalf("WithPerformanceMetrics() unexpected error: %v", err)
	}
	checks := []struct {
		row    int
		column string
		want   Value
	}{
		{0, ColReturnRisk, N(0.4)},
		{0, ColReturnFee, N(8)},
		{1, ColReturnFee, NA()}, // zero fee
		{3, ColReturnRisk, NA()},
	}
	for _, c := range checks {
		if got := d.Value(c.row, c.column); !got.Equal(c.want) {
			t.Errorf("row %d %q = %v, want %v", c.row, c.column, got, c.want)
		}
	}
}

func TestWithCompositeScore(t *testing.T) {
	d, err := WithCompositeScore(analysisSample())
	if err != nil {
		t.Fatalf("WithCompositeScore() unexpected error: %v", err)
	}
	// Global Bond averages: beta 1, sharpe 0.7, stdev 12
	checks := []struct {
		row    int
		column string
		want   Value
	}{
		{0, ColBetaDiff, N(0)},
		{0, ColSharpeDiff, N(-0.2)},
		{0, ColStdDevDiff, N(-2)},
		{0, ColCompositeScore, N(-0.4)},
		{1, ColCompositeScore, N(0.2)},
		{2, ColCompositeScore, NA()},
	}
	for _, c := range checks {
		if got := d.Value(c.row, c.column); !got.Equal(c.want) {
			t.Errorf("row %d %q = %v, want %v", c.row, c.column, got, c.want)
		}
	}
}

func TestRank(t *testing.T) {
	d, err := Rank(analysisSample(), ColReturn, false)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}
	if want := []string{"Beta", "Alpha", "Gamma", "Delta"}; !slices.Equal(names(d), want) {
		t.Errorf("Rank() order = %v, want %v", names(d), want)
	}
	ranks, _ := d.Column(ColRank)
	want := []Value{N(1), N(2), N(3), NA()}
	for i := range want {
		if !ranks[i].Equal(want[i]) {
			t.Errorf("rank %d = %v, want %v", i, ranks[i], want[i])
		}
	}

	asc, err := Rank(analysisSample(), ColReturn, true)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}
	if want := []string{"Gamma", "Alpha", "Beta", "Delta"}; !slices.Equal(names(asc), want) {
		t.Errorf("Rank(ascending) order = %v, want %v", names(asc), want)
	}
	if _, err := Rank(analysisSample(), "absent", true); err == nil {
		t.Error("Rank() on an absent column must fail")
	}
}
