package formula

import (
	"testing"

	fs "github.com/etnz/fundscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evaluate validates expr against d and evaluates it.
func evaluate(t *testing.T, expr string, d *fs.Dataset) *Result {
	t.Helper()
	x, err := Validate(expr, d.Columns())
	require.NoError(t, err)
	res, err := Evaluate(x, d)
	require.NoError(t, err)
	return res
}

func TestEvaluate_MissingReturn(t *testing.T) {
	d := fs.MustDataset([]string{fs.ColReturn},
		[]fs.Value{fs.N(4)},
		[]fs.Value{fs.N(6)},
		[]fs.Value{fs.NA()},
	)
	x, err := Compile("return > 5", DefaultAliases(), d.Columns())
	require.NoError(t, err)
	res, err := Evaluate(x, d)
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true, false}, res.Pass)
	assert.Equal(t, []bool{false, false, true}, res.Missing)
	assert.Equal(t, 1, res.MissingCount)
	assert.Equal(t, 1, res.MissingOperands)
	assert.Equal(t, 1, res.PassCount())

	filtered, s, err := Apply(d, res)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Kept: 1, ExcludedByFormula: 1, ExcludedMissing: 1}, s)
	assert.Equal(t, 1, filtered.Len())
	assert.True(t, filtered.At(0, 0).Equal(fs.N(6)))
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	d := fs.MustDataset([]string{"fee", "zero"},
		[]fs.Value{fs.N(1), fs.N(0)},
		[]fs.Value{fs.N(1), fs.N(2)},
		[]fs.Value{fs.N(5), fs.N(2)},
	)
	res := evaluate(t, "fee / zero > 1", d)
	assert.Equal(t, []bool{false, false, true}, res.Pass)
	assert.Equal(t, []bool{true, false, false}, res.Missing)
	assert.Equal(t, 1, res.DivisionsByZero)

	_, s, err := Apply(d, res)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Kept: 1, ExcludedByFormula: 1, ExcludedMissing: 1}, s)
}

func TestEvaluate_Rows(t *testing.T) {
	d := fs.MustDataset([]string{"a", "b", "Name"},
		[]fs.Value{fs.N(-2), fs.N(3), fs.T("Alpha")},
		[]fs.Value{fs.N(1.24), fs.NA(), fs.T("Beta")},
		[]fs.Value{fs.T("5"), fs.N(1), fs.T("Gamma")},
		[]fs.Value{fs.T("abc"), fs.N(1), fs.NA()},
	)
	tests := []struct {
		expr    string
		pass    []bool
		missing []bool
	}{
		{"a > 0", []bool{false, true, true, false}, []bool{false, false, false, true}},
		{"abs(a) == 2", []bool{true, false, false, false}, []bool{false, false, false, true}},
		{"round(a, 1) == 1.2", []bool{false, true, false, false}, []bool{false, false, false, true}},
		{"max(a, 0) >= 0", []bool{true, true, true, false}, []bool{false, false, false, true}},
		{"min(a, b) < 0", []bool{true, false, false, false}, []bool{false, true, false, true}},
		{"Name == 'Beta'", []bool{false, true, false, false}, []bool{false, false, false, true}},
		{"Name < 'B'", []bool{true, false, false, false}, []bool{false, false, false, true}},
		// missing absorbs, even when the other side of "or" is true
		{"a > -10 or b > 0", []bool{true, false, true, false}, []bool{false, true, false, true}},
		{"not (b > 2)", []bool{false, false, true, true}, []bool{false, true, false, false}},
		{"-3 < a < 2", []bool{true, true, false, false}, []bool{false, false, false, true}},
		{"(a > 0) == (b > 0)", []bool{false, false, true, false}, []bool{false, true, false, true}},
		{"round(a, 0.5) > 0", []bool{false, false, false, false}, []bool{true, true, true, true}},
		{"round(a, 28) > 0", []bool{false, true, true, false}, []bool{false, false, false, true}},
		{"round(a, 29) > 0", []bool{false, false, false, false}, []bool{true, true, true, true}},
		{"round(a, 50000000) > 1", []bool{false, false, false, false}, []bool{true, true, true, true}},
		{"round(a, 4294967298) > 1", []bool{false, false, false, false}, []bool{true, true, true, true}},
		{"true", []bool{true, true, true, true}, []bool{false, false, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res := evaluate(t, tt.expr, d)
			assert.Equal(t, tt.pass, res.Pass, "pass")
			assert.Equal(t, tt.missing, res.Missing, "missing")
		})
	}
}

func TestEvaluate_MissingReasons(t *testing.T) {
	d := fs.MustDataset([]string{"a", "b"},
		[]fs.Value{fs.NA(), fs.N(1)},
		[]fs.Value{fs.T("text"), fs.N(1)},
		[]fs.Value{fs.N(1), fs.N(0)},
		[]fs.Value{fs.N(1), fs.N(1)},
	)
	res := evaluate(t, "a / b > 0", d)
	assert.Equal(t, 3, res.MissingCount)
	assert.Equal(t, 1, res.MissingOperands)
	assert.Equal(t, 1, res.TypeMismatches)
	assert.Equal(t, 1, res.DivisionsByZero)
	assert.Equal(t, []bool{false, false, false, true}, res.Pass)
}

func TestEvaluate_UnknownColumn(t *testing.T) {
	x, err := Validate("a > 1", []string{"a"})
	require.NoError(t, err)

	other := fs.MustDataset([]string{"b"}, []fs.Value{fs.N(1)})
	_, err = Evaluate(x, other)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestEvaluate_Idempotent(t *testing.T) {
	d := fs.MustDataset([]string{"a", "b"},
		[]fs.Value{fs.N(1), fs.N(2)},
		[]fs.Value{fs.NA(), fs.N(2)},
		[]fs.Value{fs.N(3), fs.N(0)},
	)
	first := evaluate(t, "a / b >= 0.5 or a > 2", d)
	second := evaluate(t, "a / b >= 0.5 or a > 2", d)
	assert.Equal(t, first, second)
}

func TestApply_Mismatch(t *testing.T) {
	d := fs.MustDataset([]string{"a"}, []fs.Value{fs.N(1)})
	_, _, err := Apply(d, &Result{Pass: []bool{true, false}, Missing: []bool{false, false}})
	assert.Error(t, err)
}

func TestEvaluate_HugeNumbers(t *testing.T) {
	d := fs.MustDataset([]string{"a"},
		[]fs.Value{fs.ParseValue("1e9999999")},
		[]fs.Value{fs.N(2)},
	)
	assert.True(t, d.At(0, 0).IsText())

	res := evaluate(t, "a + 0 > 1", d)
	assert.Equal(t, []bool{false, true}, res.Pass)
	assert.Equal(t, []bool{true, false}, res.Missing)
	assert.Equal(t, 1, res.TypeMismatches)
}
