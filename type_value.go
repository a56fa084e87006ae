package fundscreen

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tells which of the three cell variants a Value holds.
type Kind int

const (
	Missing Kind = iota // no data for this cell
	Number              // a decimal number
	Text                // free text
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single dataset cell. The zero value is Missing.
type Value struct {
	kind Kind
	num  decimal.Decimal
	text string
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// N returns a Number value.
func N[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Value {
	return Value{kind: Number, num: newDecimal(value)}
}

// T returns a Text value.
func T(s string) Value { return Value{kind: Text, text: s} }

// NA returns a Missing value.
func NA() Value { return Value{} }

func (v Value) Kind() Kind               { return v.kind }
func (v Value) IsMissing() bool          { return v.kind == Missing }
func (v Value) IsNumber() bool           { return v.kind == Number }
func (v Value) IsText() bool             { return v.kind == Text }
func (v Value) Decimal() decimal.Decimal { return v.num }

// Number returns the numeric content of v. Text values holding a number are
// coerced; ok is false for Missing and non-numeric Text.
func (v Value) Number() (d decimal.Decimal, ok bool) {
	switch v.kind {
	case Number:
		return v.num, true
	case Text:
		return ParseNumber(v.text)
	}
	return decimal.Zero, false
}

// Text returns the text content of v, the canonical representation of a
// number, or "" when missing.
func (v Value) Text() string {
	switch v.kind {
	case Number:
		return v.num.String()
	case Text:
		return v.text
	}
	return ""
}

// String returns a display form of the value, "N/A" when missing.
func (v Value) String() string {
	if v.kind == Missing {
		return "N/A"
	}
	return v.Text()
}

// Equal reports whether v and w hold the same kind and content.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case Number:
		return v.num.Equal(w.num)
	case Text:
		return v.text == w.text
	}
	return true
}

// missingMarkers are the cell contents, once lower cased, that denote an
// absent value in fund exports.
var missingMarkers = map[string]bool{
	"":     true,
	"-":    true,
	"--":   true,
	"n/a":  true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
}

// thousands matches numbers written with comma thousands separators.
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// MaxExponent bounds the exponent and the digits of parsed numbers. Larger
// ones would turn every comparison into huge integer arithmetic.
const MaxExponent = 100

// InRange reports whether d is within MaxExponent.
func InRange(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= -MaxExponent && e <= MaxExponent && d.NumDigits() <= MaxExponent
}

// ParseNumber parses a number as found in fund exports: plain decimals,
// exponents, comma thousands separators and an optional trailing percent sign.
// Numbers out of range are not numbers.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return decimal.Zero, false
	}
	if thousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.TrimPrefix(s, "+")
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseValue converts a raw cell into a Value: missing markers become Missing,
// numbers become Number and everything else is kept as Text.
func ParseValue(cell string) Value {
	trimmed := strings.TrimSpace(cell)
	if missingMarkers[strings.ToLower(trimmed)] {
		return NA()
	}
	if d, ok := ParseNumber(trimmed); ok {
		return N(d)
	}
	return T(trimmed)
}
