package formula

import (
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/shopspring/decimal"
)

type valueKind int

const (
	kindMissing valueKind = iota
	kindNumber
	kindText
	kindBool
)

// reason tells why a value is missing.
type reason int

const (
	missingOperand reason = iota + 1
	typeMismatch
	divisionByZero
)

// value is the result of evaluating a node on a row.
type value struct {
	kind valueKind
	num  decimal.Decimal
	text string
	b    bool
	why  reason
}

func number(d decimal.Decimal) value { return value{kind: kindNumber, num: d} }
func text(s string) value            { return value{kind: kindText, text: s} }
func boolean(b bool) value           { return value{kind: kindBool, b: b} }
func missing(why reason) value       { return value{kind: kindMissing, why: why} }

func (v value) isMissing() bool { return v.kind == kindMissing }

// toNumber coerces text holding a number. Any other non number is a type
// mismatch.
func (v value) toNumber() value {
	switch v.kind {
	case kindNumber, kindMissing:
		return v
	case kindText:
		if d, ok := fundscreen.ParseNumber(v.text); ok {
			return number(d)
		}
	}
	return missing(typeMismatch)
}

// firstMissing returns the leftmost missing value.
func firstMissing(values ...value) (value, bool) {
	for _, v := range values {
		if v.isMissing() {
			return v, true
		}
	}
	return value{}, false
}

// compare applies a comparison operator to two present values. Numbers
// compare numerically, texts lexicographically, a text against a number is
// coerced and booleans only support equality.
func compare(op string, l, r value) value {
	var c int
	switch {
	case l.kind == kindBool || r.kind == kindBool:
		if l.kind != r.kind || (op != "==" && op != "!=") {
			return missing(typeMismatch)
		}
		if l.b != r.b {
			c = 1
		}
	case l.kind == kindText && r.kind == kindText:
		c = strings.Compare(l.text, r.text)
	default:
		l, r = l.toNumber(), r.toNumber()
		if m, ok := firstMissing(l, r); ok {
			return m
		}
		c = l.num.Cmp(r.num)
	}
	switch op {
	case "<":
		return boolean(c < 0)
	case "<=":
		return boolean(c <= 0)
	case ">":
		return boolean(c > 0)
	case ">=":
		return boolean(c >= 0)
	case "==":
		return boolean(c == 0)
	default: // !=
		return boolean(c != 0)
	}
}
