package formula

import (
	"fmt"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/shopspring/decimal"
)

// exprType is the static type of a node. Columns are typeAny: their cells
// are numbers or text, only known per row.
type exprType int

const (
	typeAny exprType = iota
	typeNumber
	typeText
	typeBool
)

func (t exprType) String() string {
	switch t {
	case typeNumber:
		return "number"
	case typeText:
		return "text"
	case typeBool:
		return "boolean"
	default:
		return "column value"
	}
}

// env returns the cell of a column for the row being evaluated.
type env func(column string) fundscreen.Value

// node is an expression tree node.
type node interface {
	typ() exprType
	eval(env) value
	String() string
}

type numberLit struct {
	num  decimal.Decimal
	text string
}

func (n *numberLit) typ() exprType  { return typeNumber }
func (n *numberLit) eval(env) value { return number(n.num) }
func (n *numberLit) String() string { return n.text }

type stringLit struct{ s string }

func (n *stringLit) typ() exprType  { return typeText }
func (n *stringLit) eval(env) value { return text(n.s) }
func (n *stringLit) String() string { return fmt.Sprintf("%q", n.s) }

type boolLit struct{ b bool }

func (n *boolLit) typ() exprType  { return typeBool }
func (n *boolLit) eval(env) value { return boolean(n.b) }
func (n *boolLit) String() string { return fmt.Sprint(n.b) }

type columnRef struct{ name string }

func (n *columnRef) typ() exprType { return typeAny }
func (n *columnRef) eval(e env) value {
	v := e(n.name)
	switch v.Kind() {
	case fundscreen.Number:
		return number(v.Decimal())
	case fundscreen.Text:
		return text(v.Text())
	}
	return missing(missingOperand)
}
func (n *columnRef) String() string { return "`" + n.name + "`" }

// group is a parenthesised expression, kept to print the formula back.
type group struct{ x node }

func (n *group) typ() exprType    { return n.x.typ() }
func (n *group) eval(e env) value { return n.x.eval(e) }
func (n *group) String() string   { return "(" + n.x.String() + ")" }

type negate struct {
	op string
	x  node
}

func (n *negate) typ() exprType { return typeNumber }
func (n *negate) eval(e env) value {
	x := n.x.eval(e).toNumber()
	if x.isMissing() || n.op == "+" {
		return x
	}
	return number(x.num.Neg())
}
func (n *negate) String() string { return n.op + n.x.String() }

// arithmetic is one of + - * /.
type arithmetic struct {
	op   string
	l, r node
}

func (n *arithmetic) typ() exprType { return typeNumber }
func (n *arithmetic) eval(e env) value {
	l := n.l.eval(e).toNumber()
	r := n.r.eval(e).toNumber()
	if m, ok := firstMissing(l, r); ok {
		return m
	}
	switch n.op {
	case "+":
		return number(l.num.Add(r.num))
	case "-":
		return number(l.num.Sub(r.num))
	case "*":
		return number(l.num.Mul(r.num))
	default:
		if r.num.IsZero() {
			return missing(divisionByZero)
		}
		return number(l.num.Div(r.num))
	}
}
func (n *arithmetic) String() string { return n.l.String() + " " + n.op + " " + n.r.String() }

// comparison holds a chain of comparisons: a < b <= c is a < b and b <= c.
type comparison struct {
	ops      []string
	operands []node
}

func (n *comparison) typ() exprType { return typeBool }
func (n *comparison) eval(e env) value {
	values := make([]value, len(n.operands))
	for i, x := range n.operands {
		values[i] = x.eval(e)
	}
	if m, ok := firstMissing(values...); ok {
		return m
	}
	res := true
	for i, op := range n.ops {
		v := compare(op, values[i], values[i+1])
		if v.isMissing() {
			return v
		}
		res = res && v.b
	}
	return boolean(res)
}
func (n *comparison) String() string {
	var b strings.Builder
	b.WriteString(n.operands[0].String())
	for i, op := range n.ops {
		fmt.Fprintf(&b, " %s %s", op, n.operands[i+1].String())
	}
	return b.String()
}

// logical is "and" or "or". Both sides are always evaluated: a missing side
// makes the row missing whatever the other side is.
type logical struct {
	op   string
	l, r node
}

func (n *logical) typ() exprType { return typeBool }
func (n *logical) eval(e env) value {
	l := n.l.eval(e)
	r := n.r.eval(e)
	if m, ok := firstMissing(l, r); ok {
		return m
	}
	if l.kind != kindBool || r.kind != kindBool {
		return missing(typeMismatch)
	}
	if n.op == "and" {
		return boolean(l.b && r.b)
	}
	return boolean(l.b || r.b)
}
func (n *logical) String() string { return n.l.String() + " " + n.op + " " + n.r.String() }

type not struct{ x node }

func (n *not) typ() exprType { return typeBool }
func (n *not) eval(e env) value {
	x := n.x.eval(e)
	if x.isMissing() {
		return x
	}
	if x.kind != kindBool {
		return missing(typeMismatch)
	}
	return boolean(!x.b)
}
func (n *not) String() string { return "not " + n.x.String() }

// maxPlaces bounds the places of round.
var maxPlaces = decimal.NewFromInt(28)

// call is an allow-listed function call.
type call struct {
	name string
	args []node
}

func (n *call) typ() exprType { return typeNumber }
func (n *call) eval(e env) value {
	args := make([]value, len(n.args))
	for i, a := range n.args {
		args[i] = a.eval(e).toNumber()
	}
	if m, ok := firstMissing(args...); ok {
		return m
	}
	switch n.name {
	case "abs":
		return number(args[0].num.Abs())
	case "round":
		places := decimal.Zero
		if len(args) == 2 {
			places = args[1].num
		}
		if !places.Equal(places.Truncate(0)) || places.Abs().GreaterThan(maxPlaces) {
			return missing(typeMismatch)
		}
		return number(args[0].num.Round(int32(places.IntPart())))
	case "min":
		res := args[0].num
		for _, a := range args[1:] {
			res = decimal.Min(res, a.num)
		}
		return number(res)
	default: // max
		res := args[0].num
		for _, a := range args[1:] {
			res = decimal.Max(res, a.num)
		}
		return number(res)
	}
}
func (n *call) String() string {
	args := make([]string, len(n.args))
	for i, a := range n.args {
		args[i] = a.String()
	}
	return n.name + "(" + strings.Join(args, ", ") + ")"
}
