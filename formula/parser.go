package formula

import (
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/shopspring/decimal"
)

var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true}

// parser is a recursive descent parser over the allow-listed grammar:
//
//	or         := and { "or" and }
//	and        := not { "and" not }
//	not        := "not" not | comparison
//	comparison := sum { cmpop sum }
//	sum        := term { ("+" | "-") term }
//	term       := unary { ("*" | "/") unary }
//	unary      := ("-" | "+") unary | primary
//	primary    := number | string | true | false | column | function "(" args ")" | "(" or ")"
//
// Static types are checked while building the tree.
type parser struct {
	tokens  []token
	i       int
	columns []string // referenced columns, in order of appearance
}

func (p *parser) peek() token { return p.tokens[p.i] }

func (p *parser) advance() token {
	t := p.tokens[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

// isKeyword reports whether the current token is the keyword kw.
func (p *parser) isKeyword(kw string) bool {
	t := p.peek()
	return t.typ == tokIdent && strings.EqualFold(t.text, kw)
}

func (p *parser) isOperator(ops ...string) bool {
	t := p.peek()
	if t.typ != tokOperator {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) atComparison() bool {
	t := p.peek()
	return t.typ == tokOperator && comparisonOps[t.text]
}

// unexpected reports the current token as a syntax error.
func (p *parser) unexpected() error {
	t := p.peek()
	switch t.typ {
	case tokEOF:
		return errorf(InvalidSyntax, "", t.pos, "unexpected end of formula")
	case tokString:
		return errorf(InvalidSyntax, t.text, t.pos, "unexpected text %q", t.text)
	case tokColumn:
		return errorf(InvalidSyntax, t.text, t.pos, "unexpected column `%s`", t.text)
	}
	return errorf(InvalidSyntax, t.text, t.pos, "unexpected %q", t.text)
}

// parse builds the tree of a whole formula, whose value must be a boolean.
func (p *parser) parse() (node, error) {
	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		return nil, p.unexpected()
	}
	if x.typ() != typeBool {
		return nil, errorf(InvalidSyntax, "", 0, "the formula must be a condition (a comparison or a logical combination), %q is a %s", x.String(), x.typ())
	}
	return x, nil
}

// wantBool checks an operand of a logical operator.
func wantBool(op string, pos int, x node) error {
	if x.typ() != typeBool {
		return errorf(InvalidSyntax, op, pos, "operand of %q must be a condition, %q is a %s", op, x.String(), x.typ())
	}
	return nil
}

// wantValue checks an operand of arithmetic or a function.
func wantValue(op string, pos int, x node) error {
	if x.typ() == typeBool {
		return errorf(InvalidSyntax, op, pos, "operand of %q cannot be a condition: %q", op, x.String())
	}
	return nil
}

func (p *parser) parseOr() (node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		t := p.advance()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		if err := wantBool("or", t.pos, l); err != nil {
			return nil, err
		}
		if err := wantBool("or", t.pos, r); err != nil {
			return nil, err
		}
		l = &logical{op: "or", l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseAnd() (node, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		t := p.advance()
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		if err := wantBool("and", t.pos, l); err != nil {
			return nil, err
		}
		if err := wantBool("and", t.pos, r); err != nil {
			return nil, err
		}
		l = &logical{op: "and", l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseNot() (node, error) {
	if !p.isKeyword("not") {
		return p.parseComparison()
	}
	t := p.advance()
	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if err := wantBool("not", t.pos, x); err != nil {
		return nil, err
	}
	return &not{x: x}, nil
}

func (p *parser) parseComparison() (node, error) {
	first, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if !p.atComparison() {
		return first, nil
	}
	cmp := &comparison{operands: []node{first}}
	for p.atComparison() {
		t := p.advance()
		x, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		l := cmp.operands[len(cmp.operands)-1]
		if err := checkComparison(t, l, x); err != nil {
			return nil, err
		}
		cmp.ops = append(cmp.ops, t.text)
		cmp.operands = append(cmp.operands, x)
	}
	return cmp, nil
}

// checkComparison rejects comparisons that can never hold: conditions are only
// compared for equality, with other conditions.
func checkComparison(t token, l, r node) error {
	lb, rb := l.typ() == typeBool, r.typ() == typeBool
	if !lb && !rb {
		return nil
	}
	if lb != rb {
		return errorf(InvalidSyntax, t.text, t.pos, "cannot compare a condition with a value in %q", l.String()+" "+t.text+" "+r.String())
	}
	if t.text != "==" && t.text != "!=" {
		return errorf(InvalidSyntax, t.text, t.pos, "conditions can only be compared with == or !=")
	}
	return nil
}

func (p *parser) parseSum() (node, error) {
	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOperator("+", "-") {
		t := p.advance()
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := wantValue(t.text, t.pos, l); err != nil {
			return nil, err
		}
		if err := wantValue(t.text, t.pos, r); err != nil {
			return nil, err
		}
		l = &arithmetic{op: t.text, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseTerm() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOperator("*", "/") {
		t := p.advance()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if err := wantValue(t.text, t.pos, l); err != nil {
			return nil, err
		}
		if err := wantValue(t.text, t.pos, r); err != nil {
			return nil, err
		}
		l = &arithmetic{op: t.text, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseUnary() (node, error) {
	if !p.isOperator("+", "-") {
		return p.parsePrimary()
	}
	t := p.advance()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if err := wantValue(t.text, t.pos, x); err != nil {
		return nil, err
	}
	return &negate{op: t.text, x: x}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.typ {
	case tokNumber:
		p.advance()
		lit := t.text
		if strings.HasPrefix(lit, ".") {
			lit = "0" + lit
		}
		d, err := decimal.NewFromString(lit)
		if err != nil {
			return nil, errorf(InvalidSyntax, t.text, t.pos, "invalid number %q", t.text)
		}
		if !fundscreen.InRange(d) {
			return nil, errorf(InvalidSyntax, t.text, t.pos, "number %q out of range, at most %d digits or exponent", t.text, fundscreen.MaxExponent)
		}
		return &numberLit{num: d, text: t.text}, nil
	case tokString:
		p.advance()
		return &stringLit{s: t.text}, nil
	case tokColumn:
		p.advance()
		p.columns = append(p.columns, t.text)
		return &columnRef{name: t.text}, nil
	case tokLParen:
		p.advance()
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().typ != tokRParen {
			return nil, p.unexpected()
		}
		p.advance()
		return &group{x: x}, nil
	case tokIdent:
		lower := strings.ToLower(t.text)
		switch {
		case lower == "true" || lower == "false":
			p.advance()
			return &boolLit{b: lower == "true"}, nil
		case keywords[lower]:
			return nil, p.unexpected()
		case functions[lower] && p.tokens[p.i+1].typ == tokLParen:
			return p.parseCall()
		}
		p.advance()
		p.columns = append(p.columns, t.text)
		return &columnRef{name: t.text}, nil
	}
	return nil, p.unexpected()
}

// arity is the accepted number of arguments per function, max -1 for
// variadic ones.
var arity = map[string][2]int{
	"abs":   {1, 1},
	"round": {1, 2},
	"min":   {1, -1},
	"max":   {1, -1},
}

func (p *parser) parseCall() (node, error) {
	t := p.advance()
	name := strings.ToLower(t.text)
	p.advance() // (
	c := &call{name: name}
	if p.peek().typ != tokRParen {
		for {
			x, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if err := wantValue(name, t.pos, x); err != nil {
				return nil, err
			}
			c.args = append(c.args, x)
			if p.peek().typ != tokComma {
				break
			}
			p.advance()
		}
	}
	if p.peek().typ != tokRParen {
		return nil, p.unexpected()
	}
	p.advance()

	a := arity[name]
	if len(c.args) < a[0] || (a[1] >= 0 && len(c.args) > a[1]) {
		want := "at least 1 argument"
		switch {
		case a[0] == a[1]:
			want = "exactly 1 argument"
		case a[1] > 0:
			want = "1 or 2 arguments"
		}
		return nil, errorf(InvalidSyntax, t.text, t.pos, "%s() takes %s, got %d", name, want, len(c.args))
	}
	return c, nil
}

// checkParentheses reports the first unbalanced parenthesis.
func checkParentheses(tokens []token) error {
	var open []int
	for _, t := range tokens {
		switch t.typ {
		case tokLParen:
			open = append(open, t.pos)
		case tokRParen:
			if len(open) == 0 {
				return errorf(UnbalancedParentheses, ")", t.pos, "closing parenthesis without a matching opening one")
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return errorf(UnbalancedParentheses, "(", open[len(open)-1], "parenthesis is never closed")
	}
	return nil
}
