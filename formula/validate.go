package formula

import (
	"slices"
	"strings"
)

// Expression is a validated formula. It can only be built by Validate, so
// the evaluator never sees unchecked input.
type Expression struct {
	source  string
	root    node
	columns []string
}

// Source returns the formula as validated, aliases already resolved.
func (x *Expression) Source() string { return x.source }

// String returns the formula in its canonical form.
func (x *Expression) String() string { return x.root.String() }

// Columns returns the sorted dataset columns the formula reads.
func (x *Expression) Columns() []string { return slices.Clone(x.columns) }

// Validate checks a formula whose aliases have been resolved, against the
// allow-listed grammar and the dataset columns. Checks run in order and the
// first failure is returned: EmptyExpression, DisallowedToken,
// UnbalancedParentheses, InvalidSyntax then UnknownColumn.
func Validate(expr string, columns []string) (*Expression, error) {
	x, err := validate(expr, columns)
	if err != nil {
		return nil, within(expr, err)
	}
	return x, nil
}

func validate(expr string, columns []string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errorf(EmptyExpression, "", -1, "the formula is empty")
	}
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if err := checkParentheses(tokens); err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	has := make(map[string]bool, len(columns))
	for _, c := range columns {
		has[c] = true
	}
	var referenced []string
	for _, t := range tokens {
		if t.typ != tokColumn && t.typ != tokIdent {
			continue
		}
		if !slices.Contains(p.columns, t.text) {
			continue
		}
		if !has[t.text] {
			return nil, errorf(UnknownColumn, t.text, t.pos, "column %q is not in the data", t.text)
		}
		if !slices.Contains(referenced, t.text) {
			referenced = append(referenced, t.text)
		}
	}
	slices.Sort(referenced)
	return &Expression{source: expr, root: root, columns: referenced}, nil
}

// Compile resolves the aliases of expr and validates the result.
func Compile(expr string, aliases Aliases, columns []string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errorf(EmptyExpression, "", -1, "the formula is empty")
	}
	resolved, _, err := Resolve(expr, aliases, columns)
	if err != nil {
		return nil, err
	}
	return Validate(resolved, columns)
}
