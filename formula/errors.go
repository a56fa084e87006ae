package formula

import (
	"errors"
	"fmt"
)

// Kind classifies why an expression was refused.
type Kind int

const (
	EmptyExpression Kind = iota + 1
	UnbalancedParentheses
	DisallowedToken
	InvalidSyntax
	UnknownAliasTarget
	UnknownColumn
	EvaluationTypeError
)

var kindNames = map[Kind]string{
	EmptyExpression:       "EmptyExpression",
	UnbalancedParentheses: "UnbalancedParentheses",
	DisallowedToken:       "DisallowedToken",
	InvalidSyntax:         "InvalidSyntax",
	UnknownAliasTarget:    "UnknownAliasTarget",
	UnknownColumn:         "UnknownColumn",
	EvaluationTypeError:   "EvaluationTypeError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors, one per Kind, to be used with errors.Is.
var (
	ErrEmptyExpression       = errors.New("empty expression")
	ErrUnbalancedParentheses = errors.New("unbalanced parentheses")
	ErrDisallowedToken       = errors.New("disallowed token")
	ErrInvalidSyntax         = errors.New("invalid syntax")
	ErrUnknownAliasTarget    = errors.New("unknown alias target")
	ErrUnknownColumn         = errors.New("unknown column")
	ErrEvaluationType        = errors.New("evaluation type error")
)

var sentinels = map[Kind]error{
	EmptyExpression:       ErrEmptyExpression,
	UnbalancedParentheses: ErrUnbalancedParentheses,
	DisallowedToken:       ErrDisallowedToken,
	InvalidSyntax:         ErrInvalidSyntax,
	UnknownAliasTarget:    ErrUnknownAliasTarget,
	UnknownColumn:         ErrUnknownColumn,
	EvaluationTypeError:   ErrEvaluationType,
}

// Error is a rejected expression. Token names the offending token, alias or
// column, Pos is its byte offset in Expr (-1 when irrelevant). Expr is the
// text that was checked: the formula as typed for alias errors, the resolved
// formula otherwise.
type Error struct {
	Kind  Kind
	Token string
	Pos   int
	Msg   string
	Expr  string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos+1, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the sentinel error of the Kind.
func (e *Error) Unwrap() error { return sentinels[e.Kind] }

// errorf builds an *Error.
func errorf(kind Kind, token string, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Token: token, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// within sets the expression of err when it is an *Error.
func within(expr string, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Expr == "" {
		e.Expr = expr
	}
	return err
}

// KindOf returns the Kind of err, 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
