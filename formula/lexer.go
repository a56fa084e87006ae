package formula

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenType classifies a token of a formula.
type tokenType int

const (
	tokEOF      tokenType = iota
	tokNumber             // 5, 0.5, .5, 1e3
	tokString             // 'text' or "text"
	tokIdent              // identifiers, keywords and function names
	tokColumn             // `column name`
	tokOperator           // < <= > >= == != + - * /
	tokLParen             // (
	tokRParen             // )
	tokComma              // ,
)

// token is a lexical unit. For strings and columns, text is the unquoted
// content.
type token struct {
	typ  tokenType
	text string
	pos  int
}

// functions is the allow-list of callable names.
var functions = map[string]bool{
	"abs":   true,
	"min":   true,
	"max":   true,
	"round": true,
}

// keywords are matched case-insensitively.
var keywords = map[string]bool{
	"and":   true,
	"or":    true,
	"not":   true,
	"true":  true,
	"false": true,
}

// reserved words never make a valid formula: they are statements or
// builtins of scripting languages.
var reserved = map[string]bool{
	"import": true, "from": true, "lambda": true, "def": true, "class": true,
	"for": true, "while": true, "if": true, "else": true, "elif": true,
	"in": true, "is": true, "exec": true, "eval": true, "open": true,
	"del": true, "global": true, "nonlocal": true, "with": true, "yield": true,
	"async": true, "await": true, "assert": true, "raise": true, "try": true,
	"except": true, "finally": true, "pass": true, "print": true, "compile": true,
	"getattr": true, "setattr": true, "globals": true, "locals": true, "vars": true,
	"input": true, "system": true,
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(b byte) bool      { return '0' <= b && b <= '9' }

// isDunder reports names like __class__ or __import__.
func isDunder(s string) bool {
	return len(s) > 4 && strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__")
}

// lexer turns a formula into tokens. Anything outside the token classes is
// rejected: the lexer is the allow-list.
type lexer struct {
	input  string
	pos    int
	tokens []token
}

// tokenize returns the tokens of input, ending with a tokEOF, or a
// DisallowedToken error.
func tokenize(input string) ([]token, error) {
	l := &lexer{input: input}
	for {
		l.skipSpaces()
		if l.pos >= len(l.input) {
			break
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, token{typ: tokEOF, pos: len(input)})
	return l.tokens, nil
}

func (l *lexer) skipSpaces() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) emit(typ tokenType, text string, pos int) {
	l.tokens = append(l.tokens, token{typ: typ, text: text, pos: pos})
}

// peekByte returns the byte at offset from the current position, 0 past the end.
func (l *lexer) peekByte(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

func (l *lexer) next() error {
	start := l.pos
	c := l.input[l.pos]
	switch {
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		return l.number()
	case c == '\'' || c == '"':
		return l.quoted(tokString, c)
	case c == '`':
		return l.quoted(tokColumn, c)
	case c == '(':
		l.pos++
		l.emit(tokLParen, "(", start)
		return nil
	case c == ')':
		l.pos++
		l.emit(tokRParen, ")", start)
		return nil
	case c == ',':
		l.pos++
		l.emit(tokComma, ",", start)
		return nil
	case c == '<' || c == '>':
		if l.peekByte(1) == '=' {
			l.pos += 2
		} else {
			l.pos++
		}
		l.emit(tokOperator, l.input[start:l.pos], start)
		return nil
	case c == '=' || c == '!':
		if l.peekByte(1) != '=' {
			if c == '=' {
				return errorf(DisallowedToken, "=", start, "assignment is not allowed, use == to compare")
			}
			return errorf(DisallowedToken, "!", start, "%q is not allowed, use not", "!")
		}
		l.pos += 2
		l.emit(tokOperator, l.input[start:l.pos], start)
		return nil
	case c == '+' || c == '-' || c == '*' || c == '/':
		next := l.peekByte(1)
		switch {
		case next == '=':
			return errorf(DisallowedToken, l.input[start:start+2], start, "assignment is not allowed")
		case c == '*' && next == '*':
			return errorf(DisallowedToken, "**", start, "power operator is not allowed")
		case c == '/' && next == '/':
			return errorf(DisallowedToken, "//", start, "floor division is not allowed")
		}
		l.pos++
		l.emit(tokOperator, string(c), start)
		return nil
	case c == ':' && l.peekByte(1) == '=':
		return errorf(DisallowedToken, ":=", start, "assignment is not allowed")
	case c == '.':
		return errorf(DisallowedToken, ".", start, "member access is not allowed")
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if isIdentStart(r) {
		return l.identifier()
	}
	return errorf(DisallowedToken, l.input[start:start+size], start, "character %q is not allowed", r)
}

func (l *lexer) number() error {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	if e := l.peekByte(0); e == 'e' || e == 'E' {
		off := 1
		if s := l.peekByte(1); s == '+' || s == '-' {
			off = 2
		}
		if isDigit(l.peekByte(off)) {
			l.pos += off
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.pos++
			}
		}
	}
	// a number glued to a name or a dot is not a number: 5abc, 1.2.3, 1.e5
	if l.pos < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		if isIdentPart(r) || r == '.' {
			end := l.pos + 1
			for end < len(l.input) {
				r, size := utf8.DecodeRuneInString(l.input[end:])
				if !isIdentPart(r) && r != '.' {
					break
				}
				end += size
			}
			return errorf(DisallowedToken, l.input[start:end], start, "%q is not a number", l.input[start:end])
		}
	}
	l.emit(tokNumber, l.input[start:l.pos], start)
	return nil
}

// quoted reads a string or a backtick column. There are no escapes, the
// content runs up to the next quote character.
func (l *lexer) quoted(typ tokenType, quote byte) error {
	start := l.pos
	end := strings.IndexByte(l.input[start+1:], quote)
	if end < 0 {
		return errorf(DisallowedToken, l.input[start:], start, "unterminated %c", quote)
	}
	text := l.input[start+1 : start+1+end]
	if typ == tokColumn && strings.TrimSpace(text) == "" {
		return errorf(DisallowedToken, "``", start, "empty column name")
	}
	l.pos = start + end + 2
	l.emit(typ, text, start)
	return nil
}

func (l *lexer) identifier() error {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	word := l.input[start:l.pos]
	lower := strings.ToLower(word)
	if reserved[lower] || isDunder(word) {
		return errorf(DisallowedToken, word, start, "%q is not allowed in a formula", word)
	}
	if l.callFollows() && !functions[lower] && !keywords[lower] {
		return errorf(DisallowedToken, word, start, "function %q is not allowed, use one of abs, min, max, round", word)
	}
	l.emit(tokIdent, word, start)
	return nil
}

// callFollows reports whether the next non space character is '('.
func (l *lexer) callFollows() bool {
	rest := strings.TrimLeftFunc(l.input[l.pos:], unicode.IsSpace)
	return strings.HasPrefix(rest, "(")
}
