package formula

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/etnz/fundscreen"
	"gopkg.in/yaml.v3"
)

// Aliases maps short names typed in formulas to dataset column names.
type Aliases map[string]string

// DefaultAliases returns the aliases for the standard Morningstar export
// columns.
func DefaultAliases() Aliases {
	return Aliases{
		"return":        fundscreen.ColReturn,
		"fee":           fundscreen.ColFee,
		"expense_ratio": fundscreen.ColFee,
		"risk":          fundscreen.ColStdDev,
		"stdev":         fundscreen.ColStdDev,
		"beta":          fundscreen.ColBeta,
		"sharpe":        fundscreen.ColSharpe,
		"rating":        fundscreen.ColRating,
	}
}

// Check verifies that every alias is a plain identifier that cannot be
// mistaken for a keyword or a function, and targets a column name.
func (a Aliases) Check() error {
	for _, name := range a.Names() {
		target := a[name]
		r, _ := utf8.DecodeRuneInString(name)
		if !isIdentStart(r) || strings.IndexFunc(name, func(r rune) bool { return !isIdentPart(r) }) >= 0 {
			return fmt.Errorf("alias %q is not a valid name: use letters, digits and underscores", name)
		}
		lower := strings.ToLower(name)
		if keywords[lower] || functions[lower] || reserved[lower] || isDunder(name) {
			return fmt.Errorf("alias %q is a reserved word", name)
		}
		if strings.TrimSpace(target) == "" || strings.Contains(target, "`") {
			return fmt.Errorf("alias %q has an invalid target column %q", name, target)
		}
	}
	return nil
}

// Merge returns a copy of a with others added, later ones taking precedence.
func (a Aliases) Merge(others ...Aliases) Aliases {
	res := make(Aliases, len(a))
	for k, v := range a {
		res[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			res[k] = v
		}
	}
	return res
}

// Names returns the alias names, sorted.
func (a Aliases) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Reverse returns, for each target column, its sorted aliases.
func (a Aliases) Reverse() map[string][]string {
	res := make(map[string][]string)
	for _, name := range a.Names() {
		res[a[name]] = append(res[a[name]], name)
	}
	return res
}

// DecodeAliases reads aliases from a YAML mapping of alias to column name.
func DecodeAliases(r io.Reader) (Aliases, error) {
	var a Aliases
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		if err == io.EOF {
			return Aliases{}, nil
		}
		return nil, fmt.Errorf("cannot decode aliases: %w", err)
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	return a, nil
}

// EncodeAliases writes aliases as a YAML mapping, sorted by alias.
func EncodeAliases(w io.Writer, a Aliases) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]string(a)); err != nil {
		return err
	}
	return enc.Close()
}

// Resolve rewrites every alias of expr into its backtick quoted column, and
// returns the aliases used, sorted. Only identifiers are candidates: the scan
// reads whole identifiers so the longest name always wins, it skips string
// literals and quoted columns, and leaves names followed by "(" alone.
//
// A used alias whose column is not in columns is an UnknownAliasTarget
// error. Unused aliases are not checked.
func Resolve(expr string, aliases Aliases, columns []string) (string, []string, error) {
	has := make(map[string]bool, len(columns))
	for _, c := range columns {
		has[c] = true
	}
	used := make(map[string]bool)

	var b strings.Builder
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := strings.IndexByte(expr[i+1:], c)
			if end < 0 {
				// unterminated, the validator rejects it
				b.WriteString(expr[i:])
				i = len(expr)
				continue
			}
			b.WriteString(expr[i : i+end+2])
			i += end + 2
			continue
		case isDigit(c):
			// numbers may hold letters (1e5), they are never aliases
			j := i
			for j < len(expr) {
				r, size := utf8.DecodeRuneInString(expr[j:])
				if !isIdentPart(r) && r != '.' {
					break
				}
				j += size
			}
			b.WriteString(expr[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(expr[i:])
		if !isIdentStart(r) {
			b.WriteString(expr[i : i+size])
			i += size
			continue
		}
		j := i + size
		for j < len(expr) {
			r, size := utf8.DecodeRuneInString(expr[j:])
			if !isIdentPart(r) {
				break
			}
			j += size
		}
		word := expr[i:j]
		target, ok := aliases[word]
		if !ok || strings.HasPrefix(strings.TrimLeft(expr[j:], " \t\r\n"), "(") {
			b.WriteString(word)
			i = j
			continue
		}
		if !has[target] {
			err := errorf(UnknownAliasTarget, word, i, "alias %q refers to column %q which is not in the data", word, target)
			err.Expr = expr
			return "", nil, err
		}
		used[word] = true
		b.WriteString("`" + target + "`")
		i = j
	}

	names := make([]string, 0, len(used))
	for k := range used {
		names = append(names, k)
	}
	slices.Sort(names)
	return b.String(), names, nil
}
