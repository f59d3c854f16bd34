package calc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// tokenKind identifies a lexical token.
type tokenKind uint8

const (
	tokEnd tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

// token is one lexical unit of a calc expression.
type token struct {
	kind  tokenKind
	value float64 // for tokNumber
	text  string  // for tokIdent
}

// lex tokenizes a calc expression. Unknown characters are errors; the
// grammar is closed so nothing unexpected may slip through to evaluation.
func lex(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, value: value})

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i])})

		default:
			kind, ok := operatorKinds[r]
			if !ok {
				return nil, fmt.Errorf("unexpected character %q", r)
			}
			tokens = append(tokens, token{kind: kind})
			i++
		}
	}

	tokens = append(tokens, token{kind: tokEnd})
	return tokens, nil
}

// operatorKinds maps operator characters to token kinds.
var operatorKinds = map[rune]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'%': tokPercent,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
}

// substituteFields replaces field-name occurrences in the expression with
// numeric literals. Longer names substitute first so a name that prefixes
// another cannot corrupt it. Returns the rewritten expression and whether
// any referenced field held a blank or non-numeric value (coerced to 0).
func substituteFields(expr string, fields map[string]string) (string, bool) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name != "" {
			names = append(names, name)
		}
	}
	// Longest first; ties resolve alphabetically for determinism.
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if len(names[j]) > len(names[i]) || (len(names[j]) == len(names[i]) && names[j] < names[i]) {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	incomplete := false
	for _, name := range names {
		if !strings.Contains(expr, name) {
			continue
		}
		value, ok := numericValue(fields[name])
		if !ok {
			incomplete = true
		}
		expr = replaceWholeWords(expr, name, strconv.FormatFloat(value, 'f', -1, 64))
	}
	return expr, incomplete
}

// numericValue coerces a field value to a number. Blank and non-numeric
// values coerce to 0 and report false.
func numericValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// replaceWholeWords replaces occurrences of name not embedded in a longer
// identifier, so substituting "qty" leaves "qty2" alone.
func replaceWholeWords(expr, name, replacement string) string {
	var b strings.Builder
	runes := []rune(expr)
	nameRunes := []rune(name)

	for i := 0; i < len(runes); {
		if !matchAt(runes, nameRunes, i) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		before := i == 0 || !isWordRune(runes[i-1])
		afterIdx := i + len(nameRunes)
		after := afterIdx >= len(runes) || !isWordRune(runes[afterIdx])
		if before && after {
			b.WriteString(replacement)
			i = afterIdx
		} else {
			b.WriteRune(runes[i])
			i++
		}
	}
	return b.String()
}

func matchAt(runes, sub []rune, at int) bool {
	if at+len(sub) > len(runes) {
		return false
	}
	for i, r := range sub {
		if runes[at+i] != r {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
