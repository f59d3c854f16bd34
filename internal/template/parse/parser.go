package parse

import (
	"strconv"
	"strings"

	"github.com/dshills/snipforge/internal/template"
)

const (
	toggleSuffix = ":toggle"
	togglePrefix = "/"
)

// Parse converts template text into a parsed node sequence. It never fails.
func Parse(src string) template.Parsed {
	return template.Parsed{Nodes: parseTokens(Tokenize(src))}
}

// parseTokens parses a token stream, resolving toggle sections first.
func parseTokens(tokens []Token) []template.Node {
	var nodes []template.Node

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind != TokenMarker {
			nodes = appendLiteral(nodes, tok.Text)
			continue
		}

		if name, ok := toggleOpen(tok.Body); ok {
			end := findToggleClose(tokens, i+1, name)
			if end < 0 {
				// Unterminated toggle: the marker stays literal text.
				nodes = appendLiteral(nodes, tok.Text)
				continue
			}
			nodes = append(nodes, template.Toggle{
				Name:     name,
				Children: parseTokens(tokens[i+1 : end]),
			})
			i = end
			continue
		}

		if node, ok := classify(tok.Body); ok {
			nodes = append(nodes, node)
		} else {
			// Unrecognized marker: degrade to literal text.
			nodes = appendLiteral(nodes, tok.Text)
		}
	}
	return nodes
}

// appendLiteral adds literal text, merging into a trailing Literal node.
func appendLiteral(nodes []template.Node, text string) []template.Node {
	if text == "" {
		return nodes
	}
	if n := len(nodes); n > 0 {
		if lit, ok := nodes[n-1].(template.Literal); ok {
			nodes[n-1] = template.Literal{Text: lit.Text + text}
			return nodes
		}
	}
	return append(nodes, template.Literal{Text: text})
}

// toggleOpen reports whether body opens a toggle section and returns its name.
func toggleOpen(body string) (string, bool) {
	if strings.HasPrefix(body, togglePrefix) || !strings.HasSuffix(body, toggleSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(body, toggleSuffix)
	if name == "" || strings.ContainsAny(name, ":=") {
		return "", false
	}
	return name, true
}

// findToggleClose returns the index of the nearest {{/name:toggle}} marker at
// or after from, or -1. The nearest close wins, so a same-named nested open
// cannot capture an outer close.
func findToggleClose(tokens []Token, from int, name string) int {
	want := togglePrefix + name + toggleSuffix
	for i := from; i < len(tokens); i++ {
		if tokens[i].Kind == TokenMarker && tokens[i].Body == want {
			return i
		}
	}
	return -1
}

// classify maps a marker body to its node, trying each kind in the fixed
// priority order. Most specific kinds come first so, e.g., a multi-select's
// "=" cannot be swallowed by the dropdown rule.
func classify(body string) (template.Node, bool) {
	switch {
	case strings.HasPrefix(body, "snippet:"):
		return template.SnippetRef{Trigger: strings.TrimPrefix(body, "snippet:")}, true

	case strings.HasPrefix(body, "calc:"):
		return template.Calc{Expr: strings.TrimPrefix(body, "calc:")}, true
	}

	if name, options, ok := multiSelect(body); ok {
		return template.MultiSelect{Name: name, Options: options}, true
	}

	if strings.HasSuffix(body, ":date") {
		return template.DatePicker{Name: strings.TrimSuffix(body, ":date")}, true
	}

	if days, ok := dateArith(body); ok {
		return template.DateArith{Days: days}, true
	}

	switch body {
	case "date":
		return template.DateVar{}, true
	case "time":
		return template.TimeVar{}, true
	case "datetime":
		return template.DateTimeVar{}, true
	case "clipboard":
		return template.Clipboard{}, true
	case "cursor":
		return template.Cursor{}, true
	}

	if strings.HasPrefix(body, "image:") {
		return template.ImageRef{Path: strings.TrimPrefix(body, "image:")}, true
	}

	if cols, rows, ok := tableRef(body); ok {
		return template.TableRef{Cols: cols, Rows: rows}, true
	}

	if name, options, ok := dropdown(body); ok {
		return template.Dropdown{Name: name, Options: options}, true
	}

	if fieldName(body) {
		return template.Field{Name: body}, true
	}
	return nil, false
}

// multiSelect parses "name:multi=a|b|c".
func multiSelect(body string) (string, []string, bool) {
	name, rest, found := strings.Cut(body, ":multi=")
	if !found || name == "" {
		return "", nil, false
	}
	return name, strings.Split(rest, "|"), true
}

// dateArith parses "date+N" and "date-N".
func dateArith(body string) (int, bool) {
	rest, found := strings.CutPrefix(body, "date")
	if !found || len(rest) < 2 {
		return 0, false
	}
	sign := rest[0]
	if sign != '+' && sign != '-' {
		return 0, false
	}
	days, err := strconv.Atoi(rest[1:])
	if err != nil || days < 0 {
		return 0, false
	}
	if sign == '-' {
		days = -days
	}
	return days, true
}

// tableRef parses "table:cols:rows" with positive integer dimensions.
func tableRef(body string) (int, int, bool) {
	rest, found := strings.CutPrefix(body, "table:")
	if !found {
		return 0, 0, false
	}
	colsStr, rowsStr, found := strings.Cut(rest, ":")
	if !found {
		return 0, 0, false
	}
	cols, err := strconv.Atoi(colsStr)
	if err != nil || cols <= 0 {
		return 0, 0, false
	}
	rows, err := strconv.Atoi(rowsStr)
	if err != nil || rows <= 0 {
		return 0, 0, false
	}
	return cols, rows, true
}

// dropdown parses "name=a|b|c".
func dropdown(body string) (string, []string, bool) {
	name, rest, found := strings.Cut(body, "=")
	if !found || name == "" || strings.Contains(name, ":") {
		return "", nil, false
	}
	return name, strings.Split(rest, "|"), true
}

// fieldName reports whether body is a plain field name: non-empty and free
// of the characters the marker grammar reserves. There is no escaping for
// "}}", "=", or ":" inside a name; see the package comment.
func fieldName(body string) bool {
	if body == "" {
		return false
	}
	return !strings.ContainsAny(body, ":={}\n")
}
