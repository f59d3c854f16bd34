package parse

import "strings"

// TokenKind distinguishes literal text from marker spans.
type TokenKind uint8

const (
	// TokenText is a run of literal text.
	TokenText TokenKind = iota

	// TokenMarker is a {{...}} span; Body holds the text between the braces.
	TokenMarker
)

// Token is one unit of tokenized template text.
type Token struct {
	Kind TokenKind

	// Text is the raw source text of the token, braces included for markers.
	Text string

	// Body is the marker body (between {{ and }}). Empty for text tokens.
	Body string
}

const (
	markerOpen  = "{{"
	markerClose = "}}"
)

// Tokenize splits template text into literal runs and marker spans.
// An opening brace pair without a closing pair is literal text.
func Tokenize(src string) []Token {
	var tokens []Token
	for len(src) > 0 {
		open := strings.Index(src, markerOpen)
		if open < 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: src})
			break
		}
		if open > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: src[:open]})
			src = src[open:]
		}

		end := strings.Index(src[len(markerOpen):], markerClose)
		if end < 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: src})
			break
		}
		end += len(markerOpen)

		tokens = append(tokens, Token{
			Kind: TokenMarker,
			Text: src[:end+len(markerClose)],
			Body: src[len(markerOpen):end],
		})
		src = src[end+len(markerClose):]
	}
	return tokens
}
