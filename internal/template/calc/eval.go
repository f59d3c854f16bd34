package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrDivideByZero is returned for division or modulo by zero.
var ErrDivideByZero = errors.New("division by zero")

// Result is the outcome of evaluating a calc expression.
type Result struct {
	// Value is the numeric result.
	Value float64

	// Incomplete is set when a referenced field held a blank or
	// non-numeric value and was coerced to 0. Live previews show the
	// value anyway; the flag lets them mark it provisional.
	Incomplete bool
}

// Format renders the result: integral values without a decimal point,
// others rounded to two decimal places.
func (r Result) Format() string {
	return formatNumber(r.Value)
}

func formatNumber(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// allowedFuncs is the fixed function allow-list. Nothing outside this table
// and plain arithmetic can execute.
var allowedFuncs = map[string]func(args []float64) (float64, error){
	"round": unary(math.Round),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"abs":   unary(math.Abs),
	"sqrt": func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("sqrt takes 1 argument, got %d", len(args))
		}
		if args[0] < 0 {
			return 0, fmt.Errorf("sqrt of negative number")
		}
		return math.Sqrt(args[0]), nil
	},
	"pow": func(args []float64) (float64, error) {
		if len(args) != 2 {
			return 0, fmt.Errorf("pow takes 2 arguments, got %d", len(args))
		}
		return math.Pow(args[0], args[1]), nil
	},
	"min": fold(math.Min),
	"max": fold(math.Max),
}

func unary(fn func(float64) float64) func(args []float64) (float64, error) {
	return func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("function takes 1 argument, got %d", len(args))
		}
		return fn(args[0]), nil
	}
}

func fold(fn func(float64, float64) float64) func(args []float64) (float64, error) {
	return func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("function takes at least 1 argument")
		}
		acc := args[0]
		for _, v := range args[1:] {
			acc = fn(acc, v)
		}
		return acc, nil
	}
}

// Evaluate computes a calc expression against the given field values.
// Field references substitute to numbers first; identifiers that survive
// substitution and are not allow-listed functions evaluate to 0.
func Evaluate(expr string, fields map[string]string) (Result, error) {
	substituted, incomplete := substituteFields(expr, fields)

	tokens, err := lex(substituted)
	if err != nil {
		return Result{}, err
	}

	p := &parser{tokens: tokens}
	value, err := p.parseExpr()
	if err != nil {
		return Result{}, err
	}
	if p.peek().kind != tokEnd {
		return Result{}, fmt.Errorf("unexpected trailing input")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, fmt.Errorf("result is not a finite number")
	}
	return Result{Value: value, Incomplete: incomplete}, nil
}

// parser is a recursive-descent evaluator over the token stream.
// Precedence, loosest first: + - ; * / % ; unary - ; ^ (right-assoc).
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEnd {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivideByZero
			}
			left /= right
		case tokPercent:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivideByZero
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	switch p.peek().kind {
	case tokMinus:
		p.next()
		v, err := p.parseUnary()
		return -v, err
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	// Right-associative: 2^3^2 is 2^(3^2).
	exp, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *parser) parsePrimary() (float64, error) {
	switch t := p.next(); t.kind {
	case tokNumber:
		return t.value, nil

	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t.text)
		}
		// Unknown bare identifier: evaluate to 0 so the calc still
		// renders. Field names were already substituted away.
		return 0, nil

	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.next().kind != tokRParen {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		return v, nil

	default:
		return 0, fmt.Errorf("unexpected token in expression")
	}
}

// parseCall parses a function invocation. Calls to names outside the
// allow-list have their arguments parsed and evaluate to 0.
func (p *parser) parseCall(name string) (float64, error) {
	p.next() // consume '('

	var args []float64
	if p.peek().kind != tokRParen {
		for {
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, v)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if p.next().kind != tokRParen {
		return 0, fmt.Errorf("missing closing parenthesis in %s()", name)
	}

	fn, ok := allowedFuncs[name]
	if !ok {
		return 0, nil
	}
	return fn(args)
}
