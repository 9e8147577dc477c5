package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// The formula language is deliberately tiny: decimal literals, variable
// identifiers, + - * /, unary minus, and parentheses. Identifiers are
// resolved against a binding map during evaluation instead of being
// text-substituted into the source, so a token like "size" can never
// corrupt a composite token like "size_xl".

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lexFormula(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2+1)
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+':
			tokens = append(tokens, token{tokPlus, "+", i})
			i++
		case r == '-':
			tokens = append(tokens, token{tokMinus, "-", i})
			i++
		case r == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case r == '/':
			tokens = append(tokens, token{tokSlash, "/", i})
			i++
		case r == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case r == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, fmt.Errorf("invalid number %q at position %d", text, start)
			}
			tokens = append(tokens, token{tokNumber, text, start})
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{tokIdent, string(runes[start:i]), start})
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(runes)})
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// exprNode is a node of the parsed arithmetic expression.
type exprNode interface {
	eval(bindings map[string]float64) (float64, error)
}

type numberNode float64

func (n numberNode) eval(map[string]float64) (float64, error) {
	return float64(n), nil
}

type identNode string

func (n identNode) eval(bindings map[string]float64) (float64, error) {
	value, ok := bindings[string(n)]
	if !ok {
		return 0, fmt.Errorf("unresolved identifier %q", string(n))
	}
	return value, nil
}

type unaryNode struct {
	operand exprNode
}

func (n unaryNode) eval(bindings map[string]float64) (float64, error) {
	value, err := n.operand.eval(bindings)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

type binaryNode struct {
	op          tokenKind
	left, right exprNode
}

func (n binaryNode) eval(bindings map[string]float64) (float64, error) {
	left, err := n.left.eval(bindings)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(bindings)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokPlus:
		return left + right, nil
	case tokMinus:
		return left - right, nil
	case tokStar:
		return left * right, nil
	case tokSlash:
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	}
	return 0, fmt.Errorf("unknown operator")
}

type parser struct {
	tokens []token
	pos    int
}

func parseFormula(tokens []token) (exprNode, error) {
	p := &parser{tokens: tokens}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		t := p.peek()
		return nil, fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
	}
	return node, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		kind := p.peek().kind
		if kind != tokPlus && kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: kind, left: left, right: right}
	}
}

// term := factor (('*' | '/') factor)*
func (p *parser) parseTerm() (exprNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		kind := p.peek().kind
		if kind != tokStar && kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: kind, left: left, right: right}
	}
}

// factor := number | ident | '-' factor | '(' expr ')'
func (p *parser) parseFactor() (exprNode, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		value, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", t.text, t.pos)
		}
		return numberNode(value), nil
	case tokIdent:
		return identNode(t.text), nil
	case tokMinus:
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return unaryNode{operand: operand}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("expected ')' at position %d", closing.pos)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of formula")
	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
	}
}

func evalExpr(node exprNode, bindings map[string]float64) (float64, error) {
	value, err := node.eval(bindings)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite result")
	}
	return value, nil
}

// renderSubstituted reconstructs the formula with identifiers replaced by
// their bound values. Diagnostics only; evaluation never touches this text.
func renderSubstituted(tokens []token, bindings map[string]float64) string {
	var b strings.Builder
	for i, t := range tokens {
		if t.kind == tokEOF {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.kind == tokIdent {
			if value, ok := bindings[t.text]; ok {
				b.WriteString(strconv.FormatFloat(value, 'f', -1, 64))
				continue
			}
		}
		b.WriteString(t.text)
	}
	return b.String()
}
