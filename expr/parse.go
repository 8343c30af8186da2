package expr

import (
	"strconv"
	"unicode"
)

// Parse builds an operator tree from a plain infix expression, e.g.
//
//	min(snowpack, ddf*max(temp-tt, 0))
//
// Operators + - * / ^ with the usual precedence, parentheses, unary minus,
// and the function set known to Compile. This is test/catalog convenience;
// authoring layers hand trees in directly.
func Parse(s string) (Node, error) {
	p := &parser{src: s}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skip()
	if p.i < len(p.src) {
		return nil, errf("parse %q: trailing input at %d", s, p.i)
	}
	return n, nil
}

// MustParse is Parse for statically-known expressions.
func MustParse(s string) Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	src string
	i   int
}

func (p *parser) skip() {
	for p.i < len(p.src) && (p.src[p.i] == ' ' || p.src[p.i] == '\t' || p.src[p.i] == '\n') {
		p.i++
	}
}

func (p *parser) peek() byte {
	p.skip()
	if p.i >= len(p.src) {
		return 0
	}
	return p.src[p.i]
}

func (p *parser) expr() (Node, error) {
	n, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '+', '-':
			op := p.src[p.i]
			p.i++
			r, err := p.term()
			if err != nil {
				return nil, err
			}
			n = &Bin{Op: op, L: n, R: r}
		default:
			return n, nil
		}
	}
}

func (p *parser) term() (Node, error) {
	n, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*', '/':
			op := p.src[p.i]
			p.i++
			r, err := p.factor()
			if err != nil {
				return nil, err
			}
			n = &Bin{Op: op, L: n, R: r}
		default:
			return n, nil
		}
	}
}

func (p *parser) factor() (Node, error) {
	n, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.peek() == '^' { // right associative
		p.i++
		r, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &Bin{Op: '^', L: n, R: r}, nil
	}
	return n, nil
}

func (p *parser) unary() (Node, error) {
	if p.peek() == '-' {
		p.i++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Neg{X: x}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Node, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.i++
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, errf("parse %q: expected ) at %d", p.src, p.i)
		}
		p.i++
		return n, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case isIdentStart(rune(c)):
		return p.ident()
	}
	return nil, errf("parse %q: unexpected character at %d", p.src, p.i)
}

func (p *parser) number() (Node, error) {
	j := p.i
	for p.i < len(p.src) && (isDigit(p.src[p.i]) || p.src[p.i] == '.' ||
		p.src[p.i] == 'e' || p.src[p.i] == 'E' ||
		((p.src[p.i] == '+' || p.src[p.i] == '-') && p.i > j && (p.src[p.i-1] == 'e' || p.src[p.i-1] == 'E'))) {
		p.i++
	}
	v, err := strconv.ParseFloat(p.src[j:p.i], 64)
	if err != nil {
		return nil, errf("parse %q: bad number at %d", p.src, j)
	}
	return Num(v), nil
}

func (p *parser) ident() (Node, error) {
	j := p.i
	for p.i < len(p.src) && isIdentPart(rune(p.src[p.i])) {
		p.i++
	}
	name := p.src[j:p.i]
	if p.peek() != '(' {
		return Var(name), nil
	}
	p.i++
	var args []Node
	if p.peek() != ')' {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek() != ',' {
				break
			}
			p.i++
		}
	}
	if p.peek() != ')' {
		return nil, errf("parse %q: expected ) at %d", p.src, p.i)
	}
	p.i++
	if _, ok := unary[name]; !ok {
		if _, ok := binary[name]; !ok {
			return nil, errf("parse %q: unknown function %q", p.src, name)
		}
	}
	return &Call{Name: name, Args: args}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
