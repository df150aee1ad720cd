package calc

import "fmt"

// Binary operator precedence. Higher binds tighter.
const (
	precAdditive       = 1 // + -
	precMultiplicative = 2 // * / %
	precPower          = 3 // ^
)

// binaryPrec returns the precedence and associativity of an infix
// operator, or -1 when kind is not one.
func binaryPrec(kind TokenKind) (prec int, rightAssoc bool) {
	switch kind {
	case TokPlus, TokMinus:
		return precAdditive, false
	case TokStar, TokSlash, TokPercent:
		return precMultiplicative, false
	case TokCaret:
		return precPower, true
	default:
		return -1, false
	}
}

type parser struct {
	toks []Token
	pos  int
}

// Parse lexes and parses src into an expression tree.
func Parse(src string) (Node, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.Kind)
	}
	return n, nil
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, tok.Kind)
	}
	return p.advance(), nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, tok.Pos, fmt.Sprintf(format, args...))
}

// parseBinary is a precedence-climbing loop over infix operators.
func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, rightAssoc := binaryPrec(tok.Kind)
		if prec < 0 || prec < minPrec {
			return left, nil
		}
		p.advance()

		next := prec + 1
		if rightAssoc {
			next = prec
		}
		right, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: tok.Kind, L: left, R: right, At: tok.Pos}
	}
}

// parseUnary binds a sign looser than "^": the operand is a full power
// chain, so -2^2 parses as -(2^2).
func (p *parser) parseUnary() (Node, error) {
	tok := p.peek()
	if tok.Kind == TokMinus || tok.Kind == TokPlus {
		p.advance()
		x, err := p.parseBinary(precPower)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.Kind, X: x, At: tok.Pos}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Node, error) {
	tok := p.advance()
	switch tok.Kind {
	case TokNumber:
		return &Num{Text: tok.Text, At: tok.Pos}, nil
	case TokLParen:
		n, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return n, nil
	case TokIdent:
		return p.parseCall(tok)
	case TokEOF:
		return nil, p.errorf(tok, "unexpected end of input")
	default:
		return nil, p.errorf(tok, "unexpected %s", tok.Kind)
	}
}

func (p *parser) parseCall(name Token) (Node, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	call := &Call{Name: name.Text, At: name.Pos}
	if p.peek().Kind == TokRParen {
		p.advance()
		return call, nil
	}
	for {
		arg, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		tok := p.advance()
		switch tok.Kind {
		case TokComma:
			continue
		case TokRParen:
			return call, nil
		default:
			return nil, p.errorf(tok, "expected ',' or ')', found %s", tok.Kind)
		}
	}
}
