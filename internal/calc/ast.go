package calc

import (
	"strings"
)

// Node is an expression tree node.
type Node interface {
	// Pos is the byte offset of the node's first token.
	Pos() int
	String() string
}

// Num is a numeric literal, kept as text until the mode is known.
type Num struct {
	Text string
	At   int
}

// Unary is a prefix sign.
type Unary struct {
	Op TokenKind // TokMinus or TokPlus
	X  Node
	At int
}

// Binary is an infix operation.
type Binary struct {
	Op   TokenKind
	L, R Node
	At   int // offset of the operator
}

// Call is a function application.
type Call struct {
	Name string
	Args []Node
	At   int
}

func (n *Num) Pos() int    { return n.At }
func (n *Unary) Pos() int  { return n.At }
func (n *Binary) Pos() int { return n.L.Pos() }
func (n *Call) Pos() int   { return n.At }

func (n *Num) String() string { return n.Text }

func (n *Unary) String() string {
	return "(" + opText(n.Op) + n.X.String() + ")"
}

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + opText(n.Op) + " " + n.R.String() + ")"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

func opText(k TokenKind) string {
	switch k {
	case TokPlus:
		return "+"
	case TokMinus:
		return "-"
	case TokStar:
		return "*"
	case TokSlash:
		return "/"
	case TokPercent:
		return "%"
	case TokCaret:
		return "^"
	default:
		return k.String()
	}
}
