package calc

import "fmt"

// TokenKind is the category of a lexed token.
type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokNumber
	TokIdent
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokCaret
	TokLParen
	TokRParen
	TokComma
)

var tokenNames = [...]string{
	TokEOF:     "end of input",
	TokNumber:  "number",
	TokIdent:   "identifier",
	TokPlus:    "'+'",
	TokMinus:   "'-'",
	TokStar:    "'*'",
	TokSlash:   "'/'",
	TokPercent: "'%'",
	TokCaret:   "'^'",
	TokLParen:  "'('",
	TokRParen:  "')'",
	TokComma:   "','",
}

// String returns the string representation of TokenKind.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("token(%d)", k)
}

// Token is one lexeme. Pos is the byte offset in the folded input.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}
