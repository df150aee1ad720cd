package calc

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Fold applies NFKC so full-width digits and operators ("１２＋３")
// become their ASCII forms. Numeric parsing after it stays strict ASCII.
func Fold(src string) string {
	return norm.NFKC.String(src)
}

// Lex folds src and splits it into tokens, ending with TokEOF.
func Lex(src string) ([]Token, error) {
	s := Fold(src)
	var toks []Token
	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			i++
		case isDigit(ch) || (ch == '.' && i+1 < len(s) && isDigit(s[i+1])):
			end := scanNumber(s, i)
			toks = append(toks, Token{Kind: TokNumber, Text: s[i:end], Pos: i})
			i = end
		case isIdentStart(ch):
			end := i + 1
			for end < len(s) && (isIdentStart(s[end]) || isDigit(s[end])) {
				end++
			}
			toks = append(toks, Token{Kind: TokIdent, Text: s[i:end], Pos: i})
			i = end
		default:
			kind, ok := punct[ch]
			if !ok {
				r, _ := utf8.DecodeRuneInString(s[i:])
				if unicode.IsPrint(r) {
					return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, r, i)
				}
				return nil, fmt.Errorf("%w: unexpected %U at offset %d", ErrSyntax, r, i)
			}
			toks = append(toks, Token{Kind: kind, Text: s[i : i+1], Pos: i})
			i++
		}
	}
	return append(toks, Token{Kind: TokEOF, Pos: len(s)}), nil
}

var punct = map[byte]TokenKind{
	'+': TokPlus,
	'-': TokMinus,
	'*': TokStar,
	'/': TokSlash,
	'%': TokPercent,
	'^': TokCaret,
	'(': TokLParen,
	')': TokRParen,
	',': TokComma,
}

// scanNumber returns the end of the number starting at i: digits and
// points, then an exponent only if a digit follows the marker and its
// optional sign. Malformed runs such as "1.2.3" are left for the number
// parser to reject with a precise message.
func scanNumber(s string, i int) int {
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			return j
		}
	}
	return i
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
