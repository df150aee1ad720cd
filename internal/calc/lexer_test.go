package calc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLex(t *testing.T) {
	toks, err := Lex("abs(-1.5e-3) % 2 ^ .5")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{
		TokIdent, TokLParen, TokMinus, TokNumber, TokRParen,
		TokPercent, TokNumber, TokCaret, TokNumber, TokEOF,
	}, kinds(toks))
	require.Equal(t, "1.5e-3", toks[3].Text)
	require.Equal(t, ".5", toks[8].Text)
}

func TestLexFoldsFullWidth(t *testing.T) {
	toks, err := Lex("１２＋３．５")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{TokNumber, TokPlus, TokNumber, TokEOF}, kinds(toks))
	require.Equal(t, "12", toks[0].Text)
	require.Equal(t, "3.5", toks[2].Text)
}

func TestLexExponentNeedsDigits(t *testing.T) {
	toks, err := Lex("2e+x")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{TokNumber, TokIdent, TokPlus, TokIdent, TokEOF}, kinds(toks))
	require.Equal(t, "2", toks[0].Text)
}

func TestLexRejectsUnknown(t *testing.T) {
	_, err := Lex("1 & 2")
	require.ErrorIs(t, err, ErrSyntax)
	require.Contains(t, err.Error(), "offset 2")
}
