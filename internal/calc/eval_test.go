package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
)

func evalString(t *testing.T, src string, opts Options) string {
	t.Helper()
	v, err := Eval(context.Background(), src, opts)
	require.NoError(t, err, src)
	return v.String()
}

func TestEvalDecimal(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		in   string
		want string
	}{
		{"1.23 + 4.56", "5.79"},
		{"-1.23 + 1.23", "0"},
		{"5.67 - 1.23", "4.44"},
		{"1.2 * 3.4", "4.08"},
		{"2.5 * -0.5", "-1.25"},
		{"10 / 3", "3.3333333333"},
		{"1.5 ^ 3", "3.375"},
		{"-2 ^ 3", "-8"},
		{"-2 ^ 2", "-4"},
		{"(-2) ^ 2", "4"},
		{"2 ^ 3 ^ 2", "512"},
		{"1e-3", "0.001"},
		{"trunc(123.456)", "123"},
		{"trunc(-0.789)", "0"},
		{"abs(-7.5)", "7.5"},
		{"div(10, 3, 2)", "3.33"},
		{"rdiv(10, 3, 2)", "3.33"},
		{"rdiv(10, 3, 0)", "3"},
		{"round(9.96, 1)", "10"},
		{"round(-0.15, 1)", "-0.2"},
		{"weq(1.2345, 1.2346, 3)", "1"},
		{"weq(1.2345, 1.2346, 4)", "0"},
		{"sign(-3)", "-1"},
		{"１２＋３", "15"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, evalString(t, tc.in, opts), tc.in)
	}
}

func TestEvalDecimalPrecisionAndRounding(t *testing.T) {
	require.Equal(t, "0.66", evalString(t, "2/3", Options{Precision: 2}))
	require.Equal(t, "0.67", evalString(t, "2/3", Options{Precision: 2, Round: true}))
	require.Equal(t, "-0.67", evalString(t, "-2/3", Options{Precision: 2, Round: true}))
	require.Equal(t, "0", evalString(t, "2/3", Options{Precision: 0}))
}

func TestEvalInt(t *testing.T) {
	opts := Options{Mode: ModeInt}
	cases := []struct {
		in   string
		want string
	}{
		{"99999999999999999999 + 1", "100000000000000000000"},
		{"123456789 * 987654321", "121932631112635269"},
		{"1000 / 3", "333"},
		{"7 / 2", "3"},
		{"1000 % 3", "1"},
		{"-7 % 2", "-1"},
		{"2 ^ 10", "1024"},
		{"-2 ^ 3", "-8"},
		{"2 ^ 100", "1267650600228229401496703205376"},
		{"abs(-5)", "5"},
		{"trunc(5)", "5"},
		{"weq(3, 3, 2)", "1"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, evalString(t, tc.in, opts), tc.in)
	}
}

func TestEvalErrors(t *testing.T) {
	ctx := context.Background()
	dec := DefaultOptions()
	in := Options{Mode: ModeInt}
	cases := []struct {
		in   string
		opts Options
		want error
	}{
		{"1 / 0", dec, ErrDivByZero},
		{"1 / (2 - 2)", in, ErrDivByZero},
		{"5 % 0", in, ErrDivByZero},
		{"div(1, 0, 2)", dec, ErrDivByZero},
		{"5 % 2", dec, ErrDomain},
		{"1.5", in, ErrDomain},
		{"2 ^ 0.5", dec, ErrDomain},
		{"2 ^ -1", in, bignum.ErrNegativeExponent},
		{"2 ^ -1", dec, decimal.ErrNegativeExponent},
		{"2 ^ 1000001", in, ErrDomain},
		{"0.01 ^ 2000000000", Options{MaxPow: 1 << 31}, decimal.ErrExponentOverflow},
		{"div(1, 3, 2)", in, ErrDomain},
		{"weq(1, 2, -1)", dec, ErrDomain},
		{"nope(1)", dec, ErrUnknownFunc},
		{"abs(1, 2)", dec, ErrArity},
		{"1..2", dec, ErrSyntax},
		{"5.", dec, ErrSyntax},
		{"1 +", dec, ErrSyntax},
	}
	for _, tc := range cases {
		_, err := Eval(ctx, tc.in, tc.opts)
		require.ErrorIs(t, err, tc.want, tc.in)
	}

	_, err := Eval(ctx, "1", Options{Precision: -1})
	require.ErrorIs(t, err, decimal.ErrNegativePrecision)
	_, err = Eval(ctx, "1", Options{Precision: MaxPrecision + 1})
	require.ErrorIs(t, err, ErrDomain)
	require.NoError(t, CheckPrecision(MaxPrecision))
}

func TestEvalScaleLimits(t *testing.T) {
	ctx := context.Background()
	dec := DefaultOptions()
	cases := []struct {
		in   string
		opts Options
		want string
	}{
		{"1e300000000 + 1", dec, "scale 10^300000000"},
		{"1e-300000000", dec, "scale 10^-300000000"},
		{"1e60000 + 1e-60000", dec, "operand scales differ by 10^120000"},
		{"1e60000 / 1e-60000", dec, "operand scales differ"},
		{"1e60000 * 1e60000", dec, "scale 10^120000"},
		{"rdiv(1e-60000, 1e60000, 2)", dec, "operand scales differ"},
		{"div(1e60000, 1e-60000, 2)", dec, "operand scales differ"},
		{"1e30 ^ 5000", Options{MaxDigits: 1000}, "scale 10^150000"},
		{"1e5 + 1", Options{MaxDigits: 4}, "scale 10^5"},
	}
	for _, tc := range cases {
		_, err := Eval(ctx, tc.in, tc.opts)
		require.ErrorIs(t, err, ErrDomain, tc.in)
		require.Contains(t, err.Error(), tc.want, tc.in)
	}

	v, err := Eval(ctx, "1e60000 + 1e-30000", dec)
	require.NoError(t, err)
	require.Equal(t, int32(-30000), v.Dec.Exponent())
	require.Equal(t, 1, v.Dec.Cmp(decimal.MustParse("1e59999")))
}

func TestEvalPowBoundsBeforeExpanding(t *testing.T) {
	ctx := context.Background()
	wide := Options{MaxDigits: 1 << 30}
	cases := []struct {
		in   string
		want string
	}{
		{"2 ^ 1e300000000", "exponent exceeds 100000"},
		{"2 ^ -1e300000000", "exponent is negative"},
		{"2 ^ 123456789", "exponent exceeds 100000"},
		{"2 ^ 999999", "exponent 999999 exceeds 100000"},
	}
	for _, tc := range cases {
		_, err := Eval(ctx, tc.in, wide)
		require.ErrorIs(t, err, ErrDomain, tc.in)
		require.Contains(t, err.Error(), tc.want, tc.in)
		require.Less(t, len(err.Error()), 200, tc.in)
	}
}

func TestEvalHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Eval(ctx, "1 + 1", DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("INT")
	require.NoError(t, err)
	require.Equal(t, ModeInt, m)
	m, err = ParseMode("decimal")
	require.NoError(t, err)
	require.Equal(t, ModeDecimal, m)
	_, err = ParseMode("float")
	require.Error(t, err)
	require.Len(t, Functions(), len(builtins))
}
