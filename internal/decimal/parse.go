package decimal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ksnum/internal/bignum"
)

// Parse reads decimal text of the form
//
//	["+"|"-"] digits ["." digits] [("e"|"E") ["+"|"-"] digits]
//
// where the integer digits may be empty (".5") but a decimal point must be
// followed by at least one digit ("5." is rejected). The result is
// normalized, so "1.230" and "1.23" parse to the same pair.
func Parse(s string) (Decimal, error) {
	if s == "" {
		return Decimal{}, fmt.Errorf("%w: empty string", ErrParse)
	}

	body := s
	neg := false
	switch body[0] {
	case '-':
		neg = true
		body = body[1:]
	case '+':
		body = body[1:]
	}
	if body == "" {
		return Decimal{}, fmt.Errorf("%w: missing digits after sign in %q", ErrParse, s)
	}

	mantText := body
	var exp int64
	if i := strings.IndexAny(body, "eE"); i >= 0 {
		mantText = body[:i]
		v, err := parseExponent(body[i+1:])
		if err != nil {
			return Decimal{}, fmt.Errorf("%w in %q", err, s)
		}
		exp = v
	}

	intPart, fracPart, hasPoint := strings.Cut(mantText, ".")
	switch {
	case strings.Contains(fracPart, "."):
		return Decimal{}, fmt.Errorf("%w: multiple decimal points in %q", ErrParse, s)
	case hasPoint && fracPart == "":
		return Decimal{}, fmt.Errorf("%w: missing digits after decimal point in %q", ErrParse, s)
	case intPart == "" && fracPart == "":
		return Decimal{}, fmt.Errorf("%w: no digits in %q", ErrParse, s)
	case !isDigits(intPart) || !isDigits(fracPart):
		return Decimal{}, fmt.Errorf("%w: invalid digit in %q", ErrParse, s)
	}

	m, err := bignum.Parse(intPart + fracPart)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if neg {
		m = m.Neg()
	}
	d, err := normalize(m, exp-int64(len(fracPart)))
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: exponent out of range in %q", ErrParse, s)
	}
	return d, nil
}

// parseExponent reads the text after 'e': an optional sign and at least
// one digit.
func parseExponent(text string) (int64, error) {
	digits := text
	if digits != "" && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, fmt.Errorf("%w: missing exponent digits", ErrParse)
	}
	if !isDigits(digits) {
		return 0, fmt.Errorf("%w: invalid exponent %q", ErrParse, text)
	}
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: exponent %s out of range", ErrParse, text)
		}
		return 0, fmt.Errorf("%w: invalid exponent %q", ErrParse, text)
	}
	return v, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is like Parse but panics on malformed input.
// It is meant for constants and tests.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", s, err))
	}
	return d
}
