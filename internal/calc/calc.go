// Package calc parses and evaluates arithmetic expressions over
// bignum.BigInt and decimal.Decimal.
//
// The grammar is
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/" | "%") unary }
//	unary  = ("-" | "+") unary | power
//	power  = atom [ "^" unary ]
//	atom   = number | ident "(" [ expr { "," expr } ] ")" | "(" expr ")"
//
// so "^" is right-associative and binds tighter than a leading minus:
// -2^2 is -4 and 2^-1 is a (rejected) negative power.
//
// Division by zero is reported as ErrDivByZero before the numeric core is
// called; the core itself treats it as a violated precondition.
package calc

import (
	"errors"
	"fmt"
	"strings"

	"ksnum/internal/decimal"
)

var (
	// ErrSyntax indicates malformed expression text.
	ErrSyntax = errors.New("syntax error")
	// ErrDivByZero indicates a zero divisor.
	ErrDivByZero = errors.New("division by zero")
	// ErrDomain indicates an operand outside an operator's domain, such as
	// a fractional exponent or a decimal literal in int mode.
	ErrDomain = errors.New("domain error")
	// ErrUnknownFunc indicates a call to an undefined function.
	ErrUnknownFunc = errors.New("unknown function")
	// ErrArity indicates a function called with the wrong argument count.
	ErrArity = errors.New("wrong number of arguments")
)

// Mode selects the number type expressions are evaluated in.
type Mode uint8

const (
	// ModeDecimal evaluates over decimal.Decimal.
	ModeDecimal Mode = iota
	// ModeInt evaluates over bignum.BigInt with truncating division.
	ModeInt
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeDecimal:
		return "decimal"
	case ModeInt:
		return "int"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "decimal", "dec":
		return ModeDecimal, nil
	case "int", "integer":
		return ModeInt, nil
	default:
		return ModeDecimal, fmt.Errorf("invalid mode: %q (expected: decimal|int)", s)
	}
}

const (
	// DefaultMaxPow bounds the exponent accepted by "^" when Options.MaxPow
	// is zero.
	DefaultMaxPow = 100_000
	// DefaultMaxDigits bounds the power of ten a decimal value may carry
	// when Options.MaxDigits is zero.
	DefaultMaxDigits = 100_000
	// MaxPrecision is the largest fractional digit count accepted for "/"
	// and for the n of div, rdiv, round and weq.
	MaxPrecision = 10_000
)

// Options controls evaluation.
type Options struct {
	Mode      Mode
	Precision int  // fractional digits of "/" in decimal mode
	Round     bool // round half away from zero instead of truncating
	MaxPow    int  // largest exponent accepted by "^"; 0 means DefaultMaxPow
	// MaxDigits bounds |exponent| of every decimal literal and result, and
	// the exponent gap between operands that must be aligned. Zero means
	// DefaultMaxDigits.
	MaxDigits int
}

// DefaultOptions returns decimal mode with ten truncated digits.
func DefaultOptions() Options {
	return Options{Mode: ModeDecimal, Precision: 10}
}

func (o Options) maxPow() int {
	if o.MaxPow <= 0 {
		return DefaultMaxPow
	}
	return o.MaxPow
}

func (o Options) maxDigits() int64 {
	if o.MaxDigits <= 0 {
		return DefaultMaxDigits
	}
	return int64(o.MaxDigits)
}

// CheckPrecision reports a precision outside [0, MaxPrecision].
func CheckPrecision(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", decimal.ErrNegativePrecision, n)
	}
	if n > MaxPrecision {
		return fmt.Errorf("%w: precision %d exceeds %d", ErrDomain, n, MaxPrecision)
	}
	return nil
}
