// Package decimal implements arbitrary-precision decimal numbers on top of
// bignum.BigInt.
//
// A Decimal is the pair (mantissa, exponent) with value mantissa × 10^exponent.
// Every Decimal handed out by this package is normalized: the mantissa carries
// no trailing decimal zeros and a zero mantissa always has exponent 0, so each
// value has exactly one representation. Equal values therefore have equal
// pairs, equal strings and equal hashes.
package decimal

import (
	"errors"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"ksnum/internal/bignum"
	"ksnum/internal/check"
)

// DefaultPrecision is the number of fractional digits produced by Quo.
const DefaultPrecision = 10

var (
	// ErrParse indicates malformed decimal text.
	ErrParse = errors.New("invalid decimal format")
	// ErrNegativeExponent indicates a negative power.
	ErrNegativeExponent = errors.New("exponent cannot be negative")
	// ErrExponentOverflow indicates a result whose decimal exponent does not
	// fit in an int32.
	ErrExponentOverflow = errors.New("decimal exponent overflow")
	// ErrNegativePrecision indicates a negative fractional digit count.
	// Callers taking precision from user input validate against it before
	// calling QuoPrec or QuoRound, which treat a negative count as a
	// violated precondition.
	ErrNegativePrecision = errors.New("precision cannot be negative")
)

// Decimal is an immutable arbitrary-precision decimal. The zero value is 0.
type Decimal struct {
	mant bignum.BigInt
	exp  int32
}

// normalize strips trailing zeros from m into the exponent and narrows
// the exponent to int32.
func normalize(m bignum.BigInt, exp int64) (Decimal, error) {
	if m.IsZero() {
		return Decimal{mant: bignum.Zero()}, nil
	}
	m, zeros := m.StripZeros()
	exp += int64(zeros)
	e, err := safecast.Conv[int32](exp)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: 10^%d", ErrExponentOverflow, exp)
	}
	return Decimal{mant: m, exp: e}, nil
}

// mustNormalize is normalize for operations whose signature has no error
// result. An exponent outside int32 there is a violated precondition.
func mustNormalize(op string, m bignum.BigInt, exp int64) Decimal {
	d, err := normalize(m, exp)
	if err != nil {
		check.Fail(op, err.Error())
	}
	return d
}

// New returns m as a Decimal with exponent 0, normalized.
func New(m bignum.BigInt) Decimal {
	return mustNormalize("decimal.New", m, 0)
}

// NewScaled returns m × 10^exp, normalized. It fails only if normalization
// pushes the exponent past math.MaxInt32.
func NewScaled(m bignum.BigInt, exp int32) (Decimal, error) {
	return normalize(m, int64(exp))
}

// FromInt64 returns v as a Decimal.
func FromInt64(v int64) Decimal { return New(bignum.FromInt64(v)) }

// FromUint64 returns v as a Decimal.
func FromUint64(v uint64) Decimal { return New(bignum.FromUint64(v)) }

// Zero returns 0.
func Zero() Decimal { return Decimal{mant: bignum.Zero()} }

// Mantissa returns the normalized mantissa.
func (d Decimal) Mantissa() bignum.BigInt { return d.mant }

// Exponent returns the normalized exponent.
func (d Decimal) Exponent() int32 { return d.exp }

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool { return d.mant.IsZero() }

// IsNeg reports whether d < 0.
func (d Decimal) IsNeg() bool { return d.mant.IsNeg() }

// Sign returns -1, 0 or 1.
func (d Decimal) Sign() int { return d.mant.Sign() }

// Abs returns |d|.
func (d Decimal) Abs() Decimal { return Decimal{mant: d.mant.Abs(), exp: d.exp} }

// Neg returns -d.
func (d Decimal) Neg() Decimal { return Decimal{mant: d.mant.Neg(), exp: d.exp} }

// IsInteger reports whether d has no fractional part.
func (d Decimal) IsInteger() bool { return d.exp >= 0 || d.IsZero() }

// IntegerPart returns d truncated toward zero, so IntegerPart(-0.789) == 0.
func (d Decimal) IntegerPart() bignum.BigInt {
	return truncScaled(d.mant, int64(d.exp))
}

// truncScaled returns m × 10^exp truncated toward zero.
func truncScaled(m bignum.BigInt, exp int64) bignum.BigInt {
	if exp >= 0 {
		return m.MulPow10(int(exp))
	}
	// Past the mantissa's digit count the quotient is zero.
	if -exp > int64(m.Len()*bignum.DigitsPerLimb) {
		return bignum.Zero()
	}
	return m.Quo(bignum.Pow10(int(-exp)))
}

// alignExponent rescales both mantissas to the smaller of the two
// exponents and returns that common exponent.
func alignExponent(a, b Decimal) (common int32, am, bm bignum.BigInt) {
	common = min(a.exp, b.exp)
	am = a.mant.MulPow10(int(int64(a.exp) - int64(common)))
	bm = b.mant.MulPow10(int(int64(b.exp) - int64(common)))
	return common, am, bm
}

// Cmp returns -1, 0 or 1 as d is less than, equal to or greater than e.
func (d Decimal) Cmp(e Decimal) int {
	if d.exp == e.exp {
		return d.mant.Cmp(e.mant)
	}
	ds, es := d.Sign(), e.Sign()
	if ds != es {
		if ds < es {
			return -1
		}
		return 1
	}
	// Same nonzero sign: the position of the leading digit decides unless
	// it ties, and only a tie pays for aligning the mantissas.
	if da, ea := d.adjusted(), e.adjusted(); da != ea {
		if da < ea {
			return -ds
		}
		return ds
	}
	_, am, bm := alignExponent(d, e)
	return am.Cmp(bm)
}

// adjusted is the exponent of d's leading digit plus one, so 1e5 and 9.5e5
// both give 6.
func (d Decimal) adjusted() int64 {
	return int64(d.exp) + int64(d.mant.Digits())
}

// Equal reports whether d and e denote the same value.
func (d Decimal) Equal(e Decimal) bool {
	return d.Cmp(e) == 0
}

// Float64 returns the nearest float64 to d. Like bignum.BigInt.Float64 it
// is lossy and saturates to ±Inf.
func (d Decimal) Float64() float64 {
	f, err := strconv.ParseFloat(d.mant.String()+"e"+strconv.Itoa(int(d.exp)), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic(err)
	}
	return f
}
