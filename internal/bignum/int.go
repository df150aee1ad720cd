package bignum

import (
	"errors"
	"fmt"

	"ksnum/internal/check"
)

var (
	// ErrParse indicates malformed integer text.
	ErrParse = errors.New("invalid integer format")
	// ErrNegativeExponent indicates a negative exponent passed to Pow.
	ErrNegativeExponent = errors.New("exponent cannot be negative")
	// ErrRange indicates a value outside the range of a fixed-width type.
	ErrRange = errors.New("value out of range")
	// ErrDivByZero is returned by the float helpers, which report a zero
	// divisor instead of aborting.
	ErrDivByZero = errors.New("division by zero")
)

// BigInt is an arbitrary-precision signed integer in sign-magnitude form.
//
// The magnitude is stored in base-10^9 limbs, least significant first. A
// BigInt is immutable: every operation returns a fresh value and never
// writes to the limbs of its operands. The zero value is 0.
type BigInt struct {
	neg   bool
	limbs []uint32
}

// newInt builds a canonical BigInt, dropping the sign of zero.
func newInt(neg bool, limbs []uint32) BigInt {
	limbs = trimLimbs(limbs)
	if len(limbs) == 1 && limbs[0] == 0 {
		neg = false
	}
	return BigInt{neg: neg, limbs: limbs}
}

// mag returns the magnitude, mapping the zero value to [0].
func (x BigInt) mag() []uint32 {
	if len(x.limbs) == 0 {
		return []uint32{0}
	}
	return x.limbs
}

// Zero returns 0.
func Zero() BigInt { return BigInt{limbs: []uint32{0}} }

// One returns 1.
func One() BigInt { return BigInt{limbs: []uint32{1}} }

// FromUint64 returns v as a BigInt.
func FromUint64(v uint64) BigInt {
	if v == 0 {
		return Zero()
	}
	limbs := make([]uint32, 0, 3)
	for v > 0 {
		limbs = append(limbs, uint32(v%Base)) //nolint:gosec // G115: value < Base.
		v /= Base
	}
	return BigInt{limbs: limbs}
}

// FromInt64 returns v as a BigInt. math.MinInt64 is handled exactly.
func FromInt64(v int64) BigInt {
	if v >= 0 {
		return FromUint64(uint64(v))
	}
	// -(v+1) cannot overflow; add the one back in unsigned space.
	u := uint64(-(v + 1)) + 1
	return newInt(true, FromUint64(u).limbs)
}

// Pow10 returns 10^n for n >= 0.
func Pow10(n int) BigInt {
	check.That(n >= 0, "bignum.Pow10", "negative power of ten")
	return BigInt{limbs: natPow10(n)}
}

// IsZero reports whether x == 0.
func (x BigInt) IsZero() bool {
	return isZeroLimbs(x.limbs)
}

// IsNeg reports whether x < 0.
func (x BigInt) IsNeg() bool { return x.neg }

// Sign returns -1, 0 or 1.
func (x BigInt) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsOdd reports whether x is odd. Base is even, so the low limb decides.
func (x BigInt) IsOdd() bool {
	return x.mag()[0]&1 == 1
}

// Len returns the number of limbs in the magnitude.
func (x BigInt) Len() int { return len(x.mag()) }

// Limb returns limb i of the magnitude (0 is least significant), or 0
// past the top.
func (x BigInt) Limb(i int) uint32 {
	m := x.mag()
	if i < 0 || i >= len(m) {
		return 0
	}
	return m[i]
}

// Digits returns the number of decimal digits of |x|. Zero has one digit.
func (x BigInt) Digits() int {
	m := x.mag()
	n := (len(m) - 1) * DigitsPerLimb
	top := m[len(m)-1]
	for n++; top >= 10; n++ {
		top /= 10
	}
	return n
}

// StripZeros removes the trailing decimal zeros of x and reports how many
// were removed. Whole zero limbs are dropped without dividing. Zero is
// returned as is with a count of 0.
func (x BigInt) StripZeros() (BigInt, int) {
	if x.IsZero() {
		return x, 0
	}
	m := x.mag()
	i := 0
	for m[i] == 0 {
		i++
	}
	out, n := BigInt{neg: x.neg, limbs: m[i:]}, i*DigitsPerLimb
	for {
		q, r := out.QuoRemUint32(10)
		if r != 0 {
			return out, n
		}
		out = q
		n++
	}
}

// Abs returns |x|.
func (x BigInt) Abs() BigInt {
	return BigInt{limbs: x.mag()}
}

// Neg returns -x.
func (x BigInt) Neg() BigInt {
	return newInt(!x.neg, x.mag())
}

// CmpAbs compares |x| and |y|.
func (x BigInt) CmpAbs(y BigInt) int {
	return cmpLimbs(x.mag(), y.mag())
}

// Cmp returns -1, 0 or 1 as x is less than, equal to or greater than y.
func (x BigInt) Cmp(y BigInt) int {
	xs, ys := x.Sign(), y.Sign()
	switch {
	case xs < ys:
		return -1
	case xs > ys:
		return 1
	case xs < 0:
		return -cmpLimbs(x.mag(), y.mag())
	default:
		return cmpLimbs(x.mag(), y.mag())
	}
}

// Equal reports whether x == y.
func (x BigInt) Equal(y BigInt) bool { return x.Cmp(y) == 0 }

// Add returns x + y.
func (x BigInt) Add(y BigInt) BigInt {
	xm, ym := x.mag(), y.mag()
	if x.neg == y.neg {
		return newInt(x.neg, natAdd(xm, ym))
	}
	// Opposite signs: the larger magnitude decides the sign.
	if cmpLimbs(xm, ym) >= 0 {
		return newInt(x.neg, natSub(xm, ym))
	}
	return newInt(y.neg, natSub(ym, xm))
}

// Sub returns x - y.
func (x BigInt) Sub(y BigInt) BigInt {
	return x.Add(y.Neg())
}

// Mul returns x * y.
func (x BigInt) Mul(y BigInt) BigInt {
	return newInt(x.neg != y.neg, natMul(x.mag(), y.mag()))
}

// QuoRem returns the quotient truncated toward zero and the remainder
// r = x - y*q. The remainder carries the sign of x. y must be nonzero;
// a zero divisor aborts with a check violation.
func (x BigInt) QuoRem(y BigInt) (q, r BigInt) {
	check.That(!y.IsZero(), "BigInt.QuoRem", "division by zero")
	qm, rm := natDivMod(x.mag(), y.mag())
	return newInt(x.neg != y.neg, qm), newInt(x.neg, rm)
}

// Quo returns x / y truncated toward zero. y must be nonzero.
func (x BigInt) Quo(y BigInt) BigInt {
	check.That(!y.IsZero(), "BigInt.Quo", "division by zero")
	q, _ := x.QuoRem(y)
	return q
}

// Rem returns x % y with the sign of x, so -7 % 2 == -1. y must be nonzero.
func (x BigInt) Rem(y BigInt) BigInt {
	check.That(!y.IsZero(), "BigInt.Rem", "modulo by zero")
	_, r := x.QuoRem(y)
	return r
}

// QuoRemUint32 divides x by a nonzero single word. The remainder is the
// remainder of |x|.
func (x BigInt) QuoRemUint32(d uint32) (BigInt, uint32) {
	check.That(d != 0, "BigInt.QuoRemUint32", "division by zero")
	q, r := natDivModSmall(x.mag(), d)
	return newInt(x.neg, q), r
}

// MulPow10 returns x * 10^n for n >= 0.
func (x BigInt) MulPow10(n int) BigInt {
	check.That(n >= 0, "BigInt.MulPow10", "negative power of ten")
	if n == 0 || x.IsZero() {
		return x
	}
	return newInt(x.neg, natMul(x.mag(), natPow10(n)))
}

// Pow returns x^e by binary exponentiation. A negative e fails with
// ErrNegativeExponent. 0^0 is 1.
func (x BigInt) Pow(e BigInt) (BigInt, error) {
	if e.Sign() < 0 {
		return BigInt{}, fmt.Errorf("%w: %s", ErrNegativeExponent, e)
	}
	result := []uint32{1}
	base := x.mag()
	exp := e.mag()
	for !isZeroLimbs(exp) {
		var bit uint32
		exp, bit = natDivModSmall(exp, 2)
		if bit == 1 {
			result = natMul(result, base)
		}
		if !isZeroLimbs(exp) {
			base = natMul(base, base)
		}
	}
	return newInt(x.neg && e.IsOdd(), result), nil
}
