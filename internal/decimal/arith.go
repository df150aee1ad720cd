package decimal

import (
	"fmt"
	"math"

	"ksnum/internal/bignum"
	"ksnum/internal/check"
)

// Add returns d + e.
func (d Decimal) Add(e Decimal) Decimal {
	common, am, bm := alignExponent(d, e)
	return mustNormalize("Decimal.Add", am.Add(bm), int64(common))
}

// Sub returns d - e.
func (d Decimal) Sub(e Decimal) Decimal {
	common, am, bm := alignExponent(d, e)
	return mustNormalize("Decimal.Sub", am.Sub(bm), int64(common))
}

// Mul returns d * e. Mantissas multiply and exponents add.
func (d Decimal) Mul(e Decimal) Decimal {
	return mustNormalize("Decimal.Mul", d.mant.Mul(e.mant), int64(d.exp)+int64(e.exp))
}

// Quo returns d / e truncated to DefaultPrecision fractional digits.
func (d Decimal) Quo(e Decimal) Decimal {
	return d.QuoPrec(e, DefaultPrecision)
}

// QuoPrec returns d / e truncated toward zero to n fractional digits.
// e must be nonzero and n must not be negative.
func (d Decimal) QuoPrec(e Decimal, n int) Decimal {
	check.That(!e.IsZero(), "Decimal.QuoPrec", "division by zero")
	check.That(n >= 0, "Decimal.QuoPrec", "negative precision")
	_, am, bm := alignExponent(d, e)
	q := am.MulPow10(n).Quo(bm)
	return mustNormalize("Decimal.QuoPrec", q, -int64(n))
}

// QuoRound returns d / e rounded half away from zero to n fractional
// digits. The quotient is taken to n+1 digits and the last digit decides;
// a carry may add a new integer digit (9.96 to one digit is 10).
func (d Decimal) QuoRound(e Decimal, n int) Decimal {
	check.That(!e.IsZero(), "Decimal.QuoRound", "division by zero")
	check.That(n >= 0, "Decimal.QuoRound", "negative precision")
	_, am, bm := alignExponent(d, e)
	q := am.MulPow10(n + 1).Quo(bm)
	kept, last := q.QuoRemUint32(10)
	if last >= 5 {
		if q.IsNeg() {
			kept = kept.Sub(bignum.One())
		} else {
			kept = kept.Add(bignum.One())
		}
	}
	return mustNormalize("Decimal.QuoRound", kept, -int64(n))
}

// Pow returns d^k. A negative k fails with ErrNegativeExponent; an exponent
// that leaves the int32 range fails with ErrExponentOverflow. 0^0 is 1.
func (d Decimal) Pow(k bignum.BigInt) (Decimal, error) {
	if k.Sign() < 0 {
		return Decimal{}, fmt.Errorf("%w: %s", ErrNegativeExponent, k)
	}

	// Check the scale before raising the mantissa: an exponent that cannot
	// be represented would otherwise cost a huge multiplication first.
	var exp int64
	if d.exp != 0 && !d.IsZero() {
		k64, err := k.Int64()
		if err != nil || k64 > math.MaxInt32 {
			return Decimal{}, fmt.Errorf("%w: 10^(%d*k) for a %d-digit k", ErrExponentOverflow, d.exp, k.Digits())
		}
		exp = int64(d.exp) * k64
		if exp < math.MinInt32 || exp > math.MaxInt32 {
			return Decimal{}, fmt.Errorf("%w: 10^%d", ErrExponentOverflow, exp)
		}
	}

	m, err := d.mant.Pow(k)
	check.That(err == nil, "Decimal.Pow", "mantissa power failed for a non-negative exponent")
	return normalize(m, exp)
}

// WeakEqual reports whether d and e agree in their integer parts and in
// the first n fractional digits, both truncated toward zero. A negative n
// never matches.
func (d Decimal) WeakEqual(e Decimal, n int) bool {
	if n < 0 {
		return false
	}
	di, ei := d.IntegerPart(), e.IntegerPart()
	if !di.Equal(ei) {
		return false
	}
	df := d.Sub(New(di))
	ef := e.Sub(New(ei))
	return truncScaled(df.mant, int64(df.exp)+int64(n)).Equal(truncScaled(ef.mant, int64(ef.exp)+int64(n)))
}

// AddInt returns d + x.
func (d Decimal) AddInt(x bignum.BigInt) Decimal { return d.Add(New(x)) }

// SubInt returns d - x.
func (d Decimal) SubInt(x bignum.BigInt) Decimal { return d.Sub(New(x)) }

// MulInt returns d * x.
func (d Decimal) MulInt(x bignum.BigInt) Decimal { return d.Mul(New(x)) }

// QuoInt returns d / x with DefaultPrecision fractional digits. x must be
// nonzero.
func (d Decimal) QuoInt(x bignum.BigInt) Decimal { return d.Quo(New(x)) }
