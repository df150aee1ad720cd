// Package testkit holds structural checks shared by the numeric tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
)

// CheckIntInvariants verifies the canonical form of x:
// 1) the magnitude has at least one limb and every limb is below bignum.Base
// 2) there is no high zero limb unless the value is zero
// 3) zero is never negative
// 4) the decimal rendering has digits-per-limb consistent with the limb count
func CheckIntInvariants(x bignum.BigInt) error {
	n := x.Len()
	if n == 0 {
		return fmt.Errorf("empty magnitude")
	}
	for i := range n {
		if limb := x.Limb(i); limb >= bignum.Base {
			return fmt.Errorf("limb %d out of range: %d", i, limb)
		}
	}
	if n > 1 && x.Limb(n-1) == 0 {
		return fmt.Errorf("high zero limb in %d-limb magnitude", n)
	}
	if x.IsZero() && x.IsNeg() {
		return fmt.Errorf("negative zero")
	}

	digits, err := safecast.Conv[uint32](len(x.AbsString()))
	if err != nil {
		return fmt.Errorf("digit count overflow: %w", err)
	}
	limbs, err := safecast.Conv[uint32](n)
	if err != nil {
		return fmt.Errorf("limb count overflow: %w", err)
	}
	if digits > limbs*bignum.DigitsPerLimb || digits <= (limbs-1)*bignum.DigitsPerLimb {
		return fmt.Errorf("%d digits do not fit %d limbs", digits, limbs)
	}
	return nil
}

// CheckDecimalInvariants verifies that d is normalized:
// 1) its mantissa is a canonical BigInt
// 2) a zero mantissa has exponent 0
// 3) a nonzero mantissa is not divisible by 10
func CheckDecimalInvariants(d decimal.Decimal) error {
	m := d.Mantissa()
	if err := CheckIntInvariants(m); err != nil {
		return fmt.Errorf("mantissa: %w", err)
	}
	if m.IsZero() {
		if d.Exponent() != 0 {
			return fmt.Errorf("zero with exponent %d", d.Exponent())
		}
		return nil
	}
	if _, r := m.QuoRemUint32(10); r == 0 {
		return fmt.Errorf("mantissa %s has a trailing zero", m)
	}
	return nil
}
