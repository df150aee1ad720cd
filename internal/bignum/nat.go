package bignum

import "ksnum/internal/check"

const (
	// Base is the limb radix. Every limb holds a value in [0, Base).
	Base = 1_000_000_000
	// DigitsPerLimb is the number of decimal digits a full limb carries.
	DigitsPerLimb = 9
)

// pow10Limb[i] == 10^i for i < DigitsPerLimb.
var pow10Limb = [DigitsPerLimb]uint32{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000}

// Magnitudes are little-endian limb slices (x[0] is least significant).
// A trimmed magnitude has no high zero limbs and is never empty: zero is [0].

// trimLimbs drops high zero limbs, keeping at least one limb.
func trimLimbs(x []uint32) []uint32 {
	for len(x) > 1 && x[len(x)-1] == 0 {
		x = x[:len(x)-1]
	}
	if len(x) == 0 {
		return []uint32{0}
	}
	return x
}

func isZeroLimbs(x []uint32) bool {
	x = trimLimbs(x)
	return len(x) == 1 && x[0] == 0
}

func cloneLimbs(x []uint32) []uint32 {
	out := make([]uint32, len(x))
	copy(out, x)
	return out
}

// cmpLimbs compares two trimmed magnitudes. Length decides first since
// neither side carries high zero limbs.
func cmpLimbs(a, b []uint32) int {
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// natAdd returns a + b.
func natAdd(a, b []uint32) []uint32 {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]uint32, len(a)+1)
	var carry uint64
	for i := range a {
		sum := uint64(a[i]) + carry
		if i < len(b) {
			sum += uint64(b[i])
		}
		out[i] = uint32(sum % Base) //nolint:gosec // G115: value < Base.
		carry = sum / Base
	}
	out[len(a)] = uint32(carry) //nolint:gosec // G115: carry is 0 or 1.
	return trimLimbs(out)
}

// natSub returns a - b. The caller guarantees a >= b.
func natSub(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow int64
	for i := range a {
		diff := int64(a[i]) - borrow
		if i < len(b) {
			diff -= int64(b[i])
		}
		if diff < 0 {
			diff += Base
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint32(diff) //nolint:gosec // G115: 0 <= diff < Base.
	}
	check.That(borrow == 0, "bignum.natSub", "minuend is smaller than subtrahend")
	return trimLimbs(out)
}

// natMul returns a * b (schoolbook).
func natMul(a, b []uint32) []uint32 {
	if isZeroLimbs(a) || isZeroLimbs(b) {
		return []uint32{0}
	}
	out := make([]uint32, len(a)+len(b))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			// (Base-1)^2 + 2*(Base-1) < 2^64
			cur := uint64(out[i+j]) + uint64(ai)*uint64(bj) + carry
			out[i+j] = uint32(cur % Base) //nolint:gosec // G115: value < Base.
			carry = cur / Base
		}
		for k := i + len(b); carry != 0; k++ {
			cur := uint64(out[k]) + carry
			out[k] = uint32(cur % Base) //nolint:gosec // G115: value < Base.
			carry = cur / Base
		}
	}
	return trimLimbs(out)
}

// natMulSmall returns x * m for a single-word multiplier.
func natMulSmall(x []uint32, m uint32) []uint32 {
	if m == 0 || isZeroLimbs(x) {
		return []uint32{0}
	}
	out := make([]uint32, len(x), len(x)+2)
	var carry uint64
	for i := range x {
		cur := uint64(x[i])*uint64(m) + carry
		out[i] = uint32(cur % Base) //nolint:gosec // G115: value < Base.
		carry = cur / Base
	}
	for carry != 0 {
		out = append(out, uint32(carry%Base)) //nolint:gosec // G115: value < Base.
		carry /= Base
	}
	return trimLimbs(out)
}

// natDivModSmall returns x / d and x % d for a nonzero single-word divisor.
func natDivModSmall(x []uint32, d uint32) ([]uint32, uint32) {
	check.That(d != 0, "bignum.natDivModSmall", "division by zero")
	out := make([]uint32, len(x))
	var rem uint64
	for i := len(x) - 1; i >= 0; i-- {
		// rem < d <= 2^32-1, so rem*Base + limb stays below 2^63.
		cur := rem*Base + uint64(x[i])
		out[i] = uint32(cur / uint64(d)) //nolint:gosec // G115: quotient digit < Base.
		rem = cur % uint64(d)
	}
	return trimLimbs(out), uint32(rem) //nolint:gosec // G115: rem < d.
}

// natPow10 returns 10^n. Limbs are decimal-aligned, so this is a single
// nonzero limb preceded by n/9 zero limbs.
func natPow10(n int) []uint32 {
	out := make([]uint32, n/DigitsPerLimb+1)
	out[len(out)-1] = pow10Limb[n%DigitsPerLimb]
	return out
}
