package bignum

import "ksnum/internal/check"

// natDivMod returns the quotient and remainder of u / v for trimmed
// magnitudes. It follows Knuth, TAOCP Vol. 2, 4.3.1, Algorithm D in
// radix Base. v must be nonzero.
func natDivMod(u, v []uint32) (q, r []uint32) {
	check.That(!isZeroLimbs(v), "bignum.natDivMod", "division by zero")

	if cmpLimbs(u, v) < 0 {
		return []uint32{0}, cloneLimbs(u)
	}
	if len(v) == 1 {
		quo, rem := natDivModSmall(u, v[0])
		return quo, []uint32{rem}
	}

	n := len(v)
	m := len(u) - n

	// D1. Scale both operands so the top divisor limb is >= Base/2. The
	// trial quotient below is then at most 2 too large.
	d := uint32(Base / (uint64(v[n-1]) + 1)) //nolint:gosec // G115: 1 <= d <= Base/2.
	vn := scaleLimbs(v, d, n)
	un := scaleLimbs(u, d, len(u)+1)

	vTop := uint64(vn[n-1])
	vNext := uint64(vn[n-2])
	quot := make([]uint32, m+1)

	for j := m; j >= 0; j-- {
		// D3. Trial digit from the top two limbs of the window.
		num := uint64(un[j+n])*Base + uint64(un[j+n-1])
		qhat := num / vTop
		rhat := num % vTop
		if qhat >= Base {
			qhat = Base - 1
			rhat = num - qhat*vTop
		}
		for rhat < Base && qhat*vNext > rhat*Base+uint64(un[j+n-2]) {
			qhat--
			rhat += vTop
		}

		// D4. Multiply and subtract qhat*v from the window un[j : j+n+1].
		if subMulLimbs(un[j:j+n+1], vn, qhat) {
			// D6. qhat was one too large; add v back once.
			qhat--
			addBackLimbs(un[j:j+n+1], vn)
		}
		quot[j] = uint32(qhat) //nolint:gosec // G115: qhat < Base.
	}

	// D8. The remainder is the low n limbs of un, still scaled by d.
	rem, carry := natDivModSmall(trimLimbs(cloneLimbs(un[:n])), d)
	check.That(carry == 0, "bignum.natDivMod", "unnormalized remainder is not a multiple of the scale factor")
	return trimLimbs(quot), rem
}

// scaleLimbs returns x * d written into exactly size limbs.
func scaleLimbs(x []uint32, d uint32, size int) []uint32 {
	out := make([]uint32, size)
	var carry uint64
	for i := range x {
		cur := uint64(x[i])*uint64(d) + carry
		out[i] = uint32(cur % Base) //nolint:gosec // G115: value < Base.
		carry = cur / Base
	}
	if len(x) < size {
		out[len(x)] = uint32(carry) //nolint:gosec // G115: carry < Base.
		carry = 0
	}
	check.That(carry == 0, "bignum.scaleLimbs", "scaled value does not fit")
	return out
}

// subMulLimbs computes w -= v*q over len(v)+1 limbs, modulo Base^len(w).
// It reports whether the subtraction went below zero.
func subMulLimbs(w, v []uint32, q uint64) bool {
	var carry uint64
	var borrow int64
	for i := range v {
		p := q*uint64(v[i]) + carry
		carry = p / Base
		diff := int64(w[i]) - int64(p%Base) - borrow //nolint:gosec // G115: operands < Base.
		if diff < 0 {
			diff += Base
			borrow = 1
		} else {
			borrow = 0
		}
		w[i] = uint32(diff) //nolint:gosec // G115: 0 <= diff < Base.
	}
	top := len(v)
	diff := int64(w[top]) - int64(carry) - borrow //nolint:gosec // G115: carry < Base.
	if diff < 0 {
		w[top] = uint32(diff + Base) //nolint:gosec // G115: -Base <= diff < 0.
		return true
	}
	w[top] = uint32(diff) //nolint:gosec // G115: 0 <= diff < Base.
	return false
}

// addBackLimbs computes w += v over len(v)+1 limbs, discarding the final
// carry (it cancels the borrow left by subMulLimbs).
func addBackLimbs(w, v []uint32) {
	var carry uint64
	for i := range v {
		sum := uint64(w[i]) + uint64(v[i]) + carry
		w[i] = uint32(sum % Base) //nolint:gosec // G115: value < Base.
		carry = sum / Base
	}
	top := len(v)
	w[top] = uint32((uint64(w[top]) + carry) % Base) //nolint:gosec // G115: value < Base.
}
