package bignum

import "fmt"

// Parse reads a decimal integer: an optional leading '-' followed by one
// or more ASCII digits. Leading zeros are accepted and dropped; "-0"
// parses to 0.
func Parse(s string) (BigInt, error) {
	if s == "" {
		return BigInt{}, fmt.Errorf("%w: empty string", ErrParse)
	}
	neg := false
	digits := s
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
		if digits == "" {
			return BigInt{}, fmt.Errorf("%w: missing digits after minus sign", ErrParse)
		}
	}

	start := 0
	for start < len(digits) && digits[start] == '0' {
		start++
	}
	digits = digits[start:]
	if digits == "" {
		return Zero(), nil
	}

	limbs, err := parseLimbs(digits)
	if err != nil {
		return BigInt{}, fmt.Errorf("%w: %q", err, s)
	}
	return newInt(neg, limbs), nil
}

// parseLimbs converts a run of decimal digits into limbs, consuming nine
// digits at a time from the right. The leftmost chunk may be shorter.
func parseLimbs(digits string) ([]uint32, error) {
	limbs := make([]uint32, 0, (len(digits)+DigitsPerLimb-1)/DigitsPerLimb)
	for end := len(digits); end > 0; end -= DigitsPerLimb {
		begin := max(end-DigitsPerLimb, 0)
		var limb uint32
		for i := begin; i < end; i++ {
			ch := digits[i]
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("%w: invalid digit %q", ErrParse, ch)
			}
			limb = limb*10 + uint32(ch-'0')
		}
		limbs = append(limbs, limb)
	}
	return limbs, nil
}

// MustParse is like Parse but panics on malformed input.
// It is meant for constants and tests.
func MustParse(s string) BigInt {
	x, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", s, err))
	}
	return x
}
