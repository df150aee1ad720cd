package bignum

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"
)

// magUint64 folds the magnitude into a uint64, reporting overflow.
func magUint64(limbs []uint32) (uint64, bool) {
	var v uint64
	for i := len(limbs) - 1; i >= 0; i-- {
		limb := uint64(limbs[i])
		if v > (math.MaxUint64-limb)/Base {
			return 0, false
		}
		v = v*Base + limb
	}
	return v, true
}

// Uint64 returns x as a uint64, or ErrRange if x is negative or too large.
func (x BigInt) Uint64() (uint64, error) {
	if x.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative value %s cannot be converted to uint64", ErrRange, x)
	}
	v, ok := magUint64(x.mag())
	if !ok {
		return 0, fmt.Errorf("%w: %s exceeds uint64", ErrRange, x)
	}
	return v, nil
}

// Int64 returns x as an int64, or ErrRange if it does not fit.
// math.MinInt64 converts even though its magnitude is not a valid int64.
func (x BigInt) Int64() (int64, error) {
	mag, ok := magUint64(x.mag())
	if !ok {
		return 0, fmt.Errorf("%w: %s exceeds int64", ErrRange, x)
	}
	if !x.neg {
		v, err := safecast.Conv[int64](mag)
		if err != nil {
			return 0, fmt.Errorf("%w: %s exceeds int64", ErrRange, x)
		}
		return v, nil
	}
	const minMag = uint64(math.MaxInt64) + 1
	switch {
	case mag > minMag:
		return 0, fmt.Errorf("%w: %s is below int64", ErrRange, x)
	case mag == minMag:
		return math.MinInt64, nil
	default:
		return -int64(mag), nil //nolint:gosec // G115: mag <= MaxInt64 here.
	}
}

// Float64 returns the nearest float64 to x. Magnitudes beyond the float64
// range become ±Inf. The conversion is lossy by nature.
func (x BigInt) Float64() float64 {
	f, err := strconv.ParseFloat(x.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// String always yields valid decimal digits.
		panic(err)
	}
	return f
}

// QuoFloat64 returns x / y as a float64. Both operands are converted first,
// so the result is best-effort. Unlike Quo, a zero divisor is reported as
// an error since the caller asked for a float.
func (x BigInt) QuoFloat64(y BigInt) (float64, error) {
	if y.IsZero() {
		return 0, ErrDivByZero
	}
	return x.Float64() / y.Float64(), nil
}
