package bignum

import "strconv"

// String formats x in base 10: the top limb unpadded, every lower limb
// zero-padded to nine digits, and a leading '-' for negative values.
func (x BigInt) String() string {
	m := x.mag()
	buf := make([]byte, 0, len(m)*DigitsPerLimb+1)
	if x.neg && !x.IsZero() {
		buf = append(buf, '-')
	}
	return string(appendLimbs(buf, m))
}

// AbsString formats |x|.
func (x BigInt) AbsString() string {
	m := x.mag()
	return string(appendLimbs(make([]byte, 0, len(m)*DigitsPerLimb), m))
}

func appendLimbs(buf []byte, m []uint32) []byte {
	top := len(m) - 1
	buf = strconv.AppendUint(buf, uint64(m[top]), 10)
	var limb [DigitsPerLimb]byte
	for i := top - 1; i >= 0; i-- {
		v := m[i]
		for j := DigitsPerLimb - 1; j >= 0; j-- {
			limb[j] = byte('0' + v%10)
			v /= 10
		}
		buf = append(buf, limb[:]...)
	}
	return buf
}

// MarshalText implements encoding.TextMarshaler.
func (x BigInt) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *BigInt) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}
