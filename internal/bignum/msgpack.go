package bignum

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgpack writes x as the array [neg, limb0, limb1, ...] with limbs
// least significant first.
func (x BigInt) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := x.mag()
	if err := enc.EncodeArrayLen(len(m) + 1); err != nil {
		return err
	}
	if err := enc.EncodeBool(x.neg && !x.IsZero()); err != nil {
		return err
	}
	for _, limb := range m {
		if err := enc.EncodeUint32(limb); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads the layout written by EncodeMsgpack. Out-of-range
// limbs are rejected; high zero limbs and negative zero are canonicalized.
func (x *BigInt) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 2 {
		return fmt.Errorf("%w: msgpack array of length %d", ErrParse, n)
	}
	neg, err := dec.DecodeBool()
	if err != nil {
		return err
	}
	limbs := make([]uint32, n-1)
	for i := range limbs {
		v, err := dec.DecodeUint32()
		if err != nil {
			return err
		}
		if v >= Base {
			return fmt.Errorf("%w: limb %d out of range: %d", ErrParse, i, v)
		}
		limbs[i] = v
	}
	*x = newInt(neg, limbs)
	return nil
}
