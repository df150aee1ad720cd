package decimal

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/vmihailenco/msgpack/v5"

	"ksnum/internal/bignum"
)

// EncodeMsgpack writes d as the array [mantissa, exponent].
func (d Decimal) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.Encode(d.mant); err != nil {
		return err
	}
	return enc.EncodeInt32(d.exp)
}

// DecodeMsgpack reads the layout written by EncodeMsgpack and normalizes
// the result, so hand-built payloads still yield canonical values.
func (d *Decimal) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("%w: msgpack array of length %d", ErrParse, n)
	}
	var m bignum.BigInt
	if err := dec.Decode(&m); err != nil {
		return err
	}
	exp, err := dec.DecodeInt32()
	if err != nil {
		return err
	}
	v, err := normalize(m, int64(exp))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	*d = v
	return nil
}

// Hash returns a 64-bit FNV-1a digest of the canonical (mantissa, exponent)
// pair. Equal values hash equally.
func (d Decimal) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	if d.mant.IsNeg() {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	binary.LittleEndian.PutUint32(buf[:], uint32(d.exp)) //nolint:gosec // G115: bit pattern only.
	h.Write(buf[:])
	for i := range d.mant.Len() {
		binary.LittleEndian.PutUint32(buf[:], d.mant.Limb(i))
		h.Write(buf[:])
	}
	return h.Sum64()
}
