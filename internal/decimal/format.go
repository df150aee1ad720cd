package decimal

import "strings"

// String formats d in plain positional notation with no exponent, no
// trailing fractional zeros and no trailing point: "0.001", "-1.25", "400".
func (d Decimal) String() string {
	if d.IsZero() {
		return "0"
	}
	digits := d.mant.AbsString()

	var sb strings.Builder
	if d.mant.IsNeg() {
		sb.WriteByte('-')
	}
	if d.exp >= 0 {
		sb.Grow(len(digits) + int(d.exp))
		sb.WriteString(digits)
		for range d.exp {
			sb.WriteByte('0')
		}
		return sb.String()
	}

	shift := -int(d.exp)
	var intPart, fracPart string
	if shift >= len(digits) {
		intPart = "0"
		fracPart = strings.Repeat("0", shift-len(digits)) + digits
	} else {
		intPart = digits[:len(digits)-shift]
		fracPart = digits[len(digits)-shift:]
	}
	fracPart = strings.TrimRight(fracPart, "0")

	sb.WriteString(intPart)
	if fracPart != "" {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
