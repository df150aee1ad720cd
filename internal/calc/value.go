package calc

import (
	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
)

// Value is an evaluation result. Exactly one of Int and Dec is meaningful,
// chosen by Mode.
type Value struct {
	Mode Mode
	Int  bignum.BigInt
	Dec  decimal.Decimal
}

// IntValue wraps x.
func IntValue(x bignum.BigInt) Value { return Value{Mode: ModeInt, Int: x} }

// DecValue wraps d.
func DecValue(d decimal.Decimal) Value { return Value{Mode: ModeDecimal, Dec: d} }

// String formats the value canonically.
func (v Value) String() string {
	if v.Mode == ModeInt {
		return v.Int.String()
	}
	return v.Dec.String()
}

// IsZero reports whether the value is 0.
func (v Value) IsZero() bool {
	if v.Mode == ModeInt {
		return v.Int.IsZero()
	}
	return v.Dec.IsZero()
}

// Sign returns -1, 0 or 1.
func (v Value) Sign() int {
	if v.Mode == ModeInt {
		return v.Int.Sign()
	}
	return v.Dec.Sign()
}

// Decimal returns the value as a Decimal in either mode.
func (v Value) Decimal() decimal.Decimal {
	if v.Mode == ModeInt {
		return decimal.New(v.Int)
	}
	return v.Dec
}

// Equal reports whether v and w denote the same number.
func (v Value) Equal(w Value) bool {
	if v.Mode == ModeInt && w.Mode == ModeInt {
		return v.Int.Equal(w.Int)
	}
	return v.Decimal().Equal(w.Decimal())
}
