package calc

import (
	"fmt"
	"sort"

	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
)

type builtin struct {
	arity int
	help  string
	fn    func(e *evaluator, args []Value) (Value, error)
}

var builtins = map[string]builtin{
	"abs": {1, "abs(x): absolute value", func(_ *evaluator, a []Value) (Value, error) {
		if a[0].Mode == ModeInt {
			return IntValue(a[0].Int.Abs()), nil
		}
		return DecValue(a[0].Dec.Abs()), nil
	}},
	"trunc": {1, "trunc(x): integer part, truncated toward zero", func(_ *evaluator, a []Value) (Value, error) {
		if a[0].Mode == ModeInt {
			return a[0], nil
		}
		return DecValue(decimal.New(a[0].Dec.IntegerPart())), nil
	}},
	"weq": {3, "weq(a, b, n): 1 if a and b agree to n fractional digits, else 0", func(e *evaluator, a []Value) (Value, error) {
		n, err := smallInt(a[2], "digit count", MaxPrecision)
		if err != nil {
			return Value{}, err
		}
		return e.boolean(a[0].Decimal().WeakEqual(a[1].Decimal(), n)), nil
	}},
	"div": {3, "div(a, b, n): a / b truncated to n fractional digits", func(e *evaluator, a []Value) (Value, error) {
		return e.divDigits(a, false)
	}},
	"rdiv": {3, "rdiv(a, b, n): a / b rounded half away from zero to n fractional digits", func(e *evaluator, a []Value) (Value, error) {
		return e.divDigits(a, true)
	}},
	"round": {2, "round(x, n): x rounded half away from zero to n fractional digits", func(e *evaluator, a []Value) (Value, error) {
		one := Value{Mode: a[0].Mode, Int: bignum.One(), Dec: decimal.FromInt64(1)}
		return e.divDigits([]Value{a[0], one, a[1]}, true)
	}},
	"sign": {1, "sign(x): -1, 0 or 1", func(e *evaluator, a []Value) (Value, error) {
		s := int64(a[0].Decimal().Sign())
		if e.opts.Mode == ModeInt {
			return IntValue(bignum.FromInt64(s)), nil
		}
		return DecValue(decimal.FromInt64(s)), nil
	}},
}

// Functions lists the builtin signatures, sorted by name.
func Functions() []string {
	out := make([]string, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b.help)
	}
	sort.Strings(out)
	return out
}

func (e *evaluator) call(n *Call) (Value, error) {
	b, ok := builtins[n.Name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s (offset %d)", ErrUnknownFunc, n.Name, n.At)
	}
	if len(n.Args) != b.arity {
		return Value{}, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, n.Name, b.arity, len(n.Args))
	}
	args := make([]Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := e.eval(arg)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return b.fn(e, args)
}

func (e *evaluator) boolean(ok bool) Value {
	var v int64
	if ok {
		v = 1
	}
	if e.opts.Mode == ModeInt {
		return IntValue(bignum.FromInt64(v))
	}
	return DecValue(decimal.FromInt64(v))
}

// divDigits needs decimal mode since its point is the fractional digits.
func (e *evaluator) divDigits(a []Value, round bool) (Value, error) {
	if e.opts.Mode == ModeInt {
		return Value{}, fmt.Errorf("%w: fractional digits need decimal mode", ErrDomain)
	}
	n, err := smallInt(a[2], "digit count", MaxPrecision)
	if err != nil {
		return Value{}, err
	}
	x, y := a[0].Decimal(), a[1].Decimal()
	if y.IsZero() {
		return Value{}, ErrDivByZero
	}
	if err := e.aligned(x, y); err != nil {
		return Value{}, err
	}
	if round {
		return DecValue(x.QuoRound(y, n)), nil
	}
	return DecValue(x.QuoPrec(y, n)), nil
}
