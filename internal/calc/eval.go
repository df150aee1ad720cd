package calc

import (
	"context"
	"fmt"

	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
	"ksnum/internal/trace"
)

// Eval parses and evaluates src under opts.
func Eval(ctx context.Context, src string, opts Options) (Value, error) {
	if err := CheckPrecision(opts.Precision); err != nil {
		return Value{}, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeExpr, "eval")
	span.WithExtra("mode", opts.Mode.String())

	n, err := Parse(src)
	if err != nil {
		span.End("parse error")
		return Value{}, err
	}
	v, err := EvalNode(ctx, n, opts)
	if err != nil {
		span.End(err.Error())
		return Value{}, err
	}
	span.End(v.String())
	return v, nil
}

// EvalNode evaluates a parsed tree.
func EvalNode(ctx context.Context, n Node, opts Options) (Value, error) {
	e := &evaluator{ctx: ctx, opts: opts, tracer: trace.FromContext(ctx), parent: trace.ParentID(ctx)}
	return e.eval(n)
}

type evaluator struct {
	ctx    context.Context
	opts   Options
	tracer trace.Tracer
	parent uint64
}

func (e *evaluator) eval(n Node) (Value, error) {
	if err := e.ctx.Err(); err != nil {
		return Value{}, err
	}
	switch n := n.(type) {
	case *Num:
		return e.literal(n)
	case *Unary:
		x, err := e.eval(n.X)
		if err != nil {
			return Value{}, err
		}
		if n.Op == TokPlus {
			return x, nil
		}
		if x.Mode == ModeInt {
			return IntValue(x.Int.Neg()), nil
		}
		return DecValue(x.Dec.Neg()), nil
	case *Binary:
		l, err := e.eval(n.L)
		if err != nil {
			return Value{}, err
		}
		r, err := e.eval(n.R)
		if err != nil {
			return Value{}, err
		}
		span := trace.Begin(e.tracer, trace.ScopeOp, "op:"+opText(n.Op), e.parent)
		v, err := e.binary(n, l, r)
		if err == nil {
			err = e.bounded(v, n.At)
		}
		if err != nil {
			span.End(err.Error())
			return Value{}, err
		}
		span.End("")
		return v, nil
	case *Call:
		v, err := e.call(n)
		if err == nil {
			err = e.bounded(v, n.At)
		}
		if err != nil {
			return Value{}, err
		}
		return v, nil
	default:
		return Value{}, fmt.Errorf("%w: unknown node %T", ErrSyntax, n)
	}
}

func (e *evaluator) literal(n *Num) (Value, error) {
	if e.opts.Mode == ModeInt {
		x, err := bignum.Parse(n.Text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer literal at offset %d", ErrDomain, n.Text, n.At)
		}
		return IntValue(x), nil
	}
	d, err := decimal.Parse(n.Text)
	if err != nil {
		return Value{}, fmt.Errorf("%w at offset %d: %w", ErrSyntax, n.At, err)
	}
	v := DecValue(d)
	if err := e.bounded(v, n.At); err != nil {
		return Value{}, err
	}
	return v, nil
}

// bounded rejects a decimal whose exponent lies beyond MaxDigits. Every
// decimal the evaluator holds passes through it, which keeps exponent
// gaps and integer parts within reach of the limit.
func (e *evaluator) bounded(v Value, at int) error {
	if v.Mode == ModeInt {
		return nil
	}
	exp, limit := int64(v.Dec.Exponent()), e.opts.maxDigits()
	if exp > limit || -exp > limit {
		return fmt.Errorf("%w: scale 10^%d exceeds 10^±%d (offset %d)", ErrDomain, exp, limit, at)
	}
	return nil
}

// aligned rejects decimal operands whose exponents differ by more than
// MaxDigits, since adding, subtracting or dividing them first scales one
// mantissa by the gap.
func (e *evaluator) aligned(a, b decimal.Decimal) error {
	gap := int64(a.Exponent()) - int64(b.Exponent())
	if gap < 0 {
		gap = -gap
	}
	if limit := e.opts.maxDigits(); gap > limit {
		return fmt.Errorf("%w: operand scales differ by 10^%d, limit 10^%d", ErrDomain, gap, limit)
	}
	return nil
}

func (e *evaluator) binary(n *Binary, l, r Value) (Value, error) {
	switch n.Op {
	case TokSlash, TokPercent:
		if r.IsZero() {
			return Value{}, fmt.Errorf("%w at offset %d", ErrDivByZero, n.At)
		}
	case TokCaret:
		return e.pow(n, l, r)
	}

	if e.opts.Mode == ModeInt {
		a, b := l.Int, r.Int
		switch n.Op {
		case TokPlus:
			return IntValue(a.Add(b)), nil
		case TokMinus:
			return IntValue(a.Sub(b)), nil
		case TokStar:
			return IntValue(a.Mul(b)), nil
		case TokSlash:
			return IntValue(a.Quo(b)), nil
		case TokPercent:
			return IntValue(a.Rem(b)), nil
		}
	} else {
		a, b := l.Dec, r.Dec
		if n.Op != TokStar {
			if err := e.aligned(a, b); err != nil {
				return Value{}, fmt.Errorf("%w (offset %d)", err, n.At)
			}
		}
		switch n.Op {
		case TokPlus:
			return DecValue(a.Add(b)), nil
		case TokMinus:
			return DecValue(a.Sub(b)), nil
		case TokStar:
			return DecValue(a.Mul(b)), nil
		case TokSlash:
			return DecValue(e.quo(a, b, e.opts.Precision)), nil
		case TokPercent:
			return Value{}, fmt.Errorf("%w: '%%' needs int mode (offset %d)", ErrDomain, n.At)
		}
	}
	return Value{}, fmt.Errorf("%w: unknown operator %s", ErrSyntax, n.Op)
}

func (e *evaluator) quo(a, b decimal.Decimal, digits int) decimal.Decimal {
	if e.opts.Round {
		return a.QuoRound(b, digits)
	}
	return a.QuoPrec(b, digits)
}

// pow requires a non-negative integral exponent no larger than MaxPow.
func (e *evaluator) pow(n *Binary, base, exp Value) (Value, error) {
	limit := e.opts.maxPow()
	// A decimal exponent such as 1e300000000 would be expanded by integral,
	// so its integer digit count is checked against the limit first.
	if intDigits(exp) > int64(bignum.FromInt64(int64(limit)).Digits()) {
		if exp.Sign() < 0 {
			return Value{}, fmt.Errorf("%w: exponent is negative (offset %d)", ErrDomain, n.At)
		}
		return Value{}, fmt.Errorf("%w: exponent exceeds %d (offset %d)", ErrDomain, limit, n.At)
	}
	k, err := integral(exp, "exponent")
	if err != nil {
		return Value{}, err
	}
	if k.Sign() >= 0 && k.CmpAbs(bignum.FromInt64(int64(limit))) > 0 {
		return Value{}, fmt.Errorf("%w: exponent %s exceeds %d (offset %d)", ErrDomain, k, limit, n.At)
	}
	if base.Mode == ModeInt {
		x, err := base.Int.Pow(k)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrDomain, err)
		}
		return IntValue(x), nil
	}
	d, err := base.Dec.Pow(k)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrDomain, err)
	}
	return DecValue(d), nil
}

// intDigits counts the digits of v's integer part without building it.
// Values below one count zero or fewer.
func intDigits(v Value) int64 {
	if v.Mode == ModeInt {
		return int64(v.Int.Digits())
	}
	if v.Dec.IsZero() {
		return 1
	}
	return int64(v.Dec.Mantissa().Digits()) + int64(v.Dec.Exponent())
}

// integral returns v as a BigInt, rejecting fractional decimals.
func integral(v Value, what string) (bignum.BigInt, error) {
	if v.Mode == ModeInt {
		return v.Int, nil
	}
	if !v.Dec.IsInteger() {
		return bignum.BigInt{}, fmt.Errorf("%w: %s %s is not an integer", ErrDomain, what, v.Dec)
	}
	return v.Dec.IntegerPart(), nil
}

// smallInt returns v as a non-negative int no larger than limit.
func smallInt(v Value, what string, limit int) (int, error) {
	k, err := integral(v, what)
	if err != nil {
		return 0, err
	}
	if k.Sign() < 0 {
		return 0, fmt.Errorf("%w: %s %s is negative", ErrDomain, what, k)
	}
	n, err := k.Int64()
	if err != nil || n > int64(limit) {
		return 0, fmt.Errorf("%w: %s %s exceeds %d", ErrDomain, what, k, limit)
	}
	return int(n), nil
}
