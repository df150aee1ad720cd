package testkit

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
)

func TestIntInvariantsHoldAcrossOperations(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := range 300 {
		a := bignum.FromInt64(r.Int64() - r.Int64())
		b := bignum.MustParse(strconv.FormatUint(r.Uint64(), 10) + strconv.FormatUint(r.Uint64(), 10))
		if r.IntN(2) == 0 {
			b = b.Neg()
		}
		results := []bignum.BigInt{a.Add(b), a.Sub(b), a.Mul(b), b.Sub(b), a.Neg()}
		if !b.IsZero() {
			q, rem := a.QuoRem(b)
			results = append(results, q, rem)
		}
		for _, x := range results {
			if err := CheckIntInvariants(x); err != nil {
				t.Fatalf("#%d %s: %v", i, x, err)
			}
		}
	}
	if err := CheckIntInvariants(bignum.BigInt{}); err != nil {
		t.Fatalf("zero value: %v", err)
	}
}

func TestDecimalInvariantsHoldAcrossOperations(t *testing.T) {
	inputs := []string{"0", "-0.000", "1.50", "100", "-2.5e3", "0.001", "9.99", "-12345.6789"}
	for _, as := range inputs {
		for _, bs := range inputs {
			a, b := decimal.MustParse(as), decimal.MustParse(bs)
			results := []decimal.Decimal{a, a.Add(b), a.Sub(b), a.Mul(b)}
			if !b.IsZero() {
				results = append(results, a.Quo(b), a.QuoRound(b, 2))
			}
			for _, d := range results {
				if err := CheckDecimalInvariants(d); err != nil {
					t.Fatalf("%s op %s -> %s: %v", as, bs, d, err)
				}
			}
		}
	}
}
