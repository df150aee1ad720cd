package bignum_test

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"ksnum/internal/bignum"
	"ksnum/internal/testkit"
)

func randInt(r *rand.Rand) bignum.BigInt {
	n := 1 + r.IntN(40)
	buf := make([]byte, 0, n+1)
	if r.IntN(2) == 0 {
		buf = append(buf, '-')
	}
	for range n {
		buf = append(buf, byte('0'+r.IntN(10)))
	}
	return bignum.MustParse(string(buf))
}

func TestResultsAreCanonical(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := range 500 {
		a, b := randInt(r), randInt(r)
		results := map[string]bignum.BigInt{
			"add": a.Add(b),
			"sub": a.Sub(b),
			"mul": a.Mul(b),
			"neg": a.Neg(),
			"abs": a.Abs(),
			"x-x": a.Sub(a),
		}
		if !b.IsZero() {
			q, rem := a.QuoRem(b)
			results["quo"], results["rem"] = q, rem
		}
		for name, x := range results {
			if err := testkit.CheckIntInvariants(x); err != nil {
				t.Fatalf("case %d: %s(%s, %s) = %s: %v", i, name, a, b, x, err)
			}
		}
	}
}

func TestParsedValuesAreCanonical(t *testing.T) {
	for _, s := range []string{"0", "-0", "000", "-000000000000", "1000000000", "-999999999", "123456789012345678901234567890"} {
		x := bignum.MustParse(s)
		if err := testkit.CheckIntInvariants(x); err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
	}
	for _, v := range []int64{0, 1, -1, 1 << 62, -1 << 63} {
		x := bignum.FromInt64(v)
		if err := testkit.CheckIntInvariants(x); err != nil {
			t.Fatalf("FromInt64(%s): %v", strconv.FormatInt(v, 10), err)
		}
	}
	if err := testkit.CheckIntInvariants(bignum.BigInt{}); err != nil {
		t.Fatalf("zero value: %v", err)
	}
}
