package bignum

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestMsgpackRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "-1", "999999999", "-123456789012345678901234567890"} {
		x := MustParse(s)
		data, err := msgpack.Marshal(x)
		if err != nil {
			t.Fatalf("marshal %s: %v", s, err)
		}
		var got BigInt
		if err := msgpack.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", s, err)
		}
		if !got.Equal(x) || got.String() != s {
			t.Fatalf("round trip of %s = %s", s, got)
		}
	}
}

func TestMsgpackRejectsBadLimb(t *testing.T) {
	data, err := msgpack.Marshal([]any{false, uint32(Base)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got BigInt
	if err := msgpack.Unmarshal(data, &got); !errors.Is(err, ErrParse) {
		t.Fatalf("unmarshal error = %v, want ErrParse", err)
	}
}

func TestMsgpackCanonicalizesNegativeZero(t *testing.T) {
	data, err := msgpack.Marshal([]any{true, uint32(0), uint32(0)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got BigInt
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.IsNeg() || got.Len() != 1 || got.String() != "0" {
		t.Fatalf("decoded %q (neg=%v, len=%d), want canonical zero", got, got.IsNeg(), got.Len())
	}
}

func TestTextMarshal(t *testing.T) {
	type wrapper struct {
		N BigInt `json:"n"`
	}
	data, err := json.Marshal(wrapper{N: MustParse("-1000000000")})
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	if string(data) != `{"n":"-1000000000"}` {
		t.Fatalf("json = %s", data)
	}
	var back wrapper
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if back.N.String() != "-1000000000" {
		t.Fatalf("json round trip = %s", back.N)
	}
	if err := json.Unmarshal([]byte(`{"n":"12x"}`), &back); !errors.Is(err, ErrParse) {
		t.Fatalf("bad json error = %v, want ErrParse", err)
	}
}
