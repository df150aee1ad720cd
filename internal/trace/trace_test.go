package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"ERROR", LevelError},
		{"command", LevelCommand},
		{"expr", LevelExpr},
		{"Debug", LevelDebug},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if strings.ToLower(tc.in) != got.String() {
			t.Fatalf("%v.String() = %q", got, got.String())
		}
	}
	if _, err := ParseLevel("phase"); err == nil {
		t.Fatalf("ParseLevel(phase) succeeded")
	}
}

func TestShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeCommand, false},
		{LevelError, ScopeCommand, false},
		{LevelCommand, ScopeBatch, true},
		{LevelCommand, ScopeExpr, false},
		{LevelExpr, ScopeExpr, true},
		{LevelExpr, ScopeOp, false},
		{LevelDebug, ScopeOp, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%v.ShouldEmit(%v) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelExpr, FormatText)

	outer := Begin(tr, ScopeCommand, "eval", 0)
	inner := Begin(tr, ScopeExpr, "expr", outer.ID())
	inner.WithExtra("mode", "decimal").WithExtra("digits", "10").End("ok")
	Begin(tr, ScopeOp, "op:quo", inner.ID()).End("")
	outer.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "← expr (ok) {digits=10, mode=decimal}") {
		t.Fatalf("end line = %q", lines[2])
	}
	if strings.Contains(out, "op:quo") {
		t.Fatalf("op scope leaked at expr level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelCommand, FormatNDJSON)
	Begin(tr, ScopeBatch, "line:1", 0).End("done")

	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ev["scope"] != "batch" || ev["name"] != "line:1" {
			t.Fatalf("event = %v", ev)
		}
		kinds = append(kinds, ev["kind"].(string))
	}
	if strings.Join(kinds, ",") != "begin,end" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeOp, Name: name, Time: time.Now()})
	}
	if ring.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ring.Len())
	}
	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot has %d events, want 3", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("snapshot order = %v, want c d e", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelCommand, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeCommand, "start", "", 0)
	if RingOf(tr) == nil || len(RingOf(tr).Snapshot()) != 1 {
		t.Fatalf("both mode did not record into the ring")
	}
	if !strings.Contains(buf.String(), "start") {
		t.Fatalf("both mode did not stream: %q", buf.String())
	}

	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Fatalf("LevelOff tracer = %v, %v", off, err)
	}
	if RingOf(off) != nil {
		t.Fatalf("nop tracer has a ring")
	}
}

func TestContextStartNests(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx1, outer := Start(ctx, ScopeCommand, "cmd")
	_, inner := Start(ctx1, ScopeExpr, "expr")
	inner.End("")
	outer.End("")

	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context does not yield Nop")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(64, LevelCommand)
	hb := StartHeartbeat(ring, 5*time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	snap := ring.Snapshot()
	if len(snap) == 0 || snap[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded")
	}
	if !strings.HasPrefix(snap[0].Detail, "#1 after ") {
		t.Fatalf("heartbeat detail = %q", snap[0].Detail)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat started on a disabled tracer")
	}
}
