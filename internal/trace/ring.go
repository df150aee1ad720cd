package trace

import (
	"io"
	"sync"
)

// RingTracer remembers the most recent events so a failed evaluation can
// dump what led up to it without streaming anything during normal runs.
type RingTracer struct {
	level Level

	mu    sync.RWMutex
	slots []Event
	total uint64 // events ever written; slot index is total % len(slots)
}

// NewRingTracer returns a ring holding up to capacity events. A
// non-positive capacity selects DefaultRingSize.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{level: level, slots: make([]Event, capacity)}
}

// Emit records ev, overwriting the oldest slot once the ring is full.
// Heartbeats bypass the level filter.
func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	slot := int(t.total % uint64(len(t.slots))) //nolint:gosec // bounded by len(slots)
	t.slots[slot] = *ev
	t.slots[slot].Seq = NextSeq()
	t.total++
	t.mu.Unlock()
}

// Len reports how many events the ring currently holds.
func (t *RingTracer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.held()
}

func (t *RingTracer) held() int {
	if t.total < uint64(len(t.slots)) {
		return int(t.total) //nolint:gosec // less than len(slots)
	}
	return len(t.slots)
}

// Snapshot copies the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.held()
	out := make([]Event, 0, n)
	held := uint64(n) //nolint:gosec // n is never negative
	first := t.total - held
	for i := range held {
		out = append(out, t.slots[(first+i)%uint64(len(t.slots))])
	}
	return out
}

// Dump writes the snapshot to w, one formatted event at a time.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf digs the ring out of t. It returns nil for stream-only and
// disabled tracers.
func RingOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		return tr.Ring()
	}
	return nil
}
