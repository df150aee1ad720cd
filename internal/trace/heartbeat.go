package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a command-scope tick every interval until stopped. A run
// of ticks in the ring with no expression ending between them means some
// expression is still computing, usually a large power or quotient.
type Heartbeat struct {
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat launches the ticker. It returns nil when tracing is off or
// interval is not positive; Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{quit: make(chan struct{}), done: make(chan struct{})}
	go h.loop(tracer, interval)
	return h
}

func (h *Heartbeat) loop(tracer Tracer, interval time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	gid := getGoroutineID()
	started := time.Now()
	for beat := 1; ; beat++ {
		select {
		case <-h.quit:
			return
		case now := <-ticker.C:
			tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeCommand,
				GID:    gid,
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d after %s", beat, now.Sub(started).Round(time.Millisecond)),
			})
		}
	}
}

// Stop halts the ticker and waits for its goroutine. Safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.quit) })
	<-h.done
}
