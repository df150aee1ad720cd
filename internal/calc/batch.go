package calc

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"ksnum/internal/check"
	"ksnum/internal/store"
	"ksnum/internal/trace"
)

// Status is the progress state of one batch line.
type Status string

const (
	// StatusQueued indicates the line is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the line is being evaluated.
	StatusWorking Status = "working"
	// StatusDone indicates the line evaluated successfully.
	StatusDone Status = "done"
	// StatusCached indicates the result came from the cache.
	StatusCached Status = "cached"
	// StatusError indicates the line failed.
	StatusError Status = "error"
)

// Event reports progress for one line.
type Event struct {
	Line    int // 1-based index into the batch
	Expr    string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. OnEvent may be called from several
// goroutines at once.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent sends evt, blocking until the receiver takes it.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Result is the outcome of one batch line.
type Result struct {
	Line    int
	Expr    string
	Value   Value
	Err     error
	Cached  bool
	Elapsed time.Duration
}

// OK reports whether the line evaluated.
func (r Result) OK() bool { return r.Err == nil }

// BatchOptions controls EvalBatch.
type BatchOptions struct {
	Jobs  int          // parallel workers; <= 0 means GOMAXPROCS
	Sink  Sink         // optional progress sink
	Cache *store.Cache // optional result cache
}

// EvalBatch evaluates every expression independently and in parallel.
// Results are in input order. A failing line is recorded in its Result and
// does not stop the others; only cancellation of ctx aborts the batch.
func EvalBatch(ctx context.Context, exprs []string, opts Options, bo BatchOptions) ([]Result, error) {
	results := make([]Result, len(exprs))
	if len(exprs) == 0 {
		return results, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeCommand, "batch")
	defer span.End(strconv.Itoa(len(exprs)) + " lines")

	jobs := bo.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	emit := func(evt Event) {
		if bo.Sink != nil {
			bo.Sink.OnEvent(evt)
		}
	}
	for i, expr := range exprs {
		emit(Event{Line: i + 1, Expr: expr, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(exprs)))
	for i, expr := range exprs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(Event{Line: i + 1, Expr: expr, Status: StatusWorking})
			res := evalLine(gctx, i+1, expr, opts, bo.Cache)
			// Each goroutine owns results[i].
			results[i] = res

			status := StatusDone
			switch {
			case res.Err != nil:
				status = StatusError
			case res.Cached:
				status = StatusCached
			}
			emit(Event{Line: i + 1, Expr: expr, Status: status, Err: res.Err, Elapsed: res.Elapsed})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// evalLine evaluates one line, consulting the cache first. A violated
// numeric precondition becomes the line's error so one bad line cannot
// take down the batch.
func evalLine(ctx context.Context, line int, expr string, opts Options, cache *store.Cache) (res Result) {
	start := time.Now()
	res = Result{Line: line, Expr: expr}
	ctx, span := trace.Start(ctx, trace.ScopeBatch, "line:"+strconv.Itoa(line))
	defer func() {
		if v := check.Recover(recover()); v != nil {
			res.Err = v
		}
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			span.End(res.Err.Error())
		} else {
			span.End(res.Value.String())
		}
	}()

	key := CacheKey(expr, opts)
	if v, ok := lookup(cache, key, opts.Mode); ok {
		res.Value, res.Cached = v, true
		return res
	}

	v, err := Eval(ctx, expr, opts)
	if err != nil {
		res.Err = err
		return res
	}
	res.Value = v
	if err := cache.Put(key, toEntry(expr, v)); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeBatch, "cache", fmt.Sprintf("put failed: %v", err), span.ID())
	}
	return res
}

// CacheKey derives the store key of expr under opts. The limits are part
// of the key so a value cached under looser limits is not served under
// tighter ones.
func CacheKey(expr string, opts Options) store.Key {
	tag := fmt.Sprintf("%s/pow=%d/digits=%d", opts.Mode, opts.maxPow(), opts.maxDigits())
	return store.KeyFor(tag, opts.Precision, opts.Round, Fold(expr))
}

func lookup(cache *store.Cache, key store.Key, mode Mode) (Value, bool) {
	e, ok, err := cache.Get(key)
	if err != nil || !ok {
		return Value{}, false
	}
	switch {
	case mode == ModeInt && e.Kind == store.KindInt:
		return IntValue(e.Int), true
	case mode == ModeDecimal && e.Kind == store.KindDecimal:
		return DecValue(e.Dec), true
	default:
		return Value{}, false
	}
}

func toEntry(expr string, v Value) *store.Entry {
	if v.Mode == ModeInt {
		return &store.Entry{Kind: store.KindInt, Int: v.Int, Expr: expr}
	}
	return &store.Entry{Kind: store.KindDecimal, Dec: v.Dec, Expr: expr}
}
