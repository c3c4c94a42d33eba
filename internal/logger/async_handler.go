package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultShipBufferSize   = 1024
	defaultShipFlushTimeout = 5 * time.Second
	defaultShipErrorWait    = 100 * time.Millisecond
)

// AsyncOptions configures the queue in front of a slow sink.
type AsyncOptions struct {
	// BufferSize is the number of records held before new ones are dropped.
	BufferSize int
	// FlushTimeout bounds Shutdown when the caller's context has no deadline.
	FlushTimeout time.Duration
	// ErrorWait is how long an error record may wait for room in a full queue.
	// Records below error level are dropped immediately.
	ErrorWait time.Duration
}

type shipment struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// dropCounters tracks discarded records per severity band.
type dropCounters struct {
	debug, info, warn, error atomic.Uint64
}

func (d *dropCounters) add(level slog.Level) {
	switch {
	case level >= slog.LevelError:
		d.error.Add(1)
	case level >= slog.LevelWarn:
		d.warn.Add(1)
	case level >= slog.LevelInfo:
		d.info.Add(1)
	default:
		d.debug.Add(1)
	}
}

func (d *dropCounters) at(level slog.Level) uint64 {
	switch {
	case level >= slog.LevelError:
		return d.error.Load()
	case level >= slog.LevelWarn:
		return d.warn.Load()
	case level >= slog.LevelInfo:
		return d.info.Load()
	default:
		return d.debug.Load()
	}
}

func (d *dropCounters) total() uint64 {
	return d.debug.Load() + d.info.Load() + d.warn.Load() + d.error.Load()
}

// shipQueue feeds a single goroutine that writes to the remote sink.
// It is shared by an AsyncHandler and every handler derived from it.
type shipQueue struct {
	sink         slog.Handler
	pending      chan shipment
	flushTimeout time.Duration
	errorWait    time.Duration

	// mu guards closing pending against concurrent sends.
	mu     sync.RWMutex
	closed bool

	stopped chan struct{}
	dropped dropCounters
}

func newShipQueue(sink slog.Handler, opts AsyncOptions) *shipQueue {
	q := &shipQueue{
		sink:         sink,
		pending:      make(chan shipment, positiveOr(opts.BufferSize, defaultShipBufferSize)),
		flushTimeout: positiveOr(opts.FlushTimeout, defaultShipFlushTimeout),
		errorWait:    positiveOr(opts.ErrorWait, defaultShipErrorWait),
		stopped:      make(chan struct{}),
	}
	go q.ship()
	return q
}

func positiveOr[T int | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

// ship writes queued records until the queue is closed, then reports drops.
func (q *shipQueue) ship() {
	defer close(q.stopped)
	for s := range q.pending {
		_ = s.handler.Handle(s.ctx, s.record)
	}
	q.reportDrops()
}

// reportDrops sends one summary record to the sink so gaps are visible remotely.
func (q *shipQueue) reportDrops() {
	if q.dropped.total() == 0 || !q.sink.Enabled(context.Background(), slog.LevelWarn) {
		return
	}
	r := slog.NewRecord(time.Now(), slog.LevelWarn, "Log records dropped before shipping", 0)
	r.AddAttrs(
		slog.Uint64("dropped_debug", q.dropped.debug.Load()),
		slog.Uint64("dropped_info", q.dropped.info.Load()),
		slog.Uint64("dropped_warn", q.dropped.warn.Load()),
		slog.Uint64("dropped_error", q.dropped.error.Load()),
	)
	_ = q.sink.Handle(context.Background(), r)
}

// offer enqueues s without blocking, except that error records may wait up
// to errorWait for room. Records arriving after close are counted as dropped.
func (q *shipQueue) offer(s shipment) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.add(s.record.Level)
		return
	}

	select {
	case q.pending <- s:
		return
	default:
	}

	if s.record.Level >= slog.LevelError {
		timer := time.NewTimer(q.errorWait)
		defer timer.Stop()
		select {
		case q.pending <- s:
			return
		case <-timer.C:
		}
	}
	q.dropped.add(s.record.Level)
}

func (q *shipQueue) close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.pending)
	q.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flushTimeout)
		defer cancel()
	}

	select {
	case <-q.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler hands records to a background goroutine so remote log
// shipping never blocks webhook handling.
type AsyncHandler struct {
	queue   *shipQueue
	handler slog.Handler
}

// NewAsyncHandler creates an AsyncHandler with its own queue.
func NewAsyncHandler(handler slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{queue: newShipQueue(handler, opts), handler: handler}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.handler.Enabled(ctx, r.Level) {
		return nil
	}
	h.queue.offer(shipment{ctx: context.WithoutCancel(ctx), record: r.Clone(), handler: h.handler})
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{queue: h.queue, handler: h.handler.WithAttrs(attrs)}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{queue: h.queue, handler: h.handler.WithGroup(name)}
}

// Dropped reports how many records were discarded because the queue was full or closed.
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil || h.queue == nil {
		return 0
	}
	return h.queue.dropped.total()
}

// DroppedAt reports discarded records in the severity band of level
// (debug, info, warn or error).
func (h *AsyncHandler) DroppedAt(level slog.Level) uint64 {
	if h == nil || h.queue == nil {
		return 0
	}
	return h.queue.dropped.at(level)
}

// Shutdown stops accepting records and waits for the queue to drain.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.queue == nil {
		return nil
	}
	return h.queue.close(ctx)
}
