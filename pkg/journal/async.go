package journal

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/vendingkit/pkg/logger"
)

// BatchRecorder stores several entries in one round trip.
type BatchRecorder interface {
	RecordBatch(ctx context.Context, entries []Entry) error
}

// AsyncOptions tunes Async. Zero values select the defaults.
type AsyncOptions struct {
	BufferSize   int           // queued entries before Record falls back to a synchronous write
	BatchSize    int           // entries per flush
	FlushEvery   time.Duration // upper bound on how long an entry waits in a partial batch
	StoreTimeout time.Duration // per-flush deadline
	Logger       *slog.Logger  // receives flush failures
}

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("journal: async recorder is closed")

// Async moves journal writes off the caller's path. Record only validates and
// queues the entry; a background worker flushes batches to the wrapped
// recorder. Flush failures are logged.
type Async struct {
	next    Recorder
	opts    AsyncOptions
	queue   chan Entry
	done    chan struct{}
	wg      sync.WaitGroup
	closeMu sync.RWMutex
	closed  bool
}

// NewAsync starts the background worker for next. Zero options take defaults;
// a nil recorder panics.
func NewAsync(next Recorder, opts AsyncOptions) *Async {
	if next == nil {
		panic("journal: NewAsync: nil recorder")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 256
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 200 * time.Millisecond
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	a := &Async{
		next:  next,
		opts:  opts,
		queue: make(chan Entry, opts.BufferSize),
		done:  make(chan struct{}),
	}
	a.wg.Add(1)
	go a.worker()
	return a
}

// Record validates e and queues it. When the queue is full the entry is
// written synchronously instead of being dropped.
func (a *Async) Record(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	a.closeMu.RLock()
	defer a.closeMu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- e:
		return nil
	default:
		// queue full: write through so the entry is not lost
		return a.next.Record(ctx, e)
	}
}

// List delegates to the wrapped recorder when it can read.
func (a *Async) List(ctx context.Context, f Filter) ([]Entry, error) {
	r, ok := a.next.(Reader)
	if !ok {
		return nil, errors.Join(ErrListFailed, errors.New("wrapped recorder cannot list"))
	}
	return r.List(ctx, f)
}

func (a *Async) worker() {
	defer a.wg.Done()

	batch := make([]Entry, 0, a.opts.BatchSize)
	ticker := time.NewTicker(a.opts.FlushEvery)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.opts.StoreTimeout)
		defer cancel()
		if err := a.store(ctx, batch); err != nil {
			a.opts.Logger.ErrorContext(ctx, "failed to flush journal entries",
				"entries", len(batch),
				logger.Error(err),
			)
		}
		clear(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-a.queue:
			batch = append(batch, e)
			if len(batch) >= a.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-a.done:
			for {
				select {
				case e := <-a.queue:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (a *Async) store(ctx context.Context, entries []Entry) error {
	if br, ok := a.next.(BatchRecorder); ok {
		return br.RecordBatch(ctx, entries)
	}
	var errs []error
	for _, e := range entries {
		if err := a.next.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close stops accepting entries and waits for queued ones to be flushed.
func (a *Async) Close(ctx context.Context) error {
	a.closeMu.Lock()
	if a.closed {
		a.closeMu.Unlock()
		return nil
	}
	a.closed = true
	close(a.done)
	a.closeMu.Unlock()

	drained := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
