package sampler

import (
	"context"
	"sync"
	"time"
)

// DefaultLoadTimeout bounds a single load so a stalled source cannot leave
// the consumer in the pending state forever.
const DefaultLoadTimeout = 10 * time.Second

type LoadState int

const (
	Idle LoadState = iota
	Pending
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// SampleFunc matches [SampleWith]; tests swap it out.
type SampleFunc func(ctx context.Context, src Source, size int, opts Options) (ColorField, error)

// Loader runs Sample on a goroutine and exposes the result through a
// non-blocking Poll. Starting a new load supersedes the previous one; a
// superseded result is discarded.
type Loader struct {
	Timeout time.Duration
	Options Options
	Sample  SampleFunc

	mu     sync.Mutex
	gen    uint64
	state  LoadState
	field  ColorField
	err    error
	done   chan struct{}
	cancel context.CancelFunc
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &Loader{Timeout: timeout, Sample: SampleWith}
}

// Start begins loading src at size×size. It returns immediately.
func (l *Loader) Start(ctx context.Context, src Source, size int) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.state, l.field, l.err = Pending, nil, nil
	done := make(chan struct{})
	l.done = done
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	l.cancel = cancel
	sample, opts := l.Sample, l.Options
	l.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		field, err := sample(ctx, src, size, opts)

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			return
		}
		if err != nil {
			l.state, l.err = Failed, err
			return
		}
		l.state, l.field = Ready, field
	}()
}

// Poll reports the current load without blocking.
func (l *Loader) Poll() (ColorField, LoadState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.field, l.state, l.err
}

// Wait blocks until the current load settles or ctx is done.
func (l *Loader) Wait(ctx context.Context) (ColorField, error) {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return nil, nil
	}
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	field, _, err := l.Poll()
	return field, err
}

// Stop abandons any in-flight load.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	if l.state == Pending {
		l.state = Idle
	}
}
