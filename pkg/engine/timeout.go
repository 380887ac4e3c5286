package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds an evaluation when no deadline is given.
const DefaultTimeout = 5 * time.Second

// ErrSuperseded is returned for an evaluation that finished after a newer
// one was started on the same Engine.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult passes an evaluation outcome through a channel.
type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// WithTimeout bounds every evaluation that does not already carry a
// deadline. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// withDeadline applies the engine timeout unless ctx has its own deadline.
func (e *Engine) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

// wait blocks until ch delivers or ctx ends. A late result from an
// evaluation that is no longer the latest is discarded.
//
// When ctx ends first the evaluating goroutine keeps running until the
// interpreter stops; its result is dropped by the buffered channel.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*Result, []EvalError, error) {
	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.result, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("evaluation timed out: %w", ctx.Err())
		}
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}
