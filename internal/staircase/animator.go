package staircase

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Frame is one step of a path animation.
type Frame struct {
	Index int         `json:"index"` // 1-based
	Total int         `json:"total"`
	Path  Composition `json:"path"`
	Label string      `json:"label"`
}

// Animator paces a sequence of paths, emitting one frame per interval.
// It is stopped by Stop or by cancelling the context passed to Run.
type Animator struct {
	paths    []Composition
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewAnimator creates an animator over paths. A non-positive interval
// defaults to one second.
func NewAnimator(paths []Composition, interval time.Duration) *Animator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Animator{
		paths:    paths,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Stop halts the animation before its next frame. Calling it more than once
// is a no-op.
func (a *Animator) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Stopped reports whether Stop has been called.
func (a *Animator) Stopped() bool {
	select {
	case <-a.stop:
		return true
	default:
		return false
	}
}

// Run emits frames until every path has been shown, Stop is called, ctx is
// done, or emit fails. It returns nil on completion or Stop, ctx.Err() on
// cancellation and the emit error otherwise.
func (a *Animator) Run(ctx context.Context, emit func(Frame) error) error {
	timer := time.NewTimer(a.interval)
	timer.Stop()
	defer timer.Stop()

	total := len(a.paths)
	for i, path := range a.paths {
		select {
		case <-a.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := Frame{
			Index: i + 1,
			Total: total,
			Path:  path,
			Label: fmt.Sprintf("%d/%d: %s", i+1, total, path.String()),
		}
		if err := emit(frame); err != nil {
			return fmt.Errorf("emit frame %d: %w", i+1, err)
		}

		if i == total-1 {
			break
		}

		timer.Reset(a.interval)
		select {
		case <-timer.C:
		case <-a.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
