package animation_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-drift/tween/pkg/animation"
	"github.com/go-drift/tween/pkg/errors"
)

// box is a stand-in for a widget with a few animatable members.
type box struct {
	mu      sync.Mutex
	width   int
	opacity float64
}

func (b *box) Width() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width
}

func (b *box) Opacity() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opacity
}

func (b *box) widthSlot() animation.Slot[int] {
	return animation.GuardedSlot(b, "Width", &b.mu, &b.width)
}

func (b *box) opacitySlot() animation.Slot[float64] {
	return animation.GuardedSlot(b, "Opacity", &b.mu, &b.opacity)
}

var errBroken = fmt.Errorf("owner went away")

// brokenSlot reads fine and fails every write.
func brokenSlot(b *box) animation.Slot[int] {
	return animation.NewSlot(b, "Width",
		func() int { return b.Width() },
		func(int) error { return errBroken })
}

// calls records every callback invocation.
type calls struct {
	mu     sync.Mutex
	states []animation.State
	tasks  []*animation.Task
}

func (c *calls) record(t *animation.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, t.State())
	c.tasks = append(c.tasks, t)
}

func (c *calls) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

func (c *calls) snapshot() []animation.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]animation.State(nil), c.states...)
}

// recorder captures reported errors for the duration of a test.
type recorder struct {
	mu     sync.Mutex
	errs   []*errors.TweenError
	panics []*errors.PanicError
}

func (r *recorder) HandleError(err *errors.TweenError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

func (r *recorder) errors() []*errors.TweenError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.TweenError(nil), r.errs...)
}

func (r *recorder) panicked() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}

func recordErrors(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	prev := errors.SetHandler(rec)
	t.Cleanup(func() { errors.SetHandler(prev) })
	return rec
}

func halving() animation.Options {
	opts := animation.DefaultOptions()
	opts.Gradient = 0.5
	opts.LinearSpeed = 2
	return opts
}
