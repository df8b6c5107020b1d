package animation

import (
	"fmt"
	"math"

	"github.com/go-drift/tween/pkg/errors"
	"github.com/go-drift/tween/pkg/transition"
)

// Options configures one call to Animate. Start from [DefaultOptions]; a
// zero Gradient is rejected.
type Options struct {
	// Gradient is the fraction of the remaining distance covered per tick,
	// in (0, 1]. Values above 1 behave like 1.
	Gradient float64
	// LinearSpeed is the minimum step per tick and the snap distance. Zero
	// leaves only the exponential approach.
	LinearSpeed float64
	// Stoppable tasks halt when the slot's value changes behind the
	// scheduler's back, and may be halted without force.
	Stoppable bool
	// OnUpdate receives the task when it completes or halts.
	OnUpdate func(*Task)
	// CallIfFinished invokes OnUpdate when the slot already holds the target.
	CallIfFinished bool
	// NotifySuperseded invokes the previous task's OnUpdate when this call
	// replaces it.
	NotifySuperseded bool
	// NotifyFrames also invokes OnUpdate after every intermediate frame.
	NotifyFrames bool
	// Policy handles slot write failures.
	Policy Policy
	// Tag is an opaque value carried by the task.
	Tag any
}

// DefaultOptions returns the options used by most widgets.
func DefaultOptions() Options {
	return Options{
		Gradient:         0.25,
		Stoppable:        true,
		CallIfFinished:   true,
		NotifySuperseded: true,
		Policy:           PolicyLog,
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.Gradient) || math.IsInf(o.Gradient, 0) || o.Gradient <= 0 {
		return fmt.Errorf("%w: got %v", errors.ErrInvalidGradient, o.Gradient)
	}
	if math.IsNaN(o.LinearSpeed) || math.IsInf(o.LinearSpeed, 0) || o.LinearSpeed < 0 {
		return fmt.Errorf("%w: got %v", errors.ErrInvalidSpeed, o.LinearSpeed)
	}
	return nil
}

// Animate moves slot toward target on scheduler s, one step per tick.
// A nil s means the shared scheduler.
//
// Parameter problems are returned immediately as a *errors.TweenError of
// kind KindConfig. After s is disposed Animate does nothing and returns
// (nil, nil).
//
// If the slot already holds target, the returned task is Completed, nothing
// is registered, and OnUpdate runs once synchronously when CallIfFinished is
// set. If s is disabled, the slot is set to target immediately and OnUpdate
// runs synchronously. Otherwise any task already running on the slot is
// halted with ReasonSuperseded, even if it is not stoppable, and the new task
// is registered.
func Animate[T any](s *Scheduler, slot Slot[T], target T, opts Options) (*Task, error) {
	const op = "animation.Animate"
	if s == nil {
		s = Shared()
	}
	if s.Disposed() {
		return nil, nil
	}
	configErr := func(err error) error {
		return &errors.TweenError{Op: op, Kind: errors.KindConfig, Err: err, Slot: slot.String(), Tag: opts.Tag}
	}
	if err := opts.validate(); err != nil {
		return nil, configErr(err)
	}
	if err := slot.validate(); err != nil {
		return nil, configErr(err)
	}
	strategy, err := slot.strategy()
	if err != nil {
		return nil, configErr(err)
	}

	l := &typedLane[T]{slot: slot, strategy: strategy, target: strategy.Copy(target)}
	t := &Task{
		id:           nextTaskID.Add(1),
		sched:        s,
		key:          slot.Key(),
		lane:         l,
		gradient:     math.Min(opts.Gradient, 1),
		speed:        opts.LinearSpeed,
		stoppable:    opts.Stoppable,
		onUpdate:     opts.OnUpdate,
		notifyFrames: opts.NotifyFrames,
		policy:       opts.Policy,
		tag:          opts.Tag,
		started:      Now(),
	}

	current, err := slot.get()
	if err != nil {
		t.state, t.reason, t.err = StateHalted, ReasonWriteFailed, err
		return t, &errors.TweenError{Op: op, Kind: errors.KindWrite, Err: err, Slot: slot.String(), Tag: opts.Tag}
	}
	l.last = strategy.Copy(current)

	if strategy.Equal(current, target) {
		s.supersede(t.key, opts.NotifySuperseded)
		t.state = StateCompleted
		if opts.CallIfFinished {
			t.invoke()
		}
		return t, nil
	}

	if !s.Enabled() {
		s.supersede(t.key, opts.NotifySuperseded)
		if err := slot.set(target); err != nil {
			t.state, t.reason, t.err = StateHalted, ReasonWriteFailed, err
			ret := t.writeFailed(op, err)
			t.invoke()
			return t, ret
		}
		l.last = strategy.Copy(target)
		t.frames = 1
		t.state = StateCompleted
		t.invoke()
		return t, nil
	}

	if !s.register(t, opts.NotifySuperseded) {
		return nil, nil
	}
	return t, nil
}

// TargetOf returns the target of the animation running on slot, if any.
func TargetOf[T any](s *Scheduler, slot Slot[T]) (T, bool) {
	var zero T
	v, ok := s.Target(slot)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

type laneResult int

const (
	laneRunning laneResult = iota
	laneDone
	laneMismatch
)

// lane erases the value type of a task so the registry can hold tasks of
// any type. All methods are called with the task's mutex held.
type lane interface {
	advance(stoppable bool, gradient, speed float64) (laneResult, error)
	targetValue() any
	lastValue() any
}

type typedLane[T any] struct {
	slot     Slot[T]
	strategy transition.Strategy[T]
	target   T
	last     T
}

func (l *typedLane[T]) advance(stoppable bool, gradient, speed float64) (laneResult, error) {
	current, err := l.slot.get()
	if err != nil {
		return laneRunning, err
	}
	if stoppable && !l.strategy.Equal(current, l.last) {
		return laneMismatch, nil
	}
	next, done := l.strategy.Step(current, l.target, gradient, speed)
	if err := l.slot.set(next); err != nil {
		return laneRunning, err
	}
	l.last = l.strategy.Copy(next)
	if done {
		return laneDone, nil
	}
	return laneRunning, nil
}

func (l *typedLane[T]) targetValue() any { return l.target }

func (l *typedLane[T]) lastValue() any { return l.last }
