package animation

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/tween/pkg/errors"
)

// State is the lifecycle state of a Task.
//
//	Running ──(reached target)──────────────► Completed
//	   │
//	   └──(halt, supersede, mismatch, write failure, dispose)──► Halted
//
// Completed and Halted are terminal.
type State int

const (
	// StateRunning means the task is registered and advanced on every tick.
	StateRunning State = iota
	// StateCompleted means the slot reached the target.
	StateCompleted
	// StateHalted means the task stopped before reaching the target. See Reason.
	StateHalted
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateHalted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reason says why a task was halted.
type Reason int

const (
	// ReasonNone is the reason of running and completed tasks.
	ReasonNone Reason = iota
	// ReasonExplicit means Halt was called.
	ReasonExplicit
	// ReasonSuperseded means a newer animation started on the same slot.
	ReasonSuperseded
	// ReasonValueMismatch means something other than the scheduler changed the
	// slot's value while a stoppable task was running.
	ReasonValueMismatch
	// ReasonWriteFailed means reading or writing the slot failed. See Task.Err.
	ReasonWriteFailed
	// ReasonDisposed means the scheduler was disposed.
	ReasonDisposed
)

// String returns a human-readable representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExplicit:
		return "explicit"
	case ReasonSuperseded:
		return "superseded"
	case ReasonValueMismatch:
		return "value-mismatch"
	case ReasonWriteFailed:
		return "write-failed"
	case ReasonDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Policy selects what happens to a slot write failure during a tick.
// The task is halted with ReasonWriteFailed under every policy.
type Policy int

const (
	// PolicyLog reports the failure through errors.Report.
	PolicyLog Policy = iota
	// PolicyThrow returns the failure from Tick.
	PolicyThrow
	// PolicyIgnore drops the failure.
	PolicyIgnore
)

// String returns a human-readable representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyLog:
		return "log"
	case PolicyThrow:
		return "throw"
	case PolicyIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

var nextTaskID atomic.Uint64

// Task is one animation of one slot.
//
// A task is created by [Animate] and handed to the OnUpdate callback. Its
// accessors are safe to call from any goroutine, including from inside the
// callback.
type Task struct {
	id           uint64
	sched        *Scheduler
	key          SlotKey
	lane         lane
	gradient     float64
	speed        float64
	stoppable    bool
	onUpdate     func(*Task)
	notifyFrames bool
	policy       Policy
	tag          any
	started      time.Time

	// mu serializes tick updates against Halt for this task.
	mu     sync.Mutex
	state  State
	reason Reason
	frames int
	err    error
}

// ID returns the process-unique task number.
func (t *Task) ID() uint64 { return t.id }

// Key returns the identity of the animated slot.
func (t *Task) Key() SlotKey { return t.key }

// Tag returns the caller-supplied tag.
func (t *Task) Tag() any { return t.tag }

// Stoppable reports whether the task halts on outside interference and on
// a non-forced Halt.
func (t *Task) Stoppable() bool { return t.stoppable }

// Policy returns the write-failure policy.
func (t *Task) Policy() Policy { return t.policy }

// Started returns the creation time according to the animation clock.
func (t *Task) Started() time.Time { return t.started }

// Target returns the value being animated toward.
func (t *Task) Target() any { return t.lane.targetValue() }

// Last returns the value most recently written (or read at start).
func (t *Task) Last() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lane.lastValue()
}

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reason returns why the task was halted, or ReasonNone.
func (t *Task) Reason() Reason {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

// Frames returns how many values the task has written.
func (t *Task) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// Err returns the write failure that halted the task, if any.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done reports whether the task reached a terminal state.
func (t *Task) Done() bool {
	return t.State() != StateRunning
}

func (t *Task) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reason != ReasonNone {
		return fmt.Sprintf("task#%d %s %s (%s)", t.id, t.key, t.state, t.reason)
	}
	return fmt.Sprintf("task#%d %s %s", t.id, t.key, t.state)
}

// halt moves a running task to Halted. It reports false when the task was
// already terminal.
func (t *Task) halt(reason Reason) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return false
	}
	t.state = StateHalted
	t.reason = reason
	return true
}

// outcome is what one tick did to a task.
type outcome struct {
	// finished is set when the task left StateRunning during this tick.
	finished bool
	state    State
	reason   Reason
	// err is a write failure to propagate under PolicyThrow.
	err error
}

// update performs one tick of the task.
func (t *Task) update() outcome {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return outcome{}
	}
	res, err := t.lane.advance(t.stoppable, t.gradient, t.speed)
	notify := false
	switch {
	case err != nil:
		t.state, t.reason, t.err = StateHalted, ReasonWriteFailed, err
		notify = true
	case res == laneMismatch:
		t.state, t.reason = StateHalted, ReasonValueMismatch
		notify = true
	case res == laneDone:
		t.frames++
		t.state = StateCompleted
		notify = true
	default:
		t.frames++
		notify = t.notifyFrames
	}
	out := outcome{finished: t.state != StateRunning, state: t.state, reason: t.reason}
	t.mu.Unlock()

	if out.finished {
		t.sched.remove(t)
	}
	if err != nil {
		out.err = t.writeFailed("animation.Tick", err)
	}
	if notify {
		t.invoke()
	}
	return out
}

// writeFailed applies the task's policy to err and returns what the caller
// should propagate.
func (t *Task) writeFailed(op string, err error) error {
	te := &errors.TweenError{
		Op:   op,
		Kind: errors.KindWrite,
		Err:  err,
		Slot: t.key.String(),
		Tag:  t.tag,
	}
	switch t.policy {
	case PolicyThrow:
		return te
	case PolicyIgnore:
		return nil
	default:
		errors.Report(te)
		return nil
	}
}

// invoke runs the callback without any lock held.
func (t *Task) invoke() {
	if t.onUpdate == nil {
		return
	}
	defer errors.Recover("animation.OnUpdate")
	t.onUpdate(t)
}
