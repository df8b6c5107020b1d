// Package animation moves values toward targets on a fixed tick.
//
// # Core Components
//
//   - [Slot]: a typed handle to one value on one owner (a label's color, a
//     panel's offset). The scheduler reads and writes through it and keys
//     its registry on the owner and member name, never on the value.
//
//   - [Task]: one running animation of one slot. Tasks end Completed or
//     Halted and are handed to the OnUpdate callback either way, so check
//     [Task.State] before assuming the target was reached.
//
//   - [Scheduler]: owns the registry of tasks and a tick source that runs
//     only while there is work. Each tick asks the slot's
//     [transition.Strategy] for the next value and writes it back.
//
// # Basic Usage
//
//	slot := animation.GuardedSlot(label, "Color", &label.mu, &label.color)
//	opts := animation.DefaultOptions()
//	opts.Gradient = 0.3
//	opts.OnUpdate = func(t *animation.Task) {
//	    if t.State() == animation.StateCompleted {
//	        label.Invalidate()
//	    }
//	}
//	_, err := animation.Animate(nil, slot, graphics.ColorRed, opts)
//
// Passing a nil scheduler uses [Shared]. Widgets that want an isolated tick
// source construct their own with [NewScheduler] and call Dispose when torn
// down.
//
// Starting a new animation on a slot always replaces the one in flight.
// Stoppable tasks also halt themselves when the slot's value changes behind
// the scheduler's back.
package animation

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/tween/pkg/errors"
)

// DefaultInterval is the default tick period (about 45 Hz).
const DefaultInterval = 22 * time.Millisecond

// Scheduler runs animations on a shared tick.
//
// All methods are safe for concurrent use. A Scheduler must be created with
// [NewScheduler].
type Scheduler struct {
	mu       sync.Mutex
	tasks    map[SlotKey]*Task
	source   TickSource
	ticking  bool
	disposed bool

	enabled  atomic.Bool
	interval atomic.Int64
	parallel atomic.Bool
	dontWait atomic.Bool

	onError   func(error)
	callbacks dispatcher
	trace     *TickTrace
}

// SchedulerOption configures a Scheduler at construction.
type SchedulerOption func(*Scheduler)

// WithTickSource replaces the timer-driven tick source, e.g. with a manual
// source in tests.
func WithTickSource(src TickSource) SchedulerOption {
	return func(s *Scheduler) { s.source = src }
}

// WithParallelDispatch fans task updates out across goroutines.
func WithParallelDispatch(on bool) SchedulerOption {
	return func(s *Scheduler) { s.parallel.Store(on) }
}

// WithDontWait ticks back to back instead of once per interval.
func WithDontWait(on bool) SchedulerOption {
	return func(s *Scheduler) { s.dontWait.Store(on) }
}

// WithEnabled sets the initial enabled flag.
func WithEnabled(on bool) SchedulerOption {
	return func(s *Scheduler) { s.enabled.Store(on) }
}

// WithErrorHandler receives errors returned by ticks that the tick source
// drives (PolicyThrow write failures). The default reports them through
// errors.Report.
func WithErrorHandler(fn func(error)) SchedulerOption {
	return func(s *Scheduler) { s.onError = fn }
}

// WithTrace keeps the last capacity tick samples. The default is 240.
func WithTrace(capacity int) SchedulerOption {
	return func(s *Scheduler) { s.trace = NewTickTrace(capacity, s.Interval()) }
}

// NewScheduler creates an enabled scheduler ticking every interval.
// A non-positive interval means DefaultInterval.
func NewScheduler(interval time.Duration, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		tasks: make(map[SlotKey]*Task),
	}
	s.enabled.Store(true)
	s.trace = NewTickTrace(0, 0)
	s.SetInterval(interval)
	s.onError = func(err error) {
		errors.ReportError("animation.Tick", errors.KindWrite, err)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = newTimerSource(s.Interval, s.DontWait)
	}
	return s
}

// Enabled reports whether animations run. A disabled scheduler applies
// targets immediately.
func (s *Scheduler) Enabled() bool { return s.enabled.Load() }

// SetEnabled turns animation on or off. Tasks already registered are kept
// and resume when the scheduler is enabled again.
func (s *Scheduler) SetEnabled(on bool) {
	s.enabled.Store(on)
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.ensureTicking()
	} else {
		s.stopTicking()
	}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return time.Duration(s.interval.Load()) }

// SetInterval changes the tick period, taking effect from the next tick.
// Ticks that take longer than the period are counted as slow.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	s.interval.Store(int64(d))
	s.trace.SetThreshold(d)
}

// Parallel reports whether task updates are fanned out across goroutines.
func (s *Scheduler) Parallel() bool { return s.parallel.Load() }

// SetParallel turns parallel dispatch on or off.
func (s *Scheduler) SetParallel(on bool) { s.parallel.Store(on) }

// DontWait reports whether ticks run back to back.
func (s *Scheduler) DontWait() bool { return s.dontWait.Load() }

// SetDontWait switches between fixed-period and back-to-back ticking.
func (s *Scheduler) SetDontWait(on bool) { s.dontWait.Store(on) }

// Disposed reports whether Dispose was called.
func (s *Scheduler) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Ticking reports whether the tick source is running.
func (s *Scheduler) Ticking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticking
}

// Len returns the number of running tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Active reports whether a task is running on k.
func (s *Scheduler) Active(k Keyed) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[k.Key()]
	return ok
}

// Task returns the task running on k, if any.
func (s *Scheduler) Task(k Keyed) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[k.Key()]
	return t, ok
}

// Target returns the target of the task running on k, if any.
func (s *Scheduler) Target(k Keyed) (any, bool) {
	t, ok := s.Task(k)
	if !ok {
		return nil, false
	}
	return t.Target(), true
}

// Halt stops the task running on k. Tasks that are not stoppable are only
// halted when force is set. The halted task's callback is queued and runs
// on another goroutine when invokeCallback is set. Halt reports whether a
// task was halted; calling it again returns false.
func (s *Scheduler) Halt(k Keyed, force, invokeCallback bool) bool {
	key := k.Key()
	s.mu.Lock()
	t, ok := s.tasks[key]
	if s.disposed || !ok || (!t.stoppable && !force) {
		s.mu.Unlock()
		return false
	}
	delete(s.tasks, key)
	s.stopIfIdle()
	s.mu.Unlock()

	if !t.halt(ReasonExplicit) {
		return false
	}
	if invokeCallback {
		s.post(t)
	}
	return true
}

// HaltSlot halts a stoppable task on k and queues its callback.
func (s *Scheduler) HaltSlot(k Keyed) bool {
	return s.Halt(k, false, true)
}

// HaltID halts the task with the given ID and queues its callback.
func (s *Scheduler) HaltID(id uint64, force bool) bool {
	s.mu.Lock()
	var t *Task
	for _, candidate := range s.tasks {
		if candidate.id == id {
			t = candidate
			break
		}
	}
	if s.disposed || t == nil || (!t.stoppable && !force) {
		s.mu.Unlock()
		return false
	}
	delete(s.tasks, t.key)
	s.stopIfIdle()
	s.mu.Unlock()

	if !t.halt(ReasonExplicit) {
		return false
	}
	s.post(t)
	return true
}

// Tick advances every running task by one step. The tick source calls it;
// tests and embedders with their own frame loop may call it directly.
//
// The error joins the write failures of PolicyThrow tasks.
func (s *Scheduler) Tick() error {
	s.mu.Lock()
	if s.disposed || len(s.tasks) == 0 {
		s.stopIfIdle()
		s.mu.Unlock()
		return nil
	}
	tasks := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	start := time.Now()
	sample := TickSample{Timestamp: Now().UnixMilli(), Tasks: len(tasks)}
	var errs []error
	if s.Parallel() && len(tasks) > 1 {
		errs = s.updateParallel(tasks, &sample)
	} else {
		for _, t := range tasks {
			if err := sample.count(t.update()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	elapsed := time.Since(start)
	sample.TickMs = durationToMillis(elapsed)
	s.trace.Add(sample, elapsed)

	s.mu.Lock()
	s.stopIfIdle()
	s.mu.Unlock()
	return errors.Join(errs...)
}

// updateParallel runs one goroutine per task, at most GOMAXPROCS at a time.
// Every failure is kept, so the goroutines never return an error to the group.
func (s *Scheduler) updateParallel(tasks []*Task, sample *TickSample) []error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, t := range tasks {
		g.Go(func() error {
			out := t.update()
			mu.Lock()
			defer mu.Unlock()
			if err := sample.count(out); err != nil {
				errs = append(errs, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Timeline returns the most recent tick samples.
func (s *Scheduler) Timeline() TickTimeline {
	return s.trace.Snapshot()
}

// Flush blocks until every queued halt callback has run. It must not be
// called from inside a callback.
func (s *Scheduler) Flush() {
	s.callbacks.wait()
}

// Dispose stops ticking and drops every task without invoking callbacks.
// Later calls to Animate and Halt do nothing.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	for _, t := range s.tasks {
		t.halt(ReasonDisposed)
	}
	s.tasks = make(map[SlotKey]*Task)
	s.stopTicking()
}

// register inserts t, halting the task it replaces. It reports false when
// the scheduler was disposed concurrently.
func (s *Scheduler) register(t *Task, notify bool) bool {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return false
	}
	old := s.tasks[t.key]
	superseded := old != nil && old.halt(ReasonSuperseded)
	s.tasks[t.key] = t
	s.ensureTicking()
	s.mu.Unlock()

	if superseded && notify {
		s.post(old)
	}
	return true
}

// supersede halts and removes whatever runs on key.
func (s *Scheduler) supersede(key SlotKey, notify bool) {
	s.mu.Lock()
	old, ok := s.tasks[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	superseded := old.halt(ReasonSuperseded)
	s.stopIfIdle()
	s.mu.Unlock()

	if superseded && notify {
		s.post(old)
	}
}

// remove drops t if it is still the registered task for its slot.
func (s *Scheduler) remove(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[t.key] == t {
		delete(s.tasks, t.key)
	}
	s.stopIfIdle()
}

func (s *Scheduler) post(t *Task) {
	if t.onUpdate == nil {
		return
	}
	s.callbacks.post(t.invoke)
}

// ensureTicking starts the source when there is work. Requires s.mu.
func (s *Scheduler) ensureTicking() {
	if s.ticking || s.disposed || len(s.tasks) == 0 || !s.enabled.Load() {
		return
	}
	s.ticking = true
	s.source.Start(s.runTick)
}

// stopIfIdle stops the source once the registry is empty. Requires s.mu.
func (s *Scheduler) stopIfIdle() {
	if len(s.tasks) == 0 || s.disposed {
		s.stopTicking()
	}
}

// stopTicking requires s.mu.
func (s *Scheduler) stopTicking() {
	if !s.ticking {
		return
	}
	s.ticking = false
	s.source.Stop()
}

func (s *Scheduler) runTick() {
	defer errors.Recover("animation.Tick")
	if err := s.Tick(); err != nil && s.onError != nil {
		s.onError(err)
	}
}

var (
	sharedMu sync.Mutex
	shared   *Scheduler
)

// Shared returns the process-wide scheduler, creating it on first use. Any
// widget may instead construct its own with NewScheduler.
func Shared() *Scheduler {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewScheduler(DefaultInterval)
	}
	return shared
}

// SetShared replaces the process-wide scheduler and returns the previous
// one, so tests can install an isolated scheduler and restore it. Passing
// nil makes the next Shared call create a fresh scheduler.
func SetShared(s *Scheduler) *Scheduler {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	prev := shared
	shared = s
	return prev
}
