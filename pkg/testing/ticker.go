package testing

import (
	"sync"
	stdtesting "testing"

	"github.com/go-drift/tween/pkg/animation"
)

// ManualTicker is an animation.TickSource that only ticks when told to.
//
// The scheduler starts it when work arrives and stops it when the last task
// finishes; Fire does nothing while it is stopped. The tick function is
// called without the ticker's lock held, since the scheduler stops the
// source from inside a tick.
type ManualTicker struct {
	mu     sync.Mutex
	tick   func()
	starts int
	fired  int
}

// Start implements animation.TickSource.
func (m *ManualTicker) Start(tick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tick != nil {
		return
	}
	m.tick = tick
	m.starts++
}

// Stop implements animation.TickSource.
func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick = nil
}

// Active reports whether the scheduler currently wants ticks.
func (m *ManualTicker) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick != nil
}

// Starts returns how many times the source was started.
func (m *ManualTicker) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Fired returns how many ticks were delivered.
func (m *ManualTicker) Fired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fired
}

// Fire delivers one tick. It reports false, without ticking, when the
// source is stopped.
func (m *ManualTicker) Fire() bool {
	m.mu.Lock()
	tick := m.tick
	if tick != nil {
		m.fired++
	}
	m.mu.Unlock()
	if tick == nil {
		return false
	}
	tick()
	return true
}

// FireN delivers up to n ticks, stopping early if the source stops. It
// returns the number delivered.
func (m *ManualTicker) FireN(n int) int {
	fired := 0
	for fired < n && m.Fire() {
		fired++
	}
	return fired
}

// FireUntilIdle ticks until the scheduler stops the source or limit ticks
// have been delivered. It returns the tick count and whether the source
// went idle.
func (m *ManualTicker) FireUntilIdle(limit int) (int, bool) {
	fired := 0
	for fired < limit {
		if !m.Fire() {
			return fired, true
		}
		fired++
	}
	return fired, !m.Active()
}

// NewScheduler returns a scheduler driven by a ManualTicker. The scheduler
// is disposed when tb finishes.
func NewScheduler(tb stdtesting.TB, opts ...animation.SchedulerOption) (*animation.Scheduler, *ManualTicker) {
	tb.Helper()
	ticker := &ManualTicker{}
	opts = append([]animation.SchedulerOption{animation.WithTickSource(ticker)}, opts...)
	s := animation.NewScheduler(animation.DefaultInterval, opts...)
	tb.Cleanup(s.Dispose)
	return s, ticker
}
