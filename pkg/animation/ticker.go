package animation

import (
	"runtime"
	"sync"
	"time"
)

// TickSource drives a scheduler's ticks while it has work.
//
// The scheduler calls Start when its first task is registered and Stop as
// soon as the last one finishes, so an idle scheduler costs nothing. Stop
// may be called from inside tick and must not wait for tick to return.
type TickSource interface {
	Start(tick func())
	Stop()
}

// timerSource ticks on a goroutine. The period is read before every wait,
// so interval changes apply from the next tick.
type timerSource struct {
	interval func() time.Duration
	dontWait func() bool

	mu   sync.Mutex
	stop chan struct{}
}

func newTimerSource(interval func() time.Duration, dontWait func() bool) *timerSource {
	return &timerSource{interval: interval, dontWait: dontWait}
}

// Start launches the tick goroutine unless one is already running.
func (ts *timerSource) Start(tick func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.stop != nil {
		return
	}
	stop := make(chan struct{})
	ts.stop = stop
	go ts.loop(stop, tick)
}

// Stop signals the tick goroutine to exit after its current tick.
func (ts *timerSource) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.stop == nil {
		return
	}
	close(ts.stop)
	ts.stop = nil
}

func (ts *timerSource) loop(stop <-chan struct{}, tick func()) {
	timer := time.NewTimer(ts.interval())
	defer timer.Stop()
	for {
		if ts.dontWait() {
			select {
			case <-stop:
				return
			default:
			}
			tick()
			runtime.Gosched()
			continue
		}
		select {
		case <-stop:
			return
		case <-timer.C:
		}
		select {
		case <-stop:
			return
		default:
		}
		tick()
		timer.Reset(ts.interval())
	}
}

// dispatcher runs halt callbacks in order on a single goroutine, started on
// demand and exiting when the queue drains. Halt never blocks on a callback.
type dispatcher struct {
	mu      sync.Mutex
	queue   []func()
	running bool
	idle    *sync.Cond
}

func (d *dispatcher) post(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, fn)
	if !d.running {
		d.running = true
		go d.drain()
	}
}

func (d *dispatcher) drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.running = false
			if d.idle != nil {
				d.idle.Broadcast()
			}
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()
		fn()
	}
}

// wait blocks until the queue is empty and no callback is running.
func (d *dispatcher) wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.idle == nil {
		d.idle = sync.NewCond(&d.mu)
	}
	for d.running {
		d.idle.Wait()
	}
}
