package animation_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tween/pkg/animation"
	tweentest "github.com/go-drift/tween/pkg/testing"
)

func TestHalt_Idempotent(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	b := &box{}
	var cb calls
	opts := halving()
	opts.OnUpdate = cb.record

	task, err := animation.Animate(sched, b.widthSlot(), 100, opts)
	require.NoError(t, err)
	ticker.Fire()

	assert.True(t, sched.Halt(b.widthSlot(), false, true))
	assert.False(t, sched.Halt(b.widthSlot(), false, true))
	assert.False(t, sched.HaltSlot(b.widthSlot()))
	sched.Flush()

	assert.Equal(t, animation.StateHalted, task.State())
	assert.Equal(t, animation.ReasonExplicit, task.Reason())
	assert.Equal(t, []animation.State{animation.StateHalted}, cb.snapshot())
	assert.Equal(t, 50, b.Width())
	assert.False(t, ticker.Active())
	assert.False(t, ticker.Fire())
}

func TestHalt_WithoutCallback(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	b := &box{}
	var cb calls
	opts := halving()
	opts.OnUpdate = cb.record

	_, err := animation.Animate(sched, b.widthSlot(), 100, opts)
	require.NoError(t, err)
	assert.True(t, sched.Halt(b.widthSlot(), false, false))
	sched.Flush()
	assert.Equal(t, 0, cb.count())
}

func TestHalt_NonStoppableNeedsForce(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	b := &box{}
	opts := halving()
	opts.Stoppable = false

	task, err := animation.Animate(sched, b.widthSlot(), 100, opts)
	require.NoError(t, err)

	assert.False(t, sched.HaltSlot(b.widthSlot()))
	assert.Equal(t, animation.StateRunning, task.State())
	assert.True(t, sched.Halt(b.widthSlot(), true, true))
	assert.Equal(t, animation.StateHalted, task.State())
}

func TestHalt_UnknownSlot(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	assert.False(t, sched.Halt(animation.SlotKey{Owner: &box{}, Member: "Width"}, true, true))
}

func TestHaltID(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	a, b := &box{}, &box{}
	var cb calls
	opts := halving()
	opts.OnUpdate = cb.record

	ta, err := animation.Animate(sched, a.widthSlot(), 100, opts)
	require.NoError(t, err)
	tb, err := animation.Animate(sched, b.widthSlot(), 100, opts)
	require.NoError(t, err)

	assert.True(t, sched.HaltID(tb.ID(), false))
	assert.False(t, sched.HaltID(tb.ID(), false))
	assert.False(t, sched.HaltID(tb.ID()+1000, true))
	sched.Flush()

	assert.Equal(t, animation.StateRunning, ta.State())
	assert.Equal(t, animation.ReasonExplicit, tb.Reason())
	assert.Equal(t, 1, cb.count())
	assert.Equal(t, 1, sched.Len())
}

func TestScheduler_SlotIdentityIgnoresValue(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	a, b := &box{}, &box{}

	_, err := animation.Animate(sched, a.widthSlot(), 100, halving())
	require.NoError(t, err)
	_, err = animation.Animate(sched, b.widthSlot(), 100, halving())
	require.NoError(t, err)
	_, err = animation.Animate(sched, a.opacitySlot(), 1.0, halving())
	require.NoError(t, err)

	assert.Equal(t, 3, sched.Len())
	assert.True(t, sched.Active(animation.SlotKey{Owner: a, Member: "Width"}))
	assert.False(t, sched.Active(animation.SlotKey{Owner: a, Member: "Height"}))
}

func TestScheduler_SetEnabledPausesTicking(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	b := &box{}

	task, err := animation.Animate(sched, b.widthSlot(), 100, halving())
	require.NoError(t, err)
	ticker.Fire()

	sched.SetEnabled(false)
	assert.False(t, sched.Enabled())
	assert.False(t, ticker.Active())
	assert.Equal(t, 1, sched.Len())
	assert.Equal(t, animation.StateRunning, task.State())

	sched.SetEnabled(true)
	assert.True(t, ticker.Active())
	assert.Equal(t, 2, ticker.Starts())
	_, idle := ticker.FireUntilIdle(100)
	require.True(t, idle)
	assert.Equal(t, 100, b.Width())
}

func TestScheduler_Dispose(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	b := &box{}
	var cb calls
	opts := halving()
	opts.OnUpdate = cb.record

	task, err := animation.Animate(sched, b.widthSlot(), 100, opts)
	require.NoError(t, err)
	sched.Dispose()
	sched.Dispose()
	sched.Flush()

	assert.True(t, sched.Disposed())
	assert.Equal(t, animation.ReasonDisposed, task.Reason())
	assert.Equal(t, 0, cb.count())
	assert.False(t, ticker.Active())
	assert.False(t, sched.Halt(b.widthSlot(), true, true))
	assert.NoError(t, sched.Tick())
	assert.Equal(t, 0, b.Width())
}

func TestScheduler_QuiescentAfterCompletion(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	b := &box{}
	assert.False(t, sched.Ticking())

	_, err := animation.Animate(sched, b.widthSlot(), 4, halving())
	require.NoError(t, err)
	assert.True(t, sched.Ticking())
	_, idle := ticker.FireUntilIdle(10)
	require.True(t, idle)
	assert.False(t, sched.Ticking())

	// New work restarts the source.
	_, err = animation.Animate(sched, b.widthSlot(), 0, halving())
	require.NoError(t, err)
	assert.True(t, sched.Ticking())
	assert.Equal(t, 2, ticker.Starts())
}

func TestScheduler_ParallelDispatch(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t, animation.WithParallelDispatch(true))
	boxes := make([]*box, 64)
	for i := range boxes {
		boxes[i] = &box{}
		_, err := animation.Animate(sched, boxes[i].widthSlot(), 10*(i+1), halving())
		require.NoError(t, err)
	}
	assert.True(t, sched.Parallel())

	_, idle := ticker.FireUntilIdle(100)
	require.True(t, idle)
	for i, b := range boxes {
		assert.Equal(t, 10*(i+1), b.Width(), "box %d", i)
	}
}

func TestScheduler_ParallelKeepsEveryWriteFailure(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t, animation.WithParallelDispatch(true))
	opts := halving()
	opts.Policy = animation.PolicyThrow

	healthy := make([]*box, 8)
	for i := range healthy {
		healthy[i] = &box{}
		_, err := animation.Animate(sched, healthy[i].widthSlot(), 100, opts)
		require.NoError(t, err)
	}
	for range 8 {
		_, err := animation.Animate(sched, brokenSlot(&box{}), 100, opts)
		require.NoError(t, err)
	}

	err := sched.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "want a joined error, got %T", err)
	assert.Len(t, joined.Unwrap(), 8)

	tl := sched.Timeline()
	require.Len(t, tl.Samples, 1)
	assert.Equal(t, 16, tl.Samples[0].Tasks)
	assert.Equal(t, 8, tl.Samples[0].Failed)
	assert.Equal(t, 8, sched.Len())
	for i, b := range healthy {
		assert.Equal(t, 50, b.Width(), "box %d", i)
	}
}

func TestScheduler_ConcurrentAnimate(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	boxes := make([]*box, 16)
	for i := range boxes {
		boxes[i] = &box{}
	}

	// Ticks from other goroutines may land between a read and a register, so
	// interference detection is off.
	opts := halving()
	opts.Stoppable = false

	var wg sync.WaitGroup
	for i, b := range boxes {
		wg.Add(1)
		go func(i int, b *box) {
			defer wg.Done()
			for target := 1; target <= 5; target++ {
				_, err := animation.Animate(sched, b.widthSlot(), target*(i+1), opts)
				assert.NoError(t, err)
				ticker.Fire()
			}
		}(i, b)
	}
	wg.Wait()

	_, idle := ticker.FireUntilIdle(100)
	require.True(t, idle)
	for i, b := range boxes {
		assert.Equal(t, 5*(i+1), b.Width(), "box %d", i)
	}
	assert.Equal(t, 0, sched.Len())
}

func TestScheduler_Snapshot(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	a, b := &box{}, &box{}
	opts := halving()
	opts.Tag = "grow"

	ta, err := animation.Animate(sched, a.widthSlot(), 100, opts)
	require.NoError(t, err)
	tb, err := animation.Animate(sched, b.opacitySlot(), 1.0, animation.DefaultOptions())
	require.NoError(t, err)
	ticker.Fire()

	infos := sched.Snapshot()
	require.Len(t, infos, 2)
	assert.Equal(t, ta.ID(), infos[0].ID)
	assert.Equal(t, tb.ID(), infos[1].ID)

	assert.Equal(t, "*animation_test.box.Width", infos[0].Slot)
	assert.Equal(t, "running", infos[0].State)
	assert.Equal(t, "100", infos[0].Target)
	assert.Equal(t, "50", infos[0].Last)
	assert.Equal(t, 1, infos[0].Frames)
	assert.Equal(t, "grow", infos[0].Tag)
	assert.Equal(t, "log", infos[0].Policy)
	assert.Empty(t, infos[0].Reason)
}

func TestScheduler_Settings(t *testing.T) {
	sched := animation.NewScheduler(0, animation.WithTickSource(&tweentest.ManualTicker{}), animation.WithDontWait(true))
	defer sched.Dispose()

	assert.Equal(t, animation.DefaultInterval, sched.Interval())
	sched.SetInterval(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, sched.Interval())
	sched.SetInterval(-1)
	assert.Equal(t, animation.DefaultInterval, sched.Interval())

	assert.True(t, sched.DontWait())
	sched.SetDontWait(false)
	assert.False(t, sched.DontWait())
	sched.SetParallel(true)
	assert.True(t, sched.Parallel())
}

func TestShared(t *testing.T) {
	mine, ticker := tweentest.NewScheduler(t)
	prev := animation.SetShared(mine)
	t.Cleanup(func() { animation.SetShared(prev) })
	assert.Same(t, mine, animation.Shared())

	b := &box{}
	_, err := animation.Animate(nil, b.widthSlot(), 8, halving())
	require.NoError(t, err)
	assert.True(t, mine.Active(b.widthSlot()))
	ticker.FireUntilIdle(10)
	assert.Equal(t, 8, b.Width())

	animation.SetShared(nil)
	fresh := animation.Shared()
	assert.NotSame(t, mine, fresh)
	fresh.Dispose()
}

func TestTimerSource(t *testing.T) {
	for _, dontWait := range []bool{false, true} {
		t.Run(fmt.Sprintf("dontWait=%v", dontWait), func(t *testing.T) {
			sched := animation.NewScheduler(time.Millisecond, animation.WithDontWait(dontWait))
			t.Cleanup(sched.Dispose)
			b := &box{}
			done := make(chan *animation.Task, 1)
			opts := halving()
			opts.OnUpdate = func(task *animation.Task) { done <- task }

			_, err := animation.Animate(sched, b.widthSlot(), 100, opts)
			require.NoError(t, err)

			select {
			case task := <-done:
				assert.Equal(t, animation.StateCompleted, task.State())
			case <-time.After(5 * time.Second):
				t.Fatal("animation did not complete")
			}
			assert.Equal(t, 100, b.Width())
			assert.Eventually(t, func() bool { return !sched.Ticking() }, time.Second, time.Millisecond)
		})
	}
}

func TestTimerSource_HaltFromCallbackDoesNotDeadlock(t *testing.T) {
	sched := animation.NewScheduler(time.Millisecond)
	t.Cleanup(sched.Dispose)
	a, b := &box{}, &box{}
	halted := make(chan struct{})

	opts := halving()
	opts.NotifyFrames = true
	opts.OnUpdate = func(task *animation.Task) {
		if task.State() == animation.StateRunning && sched.HaltSlot(b.widthSlot()) {
			close(halted)
		}
	}
	_, err := animation.Animate(sched, b.widthSlot(), 1000, halving())
	require.NoError(t, err)
	_, err = animation.Animate(sched, a.widthSlot(), 1000, opts)
	require.NoError(t, err)

	select {
	case <-halted:
	case <-time.After(5 * time.Second):
		t.Fatal("halt from callback did not return")
	}
}
