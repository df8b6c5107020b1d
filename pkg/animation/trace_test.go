package animation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tween/pkg/animation"
	tweentest "github.com/go-drift/tween/pkg/testing"
)

func TestTickTrace_Wraps(t *testing.T) {
	trace := animation.NewTickTrace(3, 10*time.Millisecond)
	for i := 1; i <= 5; i++ {
		trace.Add(animation.TickSample{Tasks: i}, time.Duration(i)*4*time.Millisecond)
	}

	tl := trace.Snapshot()
	require.Len(t, tl.Samples, 3)
	assert.Equal(t, 3, tl.Samples[0].Tasks)
	assert.Equal(t, 5, tl.Samples[2].Tasks)
	// 12ms, 16ms and 20ms exceed the threshold.
	assert.Equal(t, 3, tl.SlowTicks)
	assert.Equal(t, 10.0, tl.ThresholdMs)
	assert.Equal(t, 3, trace.Capacity())
}

func TestTickTrace_Empty(t *testing.T) {
	trace := animation.NewTickTrace(0, 0)
	assert.Equal(t, 240, trace.Capacity())
	assert.Equal(t, animation.DefaultInterval, trace.Threshold())
	assert.Empty(t, trace.Snapshot().Samples)
}

func TestScheduler_Timeline(t *testing.T) {
	clk := tweentest.UseFakeClock(t)
	sched, ticker := tweentest.NewScheduler(t, animation.WithTrace(16))
	a, b := &box{}, &box{}

	_, err := animation.Animate(sched, a.widthSlot(), 100, halving())
	require.NoError(t, err)
	_, err = animation.Animate(sched, brokenSlot(b), 100, halving())
	require.NoError(t, err)
	recordErrors(t)

	ticker.Fire()
	clk.Advance(time.Second)
	ticks, idle := ticker.FireUntilIdle(100)
	require.True(t, idle)

	tl := sched.Timeline()
	require.Len(t, tl.Samples, ticks+1)
	first, last := tl.Samples[0], tl.Samples[len(tl.Samples)-1]
	assert.Equal(t, clk.Now().Add(-time.Second).UnixMilli(), first.Timestamp)
	assert.Equal(t, 2, first.Tasks)
	assert.Equal(t, 1, first.Halted)
	assert.Equal(t, 1, first.Failed)
	assert.Equal(t, 1, last.Tasks)
	assert.Equal(t, 1, last.Completed)
}
