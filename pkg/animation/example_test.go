package animation_test

import (
	"fmt"

	"github.com/go-drift/tween/pkg/animation"
	tweentest "github.com/go-drift/tween/pkg/testing"
)

type progressBar struct {
	width int
}

// This example halves the remaining distance on every tick, with a minimum
// step of two units.
func ExampleAnimate() {
	ticker := &tweentest.ManualTicker{}
	sched := animation.NewScheduler(animation.DefaultInterval, animation.WithTickSource(ticker))
	defer sched.Dispose()

	bar := &progressBar{}
	opts := animation.DefaultOptions()
	opts.Gradient = 0.5
	opts.LinearSpeed = 2
	opts.OnUpdate = func(t *animation.Task) {
		fmt.Println(t.State(), "after", t.Frames(), "frames")
	}

	if _, err := animation.Animate(sched, animation.FieldSlot(bar, "Width", &bar.width), 100, opts); err != nil {
		fmt.Println(err)
		return
	}
	for ticker.Fire() {
		fmt.Println(bar.width)
	}
	// Output:
	// 50
	// 75
	// 87
	// 93
	// 96
	// completed after 6 frames
	// 100
}

// Halting a task queues its callback; Flush waits for it.
func ExampleScheduler_Halt() {
	ticker := &tweentest.ManualTicker{}
	sched := animation.NewScheduler(animation.DefaultInterval, animation.WithTickSource(ticker))
	defer sched.Dispose()

	bar := &progressBar{}
	slot := animation.FieldSlot(bar, "Width", &bar.width)
	opts := animation.DefaultOptions()
	opts.Gradient = 0.5
	opts.OnUpdate = func(t *animation.Task) {
		fmt.Println(t.State(), t.Reason())
	}

	_, _ = animation.Animate(sched, slot, 100, opts)
	ticker.Fire()
	halted := sched.HaltSlot(slot)
	sched.Flush()
	fmt.Println(halted, sched.HaltSlot(slot), bar.width)
	// Output:
	// halted explicit
	// true false 50
}
