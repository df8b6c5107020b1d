package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-drift/tween/cmd/tween/internal/config"
	"github.com/go-drift/tween/pkg/animation"
	"github.com/go-drift/tween/pkg/graphics"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Animate a sample card",
		Long: `Animate the color, position, opacity, shadow and counter of a sample card on a
private scheduler and print each task's outcome.

Flags:
  --frames           Print every intermediate frame, not just the outcome
  --timeout DURATION Give up after DURATION (default: 10s)`,
		Usage: "tween demo [--frames] [--timeout DURATION]",
		Run:   runDemo,
	})
}

// card is the sample widget the demo and serve commands animate.
type card struct {
	mu      sync.Mutex
	color   graphics.Color
	offset  graphics.Offset
	opacity float64
	count   int
	shadow  graphics.Shadow
}

func (c *card) colorSlot() animation.Slot[graphics.Color] {
	return animation.GuardedSlot(c, "Color", &c.mu, &c.color)
}

func (c *card) offsetSlot() animation.Slot[graphics.Offset] {
	return animation.GuardedSlot(c, "Offset", &c.mu, &c.offset)
}

func (c *card) opacitySlot() animation.Slot[float64] {
	return animation.GuardedSlot(c, "Opacity", &c.mu, &c.opacity)
}

func (c *card) shadowSlot() animation.Slot[graphics.Shadow] {
	return animation.GuardedSlot(c, "Shadow", &c.mu, &c.shadow)
}

func (c *card) countSlot() animation.Slot[int] {
	return animation.GuardedSlot(c, "Count", &c.mu, &c.count)
}

// demoRun animates every member of c once and reports when all are done.
type demoRun struct {
	sched  *animation.Scheduler
	c      *card
	frames bool

	mu   sync.Mutex
	wg   sync.WaitGroup
	done []*animation.Task
}

func (d *demoRun) onUpdate(member string) func(*animation.Task) {
	return func(t *animation.Task) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if !t.Done() {
			fmt.Fprintf(stdout, "  %-8s frame %3d  %v\n", member, t.Frames(), t.Last())
			return
		}
		fmt.Fprintf(stdout, "  %-8s %-9s after %3d frames  %v\n", member, t.State(), t.Frames(), t.Last())
		d.done = append(d.done, t)
		d.wg.Done()
	}
}

func (d *demoRun) options(cfg *config.Resolved, member string) animation.Options {
	opts := cfg.DemoOptions()
	opts.NotifyFrames = d.frames
	opts.OnUpdate = d.onUpdate(member)
	opts.Tag = "demo"
	return opts
}

func (d *demoRun) start(cfg *config.Resolved) error {
	d.wg.Add(5)
	// Count ticks over in whole units, so it needs a real minimum step.
	countOpts := d.options(cfg, "Count")
	countOpts.LinearSpeed = max(countOpts.LinearSpeed, 1)

	steps := []func() error{
		func() error {
			_, err := animation.Animate(d.sched, d.c.colorSlot(), cfg.To, d.options(cfg, "Color"))
			return err
		},
		func() error {
			_, err := animation.Animate(d.sched, d.c.offsetSlot(), graphics.Offset{X: 240, Y: 80}, d.options(cfg, "Offset"))
			return err
		},
		func() error {
			_, err := animation.Animate(d.sched, d.c.opacitySlot(), 1.0, d.options(cfg, "Opacity"))
			return err
		},
		func() error {
			_, err := animation.Animate(d.sched, d.c.shadowSlot(), graphics.ShadowElevation(3, graphics.ColorBlack), d.options(cfg, "Shadow"))
			return err
		},
		func() error {
			_, err := animation.Animate(d.sched, d.c.countSlot(), 100, countOpts)
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			// Release the waits of the steps that never started.
			for range steps[i:] {
				d.wg.Done()
			}
			return err
		}
	}
	return nil
}

func runDemo(args []string) error {
	timeout := 10 * time.Second
	if v, ok, err := flagValue(args, "--timeout"); err != nil {
		return err
	} else if ok {
		if timeout, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sched := cfg.NewScheduler()
	defer sched.Dispose()

	c := &card{color: cfg.From, shadow: graphics.ShadowElevation(0, graphics.ColorBlack)}
	d := &demoRun{sched: sched, c: c, frames: hasFlag(args, "--frames")}

	fmt.Fprintf(stdout, "Animating card (gradient %v, linear speed %v, every %s)\n",
		cfg.Gradient, cfg.LinearSpeed, sched.Interval())
	start := time.Now()
	if err := d.start(cfg); err != nil {
		return err
	}

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(timeout):
		return fmt.Errorf("demo did not settle within %s (%d tasks running)", timeout, sched.Len())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(stdout, "Settled in %s: color %s, offset (%.1f, %.1f), opacity %.2f, count %d, shadow blur %.1f\n",
		time.Since(start).Round(time.Millisecond), c.color, c.offset.X, c.offset.Y, c.opacity, c.count, c.shadow.Blur)
	return nil
}
