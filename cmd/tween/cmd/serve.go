package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-drift/tween/cmd/tween/internal/config"
	"github.com/go-drift/tween/pkg/animation"
	"github.com/go-drift/tween/pkg/graphics"
	"github.com/go-drift/tween/pkg/inspect"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Run a looping demo behind the inspection API",
		Long: `Run the shared scheduler with a card that pulses between the configured
colors forever, and serve the inspection API until interrupted.

Flags:
  --addr ADDR   Listen address (default: inspect.addr from tween.yaml, or :9099)

Endpoints:
  GET    /health
  GET    /api/scheduler
  PATCH  /api/scheduler        {"enabled":false,"interval_ms":40}
  GET    /api/animations
  DELETE /api/animations/ID    (?force=true for non-stoppable tasks)
  GET    /api/ticks
  GET    /api/strategies
  GET    /api/runtime
`,
		Usage: "tween serve [--addr ADDR]",
		Run:   runServe,
	})
}

// pulse bounces a card between two colors and two offsets until stopped.
type pulse struct {
	sched *animation.Scheduler
	c     *card
	opts  animation.Options
	from  graphics.Color
	to    graphics.Color
}

// again reports whether a finished leg should be followed by the next one.
// Legs that finish without ticking (a disabled scheduler, or a target equal
// to the current value) would otherwise recurse forever.
func (p *pulse) again(t *animation.Task) bool {
	return t.State() == animation.StateCompleted && t.Frames() > 0 && p.sched.Enabled()
}

func (p *pulse) colorTo(target graphics.Color) {
	opts := p.opts
	opts.Tag = "pulse"
	opts.OnUpdate = func(t *animation.Task) {
		if !p.again(t) {
			return
		}
		next := p.from
		if target == p.from {
			next = p.to
		}
		p.colorTo(next)
	}
	if _, err := animation.Animate(p.sched, p.c.colorSlot(), target, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
	}
}

func (p *pulse) slideTo(x float64) {
	opts := p.opts
	opts.Tag = "slide"
	// Sliding keeps going even when halted from the API without force.
	opts.Stoppable = false
	opts.OnUpdate = func(t *animation.Task) {
		if p.again(t) {
			p.slideTo(240 - x)
		}
	}
	if _, err := animation.Animate(p.sched, p.c.offsetSlot(), graphics.Offset{X: x}, opts); err != nil {
		fmt.Fprintf(os.Stderr, "slide: %v\n", err)
	}
}

func runServe(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.InspectAddr
	if v, ok, err := flagValue(args, "--addr"); err != nil {
		return err
	} else if ok {
		addr = v
	}

	gin.SetMode(gin.ReleaseMode)
	return serve(cfg, addr)
}

func serve(cfg *config.Resolved, addr string) error {
	sched := cfg.NewScheduler()
	prev := animation.SetShared(sched)
	defer func() {
		animation.SetShared(prev)
		sched.Dispose()
	}()

	srv := inspect.New(nil)
	bound, err := srv.Start(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Serving %s inspection API on http://%s\n", cfg.Project, bound)

	p := &pulse{sched: animation.Shared(), c: &card{color: cfg.From}, opts: cfg.DemoOptions(), from: cfg.From, to: cfg.To}
	p.colorTo(cfg.To)
	p.slideTo(240)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(stdout, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
