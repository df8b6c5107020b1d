// Package config loads the optional tween.yaml that tunes the tween CLI.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/tween/pkg/animation"
	"github.com/go-drift/tween/pkg/graphics"
)

// FileName is the configuration file looked up by FindRoot and LoadOptional.
const FileName = "tween.yaml"

// SupportedMajor is the only config schema major version this build reads.
const SupportedMajor = "v1"

// Default values used when tween.yaml omits a field.
const (
	DefaultInspectAddr = ":9099"
	DefaultGradient    = 0.3
	DefaultLinearSpeed = 1
	DefaultFrom        = "black"
	DefaultTo          = "cornflowerblue"
)

// Config represents the optional tween.yaml configuration.
type Config struct {
	Version   string          `yaml:"version,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Inspect   InspectConfig   `yaml:"inspect"`
	Demo      DemoConfig      `yaml:"demo"`
}

// SchedulerConfig contains scheduler settings.
type SchedulerConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Interval string `yaml:"interval,omitempty"`
	Parallel bool   `yaml:"parallel,omitempty"`
	DontWait bool   `yaml:"dont_wait,omitempty"`
}

// InspectConfig contains inspection server settings.
type InspectConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// DemoConfig tunes the demo animation.
type DemoConfig struct {
	Gradient    float64 `yaml:"gradient,omitempty"`
	LinearSpeed float64 `yaml:"linear_speed,omitempty"`
	From        string  `yaml:"from,omitempty"`
	To          string  `yaml:"to,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ConfigPath string
	ModulePath string
	Project    string
	Version    string

	Enabled  bool
	Interval time.Duration
	Parallel bool
	DontWait bool

	InspectAddr string

	Gradient    float64
	LinearSpeed float64
	From        graphics.Color
	To          graphics.Color
}

// LoadOptional reads tween.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads tween.yaml (if present) from dir and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Root:        dir,
		Enabled:     true,
		Interval:    animation.DefaultInterval,
		Parallel:    cfg.Scheduler.Parallel,
		DontWait:    cfg.Scheduler.DontWait,
		InspectAddr: DefaultInspectAddr,
		Gradient:    DefaultGradient,
		LinearSpeed: DefaultLinearSpeed,
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
		r.ConfigPath = filepath.Join(dir, FileName)
	}

	r.ModulePath = modulePath(dir)
	r.Project = projectName(r.ModulePath, dir)

	if v := strings.TrimSpace(cfg.Version); v != "" {
		if err := validateVersion(v); err != nil {
			return nil, err
		}
		r.Version = semver.Canonical(v)
	}

	if cfg.Scheduler.Enabled != nil {
		r.Enabled = *cfg.Scheduler.Enabled
	}
	if s := strings.TrimSpace(cfg.Scheduler.Interval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("scheduler.interval: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("scheduler.interval must be positive (got %s)", s)
		}
		r.Interval = d
	}

	if addr := strings.TrimSpace(cfg.Inspect.Addr); addr != "" {
		r.InspectAddr = addr
	}

	if cfg.Demo.Gradient != 0 {
		r.Gradient = cfg.Demo.Gradient
	}
	if cfg.Demo.LinearSpeed != 0 {
		r.LinearSpeed = cfg.Demo.LinearSpeed
	}
	if math.IsNaN(r.Gradient) || r.Gradient <= 0 || r.Gradient > 1 {
		return nil, fmt.Errorf("demo.gradient must be in (0, 1] (got %v)", r.Gradient)
	}
	if math.IsNaN(r.LinearSpeed) || r.LinearSpeed < 0 {
		return nil, fmt.Errorf("demo.linear_speed cannot be negative (got %v)", r.LinearSpeed)
	}

	if r.From, err = parseColor("demo.from", cfg.Demo.From, DefaultFrom); err != nil {
		return nil, err
	}
	if r.To, err = parseColor("demo.to", cfg.Demo.To, DefaultTo); err != nil {
		return nil, err
	}

	return r, nil
}

// NewScheduler builds a scheduler with the resolved settings.
func (r *Resolved) NewScheduler(opts ...animation.SchedulerOption) *animation.Scheduler {
	base := []animation.SchedulerOption{
		animation.WithEnabled(r.Enabled),
		animation.WithParallelDispatch(r.Parallel),
		animation.WithDontWait(r.DontWait),
	}
	return animation.NewScheduler(r.Interval, append(base, opts...)...)
}

// DemoOptions returns animation options with the demo's gradient and speed.
func (r *Resolved) DemoOptions() animation.Options {
	opts := animation.DefaultOptions()
	opts.Gradient = r.Gradient
	opts.LinearSpeed = r.LinearSpeed
	return opts
}

// FindRoot walks up from start to the first directory holding tween.yaml,
// falling back to the nearest go.mod and then to start itself.
func FindRoot(start string) string {
	moduleRoot := ""
	for dir := start; ; {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir
		}
		if moduleRoot == "" {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				moduleRoot = dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if moduleRoot != "" {
		return moduleRoot
	}
	return start
}

func validateVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a semantic version (want e.g. v1.0.0)", v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("version %s is not supported (this build reads %s.x.x)", v, SupportedMajor)
	}
	return nil
}

func parseColor(field, value, fallback string) (graphics.Color, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	c, err := graphics.ParseColor(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return c, nil
}

// modulePath returns the module path of dir's go.mod, or "".
func modulePath(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func projectName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		prefix, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "tween"
	}
	return base
}
