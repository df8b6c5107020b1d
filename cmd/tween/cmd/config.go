package cmd

import (
	"fmt"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration the other commands run with.

Settings come from the nearest tween.yaml found walking up from the current
directory. Missing fields take their defaults.`,
		Usage: "tween config",
		Run:   runConfig,
	})
}

func runConfig(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source := cfg.ConfigPath
	if source == "" {
		source = "(defaults)"
	}
	version := cfg.Version
	if version == "" {
		version = "(unset)"
	}

	fmt.Fprintf(stdout, "Project: %s\n", cfg.Project)
	if cfg.ModulePath != "" {
		fmt.Fprintf(stdout, "Module:  %s\n", cfg.ModulePath)
	}
	fmt.Fprintf(stdout, "Config:  %s\n", source)
	fmt.Fprintf(stdout, "Version: %s\n", version)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Scheduler:")
	fmt.Fprintf(stdout, "  enabled:   %v\n", cfg.Enabled)
	fmt.Fprintf(stdout, "  interval:  %s\n", cfg.Interval)
	fmt.Fprintf(stdout, "  parallel:  %v\n", cfg.Parallel)
	fmt.Fprintf(stdout, "  dont_wait: %v\n", cfg.DontWait)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Inspect:")
	fmt.Fprintf(stdout, "  addr: %s\n", cfg.InspectAddr)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Demo:")
	fmt.Fprintf(stdout, "  gradient:     %v\n", cfg.Gradient)
	fmt.Fprintf(stdout, "  linear_speed: %v\n", cfg.LinearSpeed)
	fmt.Fprintf(stdout, "  from:         %s\n", cfg.From)
	fmt.Fprintf(stdout, "  to:           %s\n", cfg.To)
	return nil
}
