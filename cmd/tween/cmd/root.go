// Package cmd implements the tween CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (demo, serve, config).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/tween/cmd/tween/internal/config"
	"github.com/go-drift/tween/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = struct {
	Long  string
	Usage string
}{
	Long: `tween moves widget properties toward their targets on a shared tick.

Use "tween <command> --help" for more information about a command.`,
	Usage: "tween <command> [flags]",
}

// Commands registered with the CLI, in registration order.
var (
	commands = make(map[string]*Command)
	ordered  []*Command
)

// stdout is where commands print; tests swap it.
var stdout io.Writer = os.Stdout

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	ordered = append(ordered, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	var filtered []string
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			if len(filtered) == 0 {
				printHelp()
				return nil
			}
			filtered = append(filtered, arg)
		case "-v", "--version", "version":
			if len(filtered) == 0 {
				fmt.Fprintf(stdout, "tween version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filtered = append(filtered, arg)
		case "--verbose":
			errors.SetHandler(&errors.LogHandler{Verbose: true})
		default:
			filtered = append(filtered, arg)
		}
	}
	args = filtered

	if len(args) == 0 {
		printHelp()
		return nil
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", name)
		printHelp()
		return fmt.Errorf("unknown command: %s", name)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func printHelp() {
	fmt.Fprintln(stdout, rootCmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range ordered {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout, "  --verbose            Include kinds, slots and stacks in error reports")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  tween demo --frames      Print every frame of the demo animation")
	fmt.Fprintln(stdout, "  tween serve --addr :8080 Serve the inspection API on port 8080")
	fmt.Fprintln(stdout, "  tween config             Show the resolved configuration")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}

// loadConfig resolves tween.yaml from the working directory upward.
func loadConfig() (*config.Resolved, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(config.FindRoot(wd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// flagValue returns the value of --name or --name=value in args.
func flagValue(args []string, name string) (string, bool, error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == name {
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				return "", false, fmt.Errorf("%s requires a value", name)
			}
			return args[i+1], true, nil
		}
		if v, ok := strings.CutPrefix(arg, name+"="); ok {
			return v, true, nil
		}
	}
	return "", false, nil
}

func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}
