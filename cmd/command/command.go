// Package command implements the kcconfig commands.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
)

const (
	cmdBuild      = "build"
	cmdStart      = "start"
	cmdStartDev   = "start-dev"
	cmdValidate   = "validate"
	cmdShowConfig = "show-config"
	cmdEnv        = "env"
	cmdOptions    = "options"
)

// runFunc executes a command. kcArgs are the Keycloak options given on the
// command line and args the remaining positional arguments.
type runFunc func(ctx context.Context, c *invocation) error

type invocation struct {
	name   string
	opts   *Options
	kcArgs []string
	args   []string
	log    logr.Logger
	out    io.Writer
	// environ is the process environment, os.Environ() outside of tests
	environ []string
}

var commands = map[string]struct {
	run   runFunc
	short string
}{
	cmdBuild:      {runBuild, "Validate the build-time options and persist them"},
	cmdStart:      {runStart, "Validate the configuration and print the resolved server properties"},
	cmdStartDev:   {runStartDev, "Like start, in development mode with the dev profile"},
	cmdValidate:   {runValidate, "Validate the configuration"},
	cmdShowConfig: {runShowConfig, "Print the effective configuration: show-config [all|current|<profile>]"},
	cmdEnv:        {runEnv, "Render Keycloak options as Kubernetes environment variables"},
	cmdOptions:    {runOptions, "List the available options"},
}

// Usage prints the available commands
func Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: kcconfig <command> [flags] [keycloak options]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].short)
	}
}

// Run executes the named command with the given arguments
func Run(name string, args []string) {
	if err := execute(name, args, os.Stdout, os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			Usage(os.Stderr)
		}
		os.Exit(1)
	}
}

type usageError struct{ error }

func execute(name string, args []string, out io.Writer, environ []string) error {
	cmd, ok := commands[name]
	if !ok {
		return usageError{fmt.Errorf("unknown command %q", name)}
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	opts := &Options{}
	opts.BindFlags(fs, name)

	own, kcArgs := splitArgs(fs, args)
	if err := fs.Parse(own); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	// Setup logger
	opts.zapOpts.Development = opts.Verbose
	log := zap.New(zap.UseFlagOptions(&opts.zapOpts)).WithName("kcconfig")

	if err := opts.Validate(name); err != nil {
		return err
	}

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := cmd.run(ctx, &invocation{
		name:    name,
		opts:    opts,
		kcArgs:  kcArgs,
		args:    fs.Args(),
		log:     log,
		out:     out,
		environ: environ,
	})

	// failed runs are exported too
	if opts.MetricsFile != "" {
		if werr := metrics.WriteFile(opts.MetricsFile); werr != nil {
			err = errors.Join(err, werr)
		}
	}
	return err
}
