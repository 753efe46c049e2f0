// Command man2html converts manual pages to HTML, and optionally PDF.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-man2html"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommands. Any other first argument is a page.
var commands = map[string]bool{
	"convert":    true,
	"version":    true,
	"help":       true,
	"doctor":     true,
	"completion": true,
}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// isCommand reports whether arg names a subcommand. Matching is case
// sensitive so pages such as "Help" stay pages.
func isCommand(arg string) bool {
	return commands[arg]
}

// runMain dispatches the command line and returns the exit code.
// "man2html ls(1)" is short for "man2html convert ls(1)".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "version":
		printVersion(env)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, "error:", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}
	return runConvertCmd(rest, env)
}

func printVersion(env *Environment) {
	fmt.Fprintf(env.Stdout, "man2html %s\n", Version)
}

// runConvertCmd parses the convert flags, sets up logging and signal
// handling, and runs the conversion.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}
	if flags.version {
		printVersion(env)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	setMaxProcs(logger)
	warnUnknownEnvVars(logger)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota. Adjustments
// are logged at debug level, so they only show with --verbose.
func setMaxProcs(logger *slog.Logger) {
	// maxprocs.Set only fails on an invalid GOMAXPROCS, in which case the
	// runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}

// poolAdapter adapts *man2html.ConverterPool to the Pool interface.
type poolAdapter struct {
	pool *man2html.ConverterPool
}

// Compile-time interface implementation check.
var _ Pool = (*poolAdapter)(nil)

func newPoolAdapter(size int, opts ...man2html.Option) Pool {
	return &poolAdapter{pool: man2html.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	c, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics when given a converter the pool did not hand out.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*man2html.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
