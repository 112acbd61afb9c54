package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// run dispatches a command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "help", "-h", "--help":
		return runHelp(args[1:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "declpdf %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctor(args[1:], env)
	case "completion":
		return runCompletion(args[1:], env)
	case "convert":
		args = args[1:]
	}

	setMaxProcs(hasVerbose(args), env)

	err := runConvert(ctx, args, env)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, flag.ErrHelp):
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, topLevelHint(err))
	return exitCodeFor(err)
}

// topLevelHint returns a hint for errors raised before any file runs.
// Per-file failures already printed theirs.
func topLevelHint(err error) string {
	var batch *batchError
	if errors.As(err, &batch) {
		return ""
	}
	return hintFor(err)
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota.
func setMaxProcs(verbose bool, env *Environment) {
	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}
	// maxprocs.Set only fails on an invalid GOMAXPROCS; runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

func hasVerbose(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
