// Package ports defines the interfaces groundwork uses to talk to the
// outside world: process execution, the filesystem, and logging.
package ports

import (
	"context"
)

// CommandResult holds the outcome of an executed command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a single command invocation.
type CommandCall struct {
	Command string
	Args    []string
	Input   string
}

// CommandRunner executes external commands. Every step that probes or
// mutates system state through a package manager or system tool goes
// through this interface so tests can substitute recorded results.
type CommandRunner interface {
	// Run executes the command and returns its result. A non-zero exit
	// code is reported through CommandResult, not as an error; the error
	// return is reserved for failures to start the process at all.
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)

	// RunInput is Run with the given string piped to the command's stdin.
	// Steps use it to write root-owned files through sudo tee without a
	// shell in between.
	RunInput(ctx context.Context, input, command string, args ...string) (CommandResult, error)

	// LookPath reports the absolute path of an executable, or an error
	// if it is not on PATH.
	LookPath(name string) (string, error)
}
