// Package mocks provides test doubles for the ports interfaces.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
type CommandRunner struct {
	mu       sync.RWMutex
	results  map[string][]ports.CommandResult
	consumed map[string]int
	errors   map[string]error
	paths    map[string]string
	calls    []ports.CommandCall
	fallback *ports.CommandResult
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results:  make(map[string][]ports.CommandResult),
		consumed: make(map[string]int),
		errors:   make(map[string]error),
		paths:    make(map[string]string),
		calls:    make([]ports.CommandCall, 0),
	}
}

// AddResult registers an expected command and its results. With multiple
// results, successive invocations consume them in order; the last one
// repeats once the queue is drained.
func (m *CommandRunner) AddResult(command string, args []string, results ...ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := buildKey(command, args)
	m.results[key] = append(m.results[key], results...)
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// SetFallback makes unregistered commands return the given result instead
// of an error.
func (m *CommandRunner) SetFallback(result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &result
}

// AddPath registers an executable for LookPath.
func (m *CommandRunner) AddPath(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[name] = path
}

// Run executes a mock command.
func (m *CommandRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	return m.RunInput(ctx, "", command, args...)
}

// RunInput executes a mock command, recording the piped input.
func (m *CommandRunner) RunInput(_ context.Context, input, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, ports.CommandCall{Command: command, Args: args, Input: input})

	key := buildKey(command, args)

	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}
	if queue, ok := m.results[key]; ok {
		idx := m.consumed[key]
		if idx >= len(queue) {
			idx = len(queue) - 1
		} else {
			m.consumed[key]++
		}
		return queue[idx], nil
	}
	if m.fallback != nil {
		return *m.fallback, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// LookPath reports a registered executable path.
func (m *CommandRunner) LookPath(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if path, ok := m.paths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("executable %q not found in mock PATH", name)
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how many times the given command was invoked,
// regardless of arguments.
func (m *CommandRunner) CallCount(command string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, call := range m.calls {
		if call.Command == command {
			count++
		}
	}
	return count
}

func buildKey(command string, args []string) string {
	return command + " " + strings.Join(args, " ")
}

// Ensure CommandRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*CommandRunner)(nil)
