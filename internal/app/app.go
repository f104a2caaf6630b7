// Package app assembles groundwork's adapters, providers, and execution
// pipeline into a single object the CLI drives.
package app

import (
	"context"
	"fmt"
	"os/user"

	"github.com/felixgeelhaar/groundwork/internal/adapters/command"
	"github.com/felixgeelhaar/groundwork/internal/adapters/filesystem"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/execution"
	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/apt"
	"github.com/felixgeelhaar/groundwork/internal/provider/deb"
	"github.com/felixgeelhaar/groundwork/internal/provider/docker"
	"github.com/felixgeelhaar/groundwork/internal/provider/files"
	"github.com/felixgeelhaar/groundwork/internal/provider/git"
	"github.com/felixgeelhaar/groundwork/internal/provider/shell"
	"github.com/felixgeelhaar/groundwork/internal/provider/snap"
	"github.com/felixgeelhaar/groundwork/internal/provider/ssh"
	"github.com/felixgeelhaar/groundwork/internal/provider/system"
)

// Groundwork wires the provider catalog to the execution pipeline.
type Groundwork struct {
	runner   ports.CommandRunner
	fs       ports.FileSystem
	logger   ports.Logger
	settings config.Settings
	catalog  *step.Catalog
}

// New creates a Groundwork backed by the real system adapters, with all
// providers registered in their standard order.
func New(logger ports.Logger, settings config.Settings) (*Groundwork, error) {
	current, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("determining current user: %w", err)
	}
	return NewWithPorts(command.NewRealRunner(), filesystem.NewRealFileSystem(), logger, settings, current.Username), nil
}

// NewWithPorts creates a Groundwork on the given ports. Tests use it to
// substitute mocks for the system adapters.
func NewWithPorts(runner ports.CommandRunner, fs ports.FileSystem, logger ports.Logger, settings config.Settings, username string) *Groundwork {
	catalog := step.NewCatalog()

	// Registration order is the default execution order for steps with no
	// explicit dependency between them: package layers first, then user
	// environment, then daemons and host settings.
	catalog.Register(apt.NewProvider(runner, fs, settings.IndexMaxAge()))
	catalog.Register(snap.NewProvider(runner))
	catalog.Register(deb.NewProvider(runner, fs, settings.DownloadCommand))
	catalog.Register(files.NewProvider(fs, runner))
	catalog.Register(shell.NewProvider(fs, runner, username))
	catalog.Register(git.NewProvider(fs))
	catalog.Register(ssh.NewProvider(fs, runner))
	catalog.Register(docker.NewProvider(runner, fs, username, settings.DownloadCommand))
	catalog.Register(system.NewProvider(fs, runner))

	return &Groundwork{
		runner:   runner,
		fs:       fs,
		logger:   logger,
		settings: settings,
		catalog:  catalog,
	}
}

// Settings returns the loaded operator settings.
func (g *Groundwork) Settings() config.Settings {
	return g.settings
}

// Runner returns the command runner the providers use.
func (g *Groundwork) Runner() ports.CommandRunner {
	return g.runner
}

// FileSystem returns the filesystem port the providers use.
func (g *Groundwork) FileSystem() ports.FileSystem {
	return g.fs
}

// CheckPlatform verifies groundwork is running on a supported platform.
func (g *Groundwork) CheckPlatform(p *platform.Platform) error {
	if p.IsUbuntu() {
		return nil
	}
	return &config.UserError{
		Message:    fmt.Sprintf("unsupported platform: %s", p),
		Suggestion: "groundwork manages Ubuntu workstations; it relies on apt, snap, and systemd.",
	}
}

// BuildGraph compiles the desired-state document into a validated step
// graph. Configuration problems (unknown fields, duplicate step IDs,
// dependency cycles) surface here, before anything touches the system.
func (g *Groundwork) BuildGraph(doc *config.Document) (*step.Graph, error) {
	return g.catalog.Build(step.NewSource(doc.Sections()))
}

// Plan probes every step in the graph and returns the execution plan.
func (g *Groundwork) Plan(ctx context.Context, doc *config.Document) (*execution.Plan, error) {
	graph, err := g.BuildGraph(doc)
	if err != nil {
		return nil, err
	}

	g.logger.Debug(ctx, "graph built", ports.F("steps", graph.Len()))

	return execution.NewPlanner().WithSudo(g.settings.SudoCommand).Plan(ctx, graph)
}

// Apply executes the plan and returns the aggregated report.
func (g *Groundwork) Apply(ctx context.Context, plan *execution.Plan) *execution.Report {
	report := execution.NewExecutor().WithSudo(g.settings.SudoCommand).Execute(ctx, plan)

	summary := report.Summary()
	g.logger.Debug(ctx, "run finished",
		ports.F("run_id", report.RunID()),
		ports.F("applied", summary.Applied),
		ports.F("satisfied", summary.Satisfied),
		ports.F("failed", summary.Failed),
		ports.F("skipped", summary.Skipped))

	return report
}

// RebootPending reports whether the distribution has flagged a pending
// reboot since the last kernel or core-library update.
func (g *Groundwork) RebootPending() bool {
	return g.fs.Exists(g.settings.RebootRequiredPath)
}
