// Package selfupdate fast-forwards the groundwork checkout before a run so
// the machine is bootstrapped from current code. The guard never blocks a
// run: anything short of a successful fast-forward logs and steps aside.
package selfupdate

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Result describes what the guard did.
type Result int

const (
	// ResultUpToDate means the checkout already matches upstream.
	ResultUpToDate Result = iota
	// ResultUpdated means the checkout was fast-forwarded. The caller
	// should tell the user to re-run and stop without applying anything.
	ResultUpdated
	// ResultSkippedNoRepo means the binary does not live in a git
	// checkout, so there is nothing to update.
	ResultSkippedNoRepo
	// ResultSkippedDirty means the checkout has local modifications.
	// The run proceeds on the code that is there.
	ResultSkippedDirty
	// ResultSkippedDiverged means local commits prevent a fast-forward.
	ResultSkippedDiverged
)

// String returns a short human-readable form of the result.
func (r Result) String() string {
	switch r {
	case ResultUpToDate:
		return "up to date"
	case ResultUpdated:
		return "updated"
	case ResultSkippedNoRepo:
		return "skipped (not a git checkout)"
	case ResultSkippedDirty:
		return "skipped (local changes)"
	case ResultSkippedDiverged:
		return "skipped (local commits)"
	default:
		return "unknown"
	}
}

// Guard checks for and applies upstream updates to the checkout that
// contains the running binary.
type Guard struct {
	runner   ports.CommandRunner
	logger   ports.Logger
	startDir string
	remote   string
	branch   string
}

// NewGuard creates a Guard. startDir is any directory inside the checkout,
// typically the directory of the running binary.
func NewGuard(runner ports.CommandRunner, logger ports.Logger, startDir, remote, branch string) *Guard {
	return &Guard{
		runner:   runner,
		logger:   logger,
		startDir: startDir,
		remote:   remote,
		branch:   branch,
	}
}

// Run performs the update check. A non-nil error means the guard could not
// complete (for example the fetch failed); callers should log it and
// proceed with the run rather than abort.
func (g *Guard) Run(ctx context.Context) (Result, error) {
	root, ok, err := g.repoRoot(ctx)
	if err != nil {
		return ResultSkippedNoRepo, err
	}
	if !ok {
		g.logger.Debug(ctx, "self-update: not running from a git checkout", ports.F("dir", g.startDir))
		return ResultSkippedNoRepo, nil
	}

	dirty, err := g.isDirty(ctx, root)
	if err != nil {
		return ResultSkippedDirty, err
	}
	if dirty {
		g.logger.Warn(ctx, "self-update: checkout has local changes, skipping update", ports.F("repo", root))
		return ResultSkippedDirty, nil
	}

	before, err := g.head(ctx, root)
	if err != nil {
		return ResultUpToDate, err
	}

	fetch, err := g.runner.Run(ctx, "git", "-C", root, "fetch", "--quiet", g.remote, g.branch)
	if err != nil {
		return ResultUpToDate, fmt.Errorf("fetching %s/%s: %w", g.remote, g.branch, err)
	}
	if !fetch.Success() {
		return ResultUpToDate, fmt.Errorf("fetching %s/%s: %s", g.remote, g.branch, strings.TrimSpace(fetch.Stderr))
	}

	merge, err := g.runner.Run(ctx, "git", "-C", root, "merge", "--ff-only", g.remote+"/"+g.branch)
	if err != nil {
		return ResultUpToDate, fmt.Errorf("merging %s/%s: %w", g.remote, g.branch, err)
	}
	if !merge.Success() {
		// ff-only refuses when local commits exist. That is a skip,
		// not a failure: the user chose to run modified code.
		g.logger.Warn(ctx, "self-update: cannot fast-forward, skipping update",
			ports.F("repo", root), ports.F("upstream", g.remote+"/"+g.branch))
		return ResultSkippedDiverged, nil
	}

	after, err := g.head(ctx, root)
	if err != nil {
		return ResultUpToDate, err
	}
	if after != before {
		g.logger.Info(ctx, "self-update: checkout updated",
			ports.F("from", short(before)), ports.F("to", short(after)))
		return ResultUpdated, nil
	}
	return ResultUpToDate, nil
}

func (g *Guard) repoRoot(ctx context.Context) (string, bool, error) {
	result, err := g.runner.Run(ctx, "git", "-C", g.startDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false, fmt.Errorf("locating git checkout: %w", err)
	}
	if !result.Success() {
		return "", false, nil
	}
	return strings.TrimSpace(result.Stdout), true, nil
}

func (g *Guard) isDirty(ctx context.Context, root string) (bool, error) {
	result, err := g.runner.Run(ctx, "git", "-C", root, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("checking working tree: %w", err)
	}
	if !result.Success() {
		return false, fmt.Errorf("checking working tree: %s", strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout) != "", nil
}

func (g *Guard) head(ctx context.Context, root string) (string, error) {
	result, err := g.runner.Run(ctx, "git", "-C", root, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !result.Success() {
		return "", fmt.Errorf("reading HEAD: %s", strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout), nil
}

func short(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
