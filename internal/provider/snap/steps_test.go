package snap_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/snap"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageStep_ID(t *testing.T) {
	t.Parallel()

	s := snap.NewPackageStep(snap.Package{Name: "code"}, mocks.NewCommandRunner())

	assert.Equal(t, "snap:package:code", s.ID().String())
}

func TestPackageStep_Check_Installed(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("snap", []string{"list", "code"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "Name  Version  Rev  Tracking  Publisher  Notes\ncode  1.92.0   163  latest/stable  vscode  classic",
	})

	s := snap.NewPackageStep(snap.Package{Name: "code"}, runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestPackageStep_Check_NotInstalled(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("snap", []string{"list", "code"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "error: no matching snaps installed",
	})

	s := snap.NewPackageStep(snap.Package{Name: "code"}, runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestPackageStep_Apply_Classic(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"snap", "install", "code", "--classic"}, ports.CommandResult{ExitCode: 0})

	s := snap.NewPackageStep(snap.Package{Name: "code", Classic: true}, runner)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))
}

func TestPackageStep_Apply_Channel(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"snap", "install", "k9s", "--channel", "latest/edge"}, ports.CommandResult{ExitCode: 0})

	s := snap.NewPackageStep(snap.Package{Name: "k9s", Channel: "latest/edge"}, runner)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))
}

func TestPackageStep_Apply_RejectsInjection(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	s := snap.NewPackageStep(snap.Package{Name: "code;reboot"}, runner)

	ctx := step.NewRunContext(context.TODO())
	err := s.Apply(ctx)

	require.Error(t, err)
	assert.Empty(t, runner.Calls())
}

func TestPackageStep_Apply_Failure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"snap", "install", "spotify"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "error: cannot install: store is down",
	})

	s := snap.NewPackageStep(snap.Package{Name: "spotify"}, runner)

	ctx := step.NewRunContext(context.TODO())
	err := s.Apply(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is down")
}

func TestProvider_Steps(t *testing.T) {
	t.Parallel()

	p := snap.NewProvider(mocks.NewCommandRunner())
	src := step.NewSource(map[string]interface{}{
		"snap": map[string]interface{}{
			"packages": []interface{}{
				map[string]interface{}{"name": "code", "classic": true},
				"spotify",
			},
		},
	})

	steps, err := p.Steps(src)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "snap:package:code", steps[0].ID().String())
	assert.Equal(t, "snap:package:spotify", steps[1].ID().String())
}

func TestProvider_Steps_NoSection(t *testing.T) {
	t.Parallel()

	p := snap.NewProvider(mocks.NewCommandRunner())
	steps, err := p.Steps(step.NewSource(nil))

	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParseConfig_MissingName(t *testing.T) {
	t.Parallel()

	_, err := snap.ParseConfig(map[string]interface{}{
		"packages": []interface{}{
			map[string]interface{}{"classic": true},
		},
	})

	require.Error(t, err)
}
