package apt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/apt"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStep_ID(t *testing.T) {
	t.Parallel()

	s := apt.NewUpdateStep(24*time.Hour, nil, mocks.NewCommandRunner(), mocks.NewFileSystem())

	assert.Equal(t, "apt:update", s.ID().String())
}

func TestUpdateStep_Check_NoIndex(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := apt.NewUpdateStep(24*time.Hour, nil, mocks.NewCommandRunner(), fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestUpdateStep_Check_FreshIndex(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/var/lib/apt/lists")
	fs.SetModTime("/var/lib/apt/lists", time.Now().Add(-time.Hour))

	s := apt.NewUpdateStep(24*time.Hour, nil, mocks.NewCommandRunner(), fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestUpdateStep_Check_StaleIndex(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/var/lib/apt/lists")
	fs.SetModTime("/var/lib/apt/lists", time.Now().Add(-48*time.Hour))

	s := apt.NewUpdateStep(24*time.Hour, nil, mocks.NewCommandRunner(), fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestUpdateStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{ExitCode: 0})

	s := apt.NewUpdateStep(24*time.Hour, nil, runner, mocks.NewFileSystem())

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))
	assert.Equal(t, 1, runner.CallCount("sudo"))
}

func TestUpdateStep_Apply_Failure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{
		ExitCode: 100,
		Stderr:   "Could not resolve archive.ubuntu.com",
	})

	s := apt.NewUpdateStep(24*time.Hour, nil, runner, mocks.NewFileSystem())

	ctx := step.NewRunContext(context.TODO())
	err := s.Apply(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve")
}

func TestPPAStep_ID(t *testing.T) {
	t.Parallel()

	s := apt.NewPPAStep("ppa:git-core/ppa", mocks.NewCommandRunner())

	assert.Equal(t, "apt:ppa:git-core/ppa", s.ID().String())
}

func TestPPAStep_DependsOn(t *testing.T) {
	t.Parallel()

	s := apt.NewPPAStep("ppa:git-core/ppa", mocks.NewCommandRunner())

	assert.Empty(t, s.DependsOn())
}

func TestPPAStep_Check_NotAdded(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("apt-cache", []string{"policy"}, ports.CommandResult{ExitCode: 0})

	s := apt.NewPPAStep("ppa:git-core/ppa", runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestPPAStep_Check_AlreadyAdded(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("apt-cache", []string{"policy"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "500 https://ppa.launchpadcontent.net/git-core/ppa/ubuntu noble/main amd64 Packages",
	})

	s := apt.NewPPAStep("ppa:git-core/ppa", runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestPPAStep_Check_ProbeError(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("apt-cache", []string{"policy"}, errors.New("apt-cache not found"))

	s := apt.NewPPAStep("ppa:git-core/ppa", runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.Error(t, err)
	assert.Equal(t, step.StatusUnknown, status)
}

func TestPPAStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"add-apt-repository", "-y", "ppa:git-core/ppa"}, ports.CommandResult{ExitCode: 0})

	s := apt.NewPPAStep("ppa:git-core/ppa", runner)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))
}

func TestPPAStep_Apply_RejectsInjection(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	s := apt.NewPPAStep("ppa:evil/ppa$(rm -rf /)", runner)

	ctx := step.NewRunContext(context.TODO())
	err := s.Apply(ctx)

	require.Error(t, err)
	assert.Empty(t, runner.Calls())
}

func TestPackageStep_ID(t *testing.T) {
	t.Parallel()

	s := apt.NewPackageStep(apt.Package{Name: "git"}, nil, mocks.NewCommandRunner())

	assert.Equal(t, "apt:package:git", s.ID().String())
}

func TestPackageStep_DependsOn(t *testing.T) {
	t.Parallel()

	dep := step.MustNewID("apt:update")
	s := apt.NewPackageStep(apt.Package{Name: "git"}, []step.ID{dep}, mocks.NewCommandRunner())

	require.Len(t, s.DependsOn(), 1)
	assert.True(t, s.DependsOn()[0].Equals(dep))
}

func TestPackageStep_Check_NotInstalled(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${Package}\t${Version}\t${db:Status-Status}\n", "git"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "dpkg-query: no packages found matching git",
	})

	s := apt.NewPackageStep(apt.Package{Name: "git"}, nil, runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestPackageStep_Check_Installed(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${Package}\t${Version}\t${db:Status-Status}\n", "git"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "git\t2.43.0\tinstalled",
	})

	s := apt.NewPackageStep(apt.Package{Name: "git"}, nil, runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestPackageStep_Apply_WithVersion(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "nodejs=18.0.0"}, ports.CommandResult{ExitCode: 0})

	s := apt.NewPackageStep(apt.Package{Name: "nodejs", Version: "18.0.0"}, nil, runner)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))
}

func TestPackageStep_Apply_RejectsInjection(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	s := apt.NewPackageStep(apt.Package{Name: "git; rm -rf /"}, nil, runner)

	ctx := step.NewRunContext(context.TODO())
	err := s.Apply(ctx)

	require.Error(t, err)
	assert.Empty(t, runner.Calls())
}

func TestPackageStep_Explain(t *testing.T) {
	t.Parallel()

	s := apt.NewPackageStep(apt.Package{Name: "git"}, nil, mocks.NewCommandRunner())

	exp := s.Explain()

	assert.NotEmpty(t, exp.Summary())
	assert.Contains(t, exp.Detail(), "git")
}
