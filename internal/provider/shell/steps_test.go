package shell_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/shell"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zshrc = "/home/dev/.zshrc"

func TestEnvBlockStep_CheckThenApply(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(zshrc, "# my zshrc\n")

	s := shell.NewEnvBlockStep(zshrc, map[string]string{"EDITOR": "vim"}, fs)
	ctx := step.NewRunContext(context.TODO())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(ctx))

	status, err = s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)

	content := fs.Content(zshrc)
	assert.Contains(t, content, "# my zshrc")
	assert.Contains(t, content, "export EDITOR=\"vim\"")
}

func TestEnvBlockStep_DriftedBlockRewritten(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(zshrc, "# my zshrc\n")

	old := shell.NewEnvBlockStep(zshrc, map[string]string{"EDITOR": "nano"}, fs)
	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, old.Apply(ctx))

	updated := shell.NewEnvBlockStep(zshrc, map[string]string{"EDITOR": "vim"}, fs)
	status, err := updated.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, updated.Apply(ctx))

	content := fs.Content(zshrc)
	assert.Contains(t, content, "export EDITOR=\"vim\"")
	assert.NotContains(t, content, "nano")
}

func TestAliasBlockStep_ID(t *testing.T) {
	t.Parallel()

	s := shell.NewAliasBlockStep(zshrc, map[string]string{"ll": "ls -la"}, mocks.NewFileSystem())

	assert.Equal(t, "shell:aliases", s.ID().String())
}

func TestDefaultShellStep_Check_AlreadyDefault(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("getent", []string{"passwd", "dev"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "dev:x:1000:1000:Dev:/home/dev:/usr/bin/zsh\n",
	})

	s := shell.NewDefaultShellStep("/usr/bin/zsh", "dev", runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestDefaultShellStep_Check_DifferentShell(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("getent", []string{"passwd", "dev"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "dev:x:1000:1000:Dev:/home/dev:/bin/bash\n",
	})

	s := shell.NewDefaultShellStep("/usr/bin/zsh", "dev", runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestDefaultShellStep_Check_UnknownUser(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("getent", []string{"passwd", "ghost"}, ports.CommandResult{ExitCode: 2})

	s := shell.NewDefaultShellStep("/usr/bin/zsh", "ghost", runner)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.Error(t, err)
	assert.Equal(t, step.StatusUnknown, status)
}

func TestDefaultShellStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"chsh", "-s", "/usr/bin/zsh", "dev"}, ports.CommandResult{ExitCode: 0})

	s := shell.NewDefaultShellStep("/usr/bin/zsh", "dev", runner)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))
}

func TestProvider_Steps(t *testing.T) {
	t.Parallel()

	p := shell.NewProvider(mocks.NewFileSystem(), mocks.NewCommandRunner(), "dev")
	src := step.NewSource(map[string]interface{}{
		"shell": map[string]interface{}{
			"config_file": zshrc,
			"default":     "/usr/bin/zsh",
			"env":         map[string]interface{}{"EDITOR": "vim"},
			"aliases":     map[string]interface{}{"ll": "ls -la"},
		},
	})

	steps, err := p.Steps(src)

	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "shell:env", steps[0].ID().String())
	assert.Equal(t, "shell:aliases", steps[1].ID().String())
	assert.Equal(t, "shell:default", steps[2].ID().String())
}

func TestProvider_Steps_EmptySectionsProduceNoSteps(t *testing.T) {
	t.Parallel()

	p := shell.NewProvider(mocks.NewFileSystem(), mocks.NewCommandRunner(), "dev")
	src := step.NewSource(map[string]interface{}{
		"shell": map[string]interface{}{},
	})

	steps, err := p.Steps(src)

	require.NoError(t, err)
	assert.Empty(t, steps)
}
