package files_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/files"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCopyStep(t *testing.T, copy files.Copy, fs ports.FileSystem) *files.CopyStep {
	t.Helper()
	s, err := files.NewCopyStep(copy, fs)
	require.NoError(t, err)
	return s
}

func TestCopyStep_ID(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := newCopyStep(t, files.Copy{Src: "/assets/profile", Dest: "/home/dev/.profile"}, fs)

	assert.Equal(t, "files:copy:/home/dev/.profile", s.ID().String())
}

func TestCopyStep_Check_DestMissing(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/assets/profile", "export EDITOR=vim\n")

	s := newCopyStep(t, files.Copy{Src: "/assets/profile", Dest: "/home/dev/.profile"}, fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestCopyStep_Check_ContentMatches(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/assets/profile", "export EDITOR=vim\n")
	fs.AddFile("/home/dev/.profile", "export EDITOR=vim\n")

	s := newCopyStep(t, files.Copy{Src: "/assets/profile", Dest: "/home/dev/.profile"}, fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestCopyStep_Check_ContentDrifted(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/assets/profile", "export EDITOR=vim\n")
	fs.AddFile("/home/dev/.profile", "export EDITOR=nano\n")

	s := newCopyStep(t, files.Copy{Src: "/assets/profile", Dest: "/home/dev/.profile"}, fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestCopyStep_Check_ModeDrifted(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/assets/key", "secret\n")
	fs.AddFileWithMode("/home/dev/key", "secret\n", 0o644)

	s := newCopyStep(t, files.Copy{Src: "/assets/key", Dest: "/home/dev/key", Mode: "0600"}, fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestCopyStep_Check_SourceMissing(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := newCopyStep(t, files.Copy{Src: "/assets/missing", Dest: "/home/dev/.profile"}, fs)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.Error(t, err)
	assert.Equal(t, step.StatusUnknown, status)
}

func TestCopyStep_Apply(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/assets/key", "secret\n")

	s := newCopyStep(t, files.Copy{Src: "/assets/key", Dest: "/home/dev/.ssh/key", Mode: "0600"}, fs)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))

	assert.Equal(t, "secret\n", fs.Content("/home/dev/.ssh/key"))
	info, err := fs.GetFileInfo("/home/dev/.ssh/key")
	require.NoError(t, err)
	assert.Equal(t, "0600", modeString(info))
}

func modeString(info ports.FileInfo) string {
	return fmt.Sprintf("%04o", info.Mode.Perm())
}

func TestModeStep_Check(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDirWithMode("/home/dev/.ssh", 0o755)

	s, err := files.NewModeStep(files.Mode{Path: "/home/dev/.ssh", Mode: "0700"}, fs)
	require.NoError(t, err)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestModeStep_Check_Satisfied(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDirWithMode("/home/dev/.ssh", 0o700)

	s, err := files.NewModeStep(files.Mode{Path: "/home/dev/.ssh", Mode: "0700"}, fs)
	require.NoError(t, err)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestModeStep_Check_MissingPath(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s, err := files.NewModeStep(files.Mode{Path: "/home/dev/.ssh", Mode: "0700"}, fs)
	require.NoError(t, err)

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.Error(t, err)
	assert.Equal(t, step.StatusUnknown, status)
}

func TestModeStep_Apply(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFileWithMode("/home/dev/.ssh/id_ed25519", "key", 0o644)

	s, err := files.NewModeStep(files.Mode{Path: "/home/dev/.ssh/id_ed25519", Mode: "0600"}, fs)
	require.NoError(t, err)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))

	info, err := fs.GetFileInfo("/home/dev/.ssh/id_ed25519")
	require.NoError(t, err)
	assert.Equal(t, "0600", modeString(info))
}

func TestLineStep_Check_LineAbsent(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/home/dev/.profile", "# profile\n")

	s := files.NewLineStep(files.Line{Path: "/home/dev/.profile", Line: "export EDITOR=vim"}, fs, mocks.NewCommandRunner())

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestLineStep_Check_LinePresent(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/home/dev/.profile", "# profile\nexport EDITOR=vim\n")

	s := files.NewLineStep(files.Line{Path: "/home/dev/.profile", Line: "export EDITOR=vim"}, fs, mocks.NewCommandRunner())

	ctx := step.NewRunContext(context.TODO())
	status, err := s.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestLineStep_Apply_AppendsOnce(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/home/dev/.profile", "# profile")

	s := files.NewLineStep(files.Line{Path: "/home/dev/.profile", Line: "export EDITOR=vim"}, fs, mocks.NewCommandRunner())

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))

	assert.Equal(t, "# profile\nexport EDITOR=vim\n", fs.Content("/home/dev/.profile"))
	assert.Equal(t, 1, fs.LineCount("/home/dev/.profile", "export EDITOR=vim"))
}

func TestLineStep_RepeatedRuns_SingleOccurrence(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/home/dev/.profile", "# profile\n")

	s := files.NewLineStep(files.Line{Path: "/home/dev/.profile", Line: "export EDITOR=vim"}, fs, mocks.NewCommandRunner())

	ctx := step.NewRunContext(context.TODO())

	// First run appends.
	status, err := s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, step.StatusNeedsApply, status)
	require.NoError(t, s.Apply(ctx))

	// Second run finds the line and does nothing.
	status, err = s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)

	assert.Equal(t, 1, fs.LineCount("/home/dev/.profile", "export EDITOR=vim"))
}

func TestLineStep_Apply_CreatesMissingFile(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := files.NewLineStep(files.Line{Path: "/home/dev/.profile", Line: "export EDITOR=vim"}, fs, mocks.NewCommandRunner())

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))

	assert.Equal(t, "export EDITOR=vim\n", fs.Content("/home/dev/.profile"))
}

func TestLineStep_Apply_SudoUsesTee(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"tee", "-a", "/etc/environment"}, ports.CommandResult{ExitCode: 0})

	s := files.NewLineStep(files.Line{Path: "/etc/environment", Line: "GOPATH=/opt/go", Sudo: true}, fs, runner)

	ctx := step.NewRunContext(context.TODO())
	require.NoError(t, s.Apply(ctx))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "GOPATH=/opt/go\n", calls[0].Input)
	assert.Empty(t, fs.Files())
}

func TestLineStep_Apply_RejectsEmbeddedNewline(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := files.NewLineStep(files.Line{Path: "/home/dev/.profile", Line: "a\nb"}, fs, mocks.NewCommandRunner())

	ctx := step.NewRunContext(context.TODO())
	require.Error(t, s.Apply(ctx))
}
