package ssh

import (
	"fmt"

	cryptossh "golang.org/x/crypto/ssh"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// DirStep ensures the .ssh directory exists with owner-only permissions.
type DirStep struct {
	path string
	id   step.ID
	fs   ports.FileSystem
}

// NewDirStep creates a new DirStep for the given key directory.
func NewDirStep(path string, fs ports.FileSystem) *DirStep {
	return &DirStep{
		path: ports.ExpandPath(path),
		id:   step.MustNewID("ssh:dir:" + path),
		fs:   fs,
	}
}

// ID returns the step identifier.
func (s *DirStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *DirStep) DependsOn() []step.ID {
	return nil
}

// Check verifies the directory exists with mode 0700.
func (s *DirStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.path) {
		return step.StatusNeedsApply, nil
	}
	info, err := s.fs.GetFileInfo(s.path)
	if err != nil {
		return step.StatusUnknown, err
	}
	if info.Mode.Perm() != 0o700 {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *DirStep) Plan(_ step.RunContext) (step.Diff, error) {
	if s.fs.Exists(s.path) {
		return step.NewDiff(step.DiffTypeModify, "mode", s.path, "", "0700"), nil
	}
	return step.NewDiff(step.DiffTypeAdd, "directory", s.path, "", "0700"), nil
}

// Apply creates the directory and tightens its permissions.
func (s *DirStep) Apply(_ step.RunContext) error {
	if err := s.fs.MkdirAll(s.path, 0o700); err != nil {
		return err
	}
	return s.fs.Chmod(s.path, 0o700)
}

// Explain provides a human-readable explanation.
func (s *DirStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Secure SSH Directory",
		fmt.Sprintf("Ensures %s exists with mode 0700 so sshd accepts keys stored in it.", s.path),
	)
}

// KeygenStep generates an ed25519 keypair if none exists. An existing key
// is never regenerated.
type KeygenStep struct {
	keyPath   string
	comment   string
	id        step.ID
	dependsOn []step.ID
	fs        ports.FileSystem
	runner    ports.CommandRunner
}

// NewKeygenStep creates a new KeygenStep.
func NewKeygenStep(key Key, dependsOn []step.ID, fs ports.FileSystem, runner ports.CommandRunner) *KeygenStep {
	return &KeygenStep{
		keyPath:   ports.ExpandPath(key.Path),
		comment:   key.Comment,
		id:        step.MustNewID("ssh:keygen:" + key.Path),
		dependsOn: dependsOn,
		fs:        fs,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *KeygenStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *KeygenStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check reports satisfied when the private key exists and its public half
// parses as an OpenSSH key.
func (s *KeygenStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.keyPath) {
		return step.StatusNeedsApply, nil
	}

	// A private key without a readable public half is a broken keypair
	// that must not be silently overwritten.
	if _, err := s.Fingerprint(); err != nil {
		return step.StatusUnknown, fmt.Errorf("existing key at %s is unreadable: %w", s.keyPath, err)
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *KeygenStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "ssh-key", s.keyPath, "", "ed25519"), nil
}

// Apply generates the keypair without a passphrase and locks down the
// file modes.
func (s *KeygenStep) Apply(ctx step.RunContext) error {
	args := []string{"-t", "ed25519", "-f", s.keyPath, "-N", ""}
	if s.comment != "" {
		args = append(args, "-C", s.comment)
	}

	result, err := s.runner.Run(ctx.Context(), "ssh-keygen", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("ssh-keygen failed: %s", result.Stderr)
	}

	if err := s.fs.Chmod(s.keyPath, 0o600); err != nil {
		return err
	}
	return s.fs.Chmod(s.publicKeyPath(), 0o644)
}

// Explain provides a human-readable explanation.
func (s *KeygenStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Generate SSH Key",
		fmt.Sprintf("Generates an ed25519 keypair at %s unless one already exists.", s.keyPath),
	)
}

// Fingerprint returns the SHA256 fingerprint of the public key.
func (s *KeygenStep) Fingerprint() (string, error) {
	content, err := s.fs.ReadFile(s.publicKeyPath())
	if err != nil {
		return "", err
	}
	pub, _, _, _, err := cryptossh.ParseAuthorizedKey(content)
	if err != nil {
		return "", fmt.Errorf("parsing public key: %w", err)
	}
	return cryptossh.FingerprintSHA256(pub), nil
}

func (s *KeygenStep) publicKeyPath() string {
	return s.keyPath + ".pub"
}

// PermissionsStep tightens an existing private key to mode 0600.
type PermissionsStep struct {
	keyPath   string
	id        step.ID
	dependsOn []step.ID
	fs        ports.FileSystem
}

// NewPermissionsStep creates a new PermissionsStep.
func NewPermissionsStep(key Key, dependsOn []step.ID, fs ports.FileSystem) *PermissionsStep {
	return &PermissionsStep{
		keyPath:   ports.ExpandPath(key.Path),
		id:        step.MustNewID("ssh:mode:" + key.Path),
		dependsOn: dependsOn,
		fs:        fs,
	}
}

// ID returns the step identifier.
func (s *PermissionsStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PermissionsStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check verifies the private key has mode 0600.
func (s *PermissionsStep) Check(_ step.RunContext) (step.Status, error) {
	info, err := s.fs.GetFileInfo(s.keyPath)
	if err != nil {
		return step.StatusUnknown, fmt.Errorf("cannot stat %s: %w", s.keyPath, err)
	}
	if info.Mode.Perm() != 0o600 {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *PermissionsStep) Plan(_ step.RunContext) (step.Diff, error) {
	old := ""
	if info, err := s.fs.GetFileInfo(s.keyPath); err == nil {
		old = fmt.Sprintf("%04o", info.Mode.Perm())
	}
	return step.NewDiff(step.DiffTypeModify, "mode", s.keyPath, old, "0600"), nil
}

// Apply sets the private key mode.
func (s *PermissionsStep) Apply(_ step.RunContext) error {
	return s.fs.Chmod(s.keyPath, 0o600)
}

// Explain provides a human-readable explanation.
func (s *PermissionsStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Lock Down SSH Key",
		fmt.Sprintf("Sets %s to mode 0600; ssh refuses keys readable by other users.", s.keyPath),
	)
}
