package system

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const (
	logindConfPath = "/etc/systemd/logind.conf"
	acpiWakeupPath = "/proc/acpi/wakeup"
)

// LogindStep pins one key in the [Login] section of logind.conf and
// restarts systemd-logind when the value changes.
type LogindStep struct {
	key    string
	value  string
	id     step.ID
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewLogindStep creates a new LogindStep.
func NewLogindStep(key, value string, fs ports.FileSystem, runner ports.CommandRunner) *LogindStep {
	return &LogindStep{
		key:    key,
		value:  value,
		id:     step.MustNewID("system:logind:" + key),
		fs:     fs,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *LogindStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *LogindStep) DependsOn() []step.ID {
	return nil
}

// Check parses logind.conf and compares the key. Commented defaults count
// as unset.
func (s *LogindStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(logindConfPath) {
		return step.StatusNeedsApply, nil
	}

	file, err := s.load()
	if err != nil {
		return step.StatusUnknown, err
	}

	if file.Section("Login").Key(s.key).String() == s.value {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *LogindStep) Plan(_ step.RunContext) (step.Diff, error) {
	old := ""
	if s.fs.Exists(logindConfPath) {
		if file, err := s.load(); err == nil {
			old = file.Section("Login").Key(s.key).String()
		}
	}
	if old == "" {
		return step.NewDiff(step.DiffTypeAdd, "logind", s.key, "", s.value), nil
	}
	return step.NewDiff(step.DiffTypeModify, "logind", s.key, old, s.value), nil
}

// Apply rewrites logind.conf through sudo tee and restarts the service.
func (s *LogindStep) Apply(ctx step.RunContext) error {
	file := ini.Empty()
	if s.fs.Exists(logindConfPath) {
		loaded, err := s.load()
		if err != nil {
			return err
		}
		file = loaded
	}

	file.Section("Login").Key(s.key).SetValue(s.value)

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("serializing logind.conf: %w", err)
	}

	result, err := s.runner.RunInput(ctx.Context(), buf.String(), ctx.Sudo(), "tee", logindConfPath)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("writing %s failed: %s", logindConfPath, result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), ctx.Sudo(), "systemctl", "restart", "systemd-logind")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("restarting systemd-logind failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *LogindStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Logind",
		fmt.Sprintf("Sets %s=%s in %s and restarts systemd-logind.", s.key, s.value, logindConfPath),
	)
}

func (s *LogindStep) load() (*ini.File, error) {
	content, err := s.fs.ReadFile(logindConfPath)
	if err != nil {
		return nil, err
	}
	file, err := ini.Load(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", logindConfPath, err)
	}
	return file, nil
}

// AcpiWakeupStep disables an ACPI wakeup source. Writing the device name
// to /proc/acpi/wakeup toggles its state, so the probe in Check guards
// against flipping an already disabled device back on.
type AcpiWakeupStep struct {
	device string
	id     step.ID
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewAcpiWakeupStep creates a new AcpiWakeupStep.
func NewAcpiWakeupStep(device string, fs ports.FileSystem, runner ports.CommandRunner) *AcpiWakeupStep {
	return &AcpiWakeupStep{
		device: device,
		id:     step.MustNewID("system:acpi-wakeup:" + device),
		fs:     fs,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *AcpiWakeupStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *AcpiWakeupStep) DependsOn() []step.ID {
	return nil
}

// Check reads the wakeup table and reports whether the device is enabled.
func (s *AcpiWakeupStep) Check(_ step.RunContext) (step.Status, error) {
	content, err := s.fs.ReadFile(acpiWakeupPath)
	if err != nil {
		return step.StatusUnknown, fmt.Errorf("reading %s: %w", acpiWakeupPath, err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != s.device {
			continue
		}
		if strings.Contains(line, "*enabled") {
			return step.StatusNeedsApply, nil
		}
		return step.StatusSatisfied, nil
	}

	return step.StatusUnknown, fmt.Errorf("device %s not present in %s", s.device, acpiWakeupPath)
}

// Plan returns the diff for this step.
func (s *AcpiWakeupStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "acpi-wakeup", s.device, "enabled", "disabled"), nil
}

// Apply toggles the device off.
func (s *AcpiWakeupStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.RunInput(ctx.Context(), s.device+"\n", ctx.Sudo(), "tee", acpiWakeupPath)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("disabling wakeup for %s failed: %s", s.device, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *AcpiWakeupStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Disable ACPI Wakeup",
		fmt.Sprintf("Stops the %s device from waking the machine from suspend. Resets on reboot unless persisted by this run.", s.device),
	)
}

// RootLockStep locks the root account's password if it is set.
type RootLockStep struct {
	id     step.ID
	runner ports.CommandRunner
}

// NewRootLockStep creates a new RootLockStep.
func NewRootLockStep(runner ports.CommandRunner) *RootLockStep {
	return &RootLockStep{
		id:     step.MustNewID("system:root-lock"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *RootLockStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *RootLockStep) DependsOn() []step.ID {
	return nil
}

// Check reads the root password status. passwd -S prints "root L ..." for
// locked, "root P ..." for a usable password, "root NP ..." for none.
func (s *RootLockStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "passwd", "-S", "root")
	if err != nil {
		return step.StatusUnknown, err
	}
	if !result.Success() {
		return step.StatusUnknown, fmt.Errorf("passwd -S root failed: %s", result.Stderr)
	}

	fields := strings.Fields(result.Stdout)
	if len(fields) < 2 {
		return step.StatusUnknown, fmt.Errorf("unexpected passwd -S output: %q", result.Stdout)
	}

	if fields[1] == "P" {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *RootLockStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "account", "root", "password enabled", "locked"), nil
}

// Apply locks the root password.
func (s *RootLockStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "passwd", "-l", "root")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("locking root account failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *RootLockStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Lock Root Account",
		"Locks the root password so root login only works through sudo.",
	)
}
