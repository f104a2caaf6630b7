package docker

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const daemonConfigPath = "/etc/docker/daemon.json"

// EngineStep installs the Docker engine through the official convenience
// script from get.docker.com.
type EngineStep struct {
	id          step.ID
	downloadCmd string
	runner      ports.CommandRunner
}

// NewEngineStep creates a new EngineStep.
func NewEngineStep(downloadCmd string, runner ports.CommandRunner) *EngineStep {
	return &EngineStep{
		id:          step.MustNewID("docker:engine"),
		downloadCmd: downloadCmd,
		runner:      runner,
	}
}

// ID returns the step identifier.
func (s *EngineStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *EngineStep) DependsOn() []step.ID {
	return nil
}

// Check reports satisfied when the docker binary is on PATH.
func (s *EngineStep) Check(_ step.RunContext) (step.Status, error) {
	if _, err := s.runner.LookPath("docker"); err != nil {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *EngineStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "engine", "docker", "", "get.docker.com"), nil
}

// Apply downloads and runs the install script.
func (s *EngineStep) Apply(ctx step.RunContext) error {
	const script = "/tmp/get-docker.sh"

	result, err := s.runner.Run(ctx.Context(), s.downloadCmd, "-fsSL", "https://get.docker.com", "-o", script)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("downloading install script failed: %s", result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), ctx.Sudo(), "sh", script)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("docker install script failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *EngineStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install Docker Engine",
		"Downloads and runs the official get.docker.com script, which configures Docker's apt repository and installs the engine.",
	)
}

// DaemonConfigStep merges managed keys into /etc/docker/daemon.json and
// restarts the daemon when the file changed.
type DaemonConfigStep struct {
	desired   map[string]interface{}
	id        step.ID
	dependsOn []step.ID
	fs        ports.FileSystem
	runner    ports.CommandRunner
}

// NewDaemonConfigStep creates a new DaemonConfigStep.
func NewDaemonConfigStep(desired map[string]interface{}, dependsOn []step.ID, fs ports.FileSystem, runner ports.CommandRunner) *DaemonConfigStep {
	return &DaemonConfigStep{
		desired:   desired,
		id:        step.MustNewID("docker:daemon-config"),
		dependsOn: dependsOn,
		fs:        fs,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *DaemonConfigStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *DaemonConfigStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check compares each managed key against the current daemon.json.
// Unmanaged keys are ignored, so local additions survive.
func (s *DaemonConfigStep) Check(_ step.RunContext) (step.Status, error) {
	current, err := s.readCurrent()
	if err != nil {
		return step.StatusUnknown, err
	}

	for key, want := range s.desired {
		got, ok := current[key]
		if !ok || !jsonEqual(got, want) {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *DaemonConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	keys := make([]string, 0, len(s.desired))
	for key := range s.desired {
		keys = append(keys, key)
	}
	if s.fs.Exists(daemonConfigPath) {
		return step.NewDiff(step.DiffTypeModify, "daemon-config", daemonConfigPath, "current", strings.Join(keys, ",")), nil
	}
	return step.NewDiff(step.DiffTypeAdd, "daemon-config", daemonConfigPath, "", strings.Join(keys, ",")), nil
}

// Apply merges the managed keys, writes the file through sudo tee, and
// restarts the daemon to pick the change up.
func (s *DaemonConfigStep) Apply(ctx step.RunContext) error {
	current, err := s.readCurrent()
	if err != nil {
		return err
	}

	for key, value := range s.desired {
		current[key] = value
	}

	encoded, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding daemon config: %w", err)
	}

	result, err := s.runner.RunInput(ctx.Context(), string(encoded)+"\n", ctx.Sudo(), "tee", daemonConfigPath)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("writing %s failed: %s", daemonConfigPath, result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), ctx.Sudo(), "systemctl", "restart", "docker")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("restarting docker failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *DaemonConfigStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Docker Daemon",
		fmt.Sprintf("Merges managed keys into %s and restarts the daemon. Keys not in the configuration are left alone.", daemonConfigPath),
	)
}

func (s *DaemonConfigStep) readCurrent() (map[string]interface{}, error) {
	if !s.fs.Exists(daemonConfigPath) {
		return map[string]interface{}{}, nil
	}

	content, err := s.fs.ReadFile(daemonConfigPath)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return map[string]interface{}{}, nil
	}

	current := map[string]interface{}{}
	if err := json.Unmarshal(content, &current); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", daemonConfigPath, err)
	}
	return current, nil
}

// jsonEqual compares two values after a JSON round trip, so 10 and
// float64(10) compare equal regardless of decoding origin.
func jsonEqual(a, b interface{}) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	var aNorm, bNorm interface{}
	if json.Unmarshal(aJSON, &aNorm) != nil || json.Unmarshal(bJSON, &bNorm) != nil {
		return false
	}
	return reflect.DeepEqual(aNorm, bNorm)
}

// GroupStep adds a user to the docker group so the CLI works without sudo.
type GroupStep struct {
	username  string
	id        step.ID
	dependsOn []step.ID
	runner    ports.CommandRunner
}

// NewGroupStep creates a new GroupStep.
func NewGroupStep(username string, dependsOn []step.ID, runner ports.CommandRunner) *GroupStep {
	return &GroupStep{
		username:  username,
		id:        step.MustNewID("docker:group"),
		dependsOn: dependsOn,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *GroupStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *GroupStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check lists the user's groups and looks for docker.
func (s *GroupStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "id", "-nG", s.username)
	if err != nil {
		return step.StatusUnknown, err
	}
	if !result.Success() {
		return step.StatusUnknown, fmt.Errorf("id -nG %s failed: %s", s.username, result.Stderr)
	}

	for _, group := range strings.Fields(result.Stdout) {
		if group == "docker" {
			return step.StatusSatisfied, nil
		}
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *GroupStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "group-member", s.username, "", "docker"), nil
}

// Apply appends the user to the docker group.
func (s *GroupStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "usermod", "-aG", "docker", s.username)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("usermod -aG docker failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *GroupStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Join Docker Group",
		fmt.Sprintf("Adds %s to the docker group. Requires logging out and back in to take effect.", s.username),
	)
}

// ComposeStep ensures the compose plugin meets a minimum version.
type ComposeStep struct {
	minVersion string
	id         step.ID
	dependsOn  []step.ID
	runner     ports.CommandRunner
}

// NewComposeStep creates a new ComposeStep. minVersion is a semver string
// like "v2.20.0".
func NewComposeStep(minVersion string, dependsOn []step.ID, runner ports.CommandRunner) *ComposeStep {
	return &ComposeStep{
		minVersion: minVersion,
		id:         step.MustNewID("docker:compose"),
		dependsOn:  dependsOn,
		runner:     runner,
	}
}

// ID returns the step identifier.
func (s *ComposeStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ComposeStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check compares the installed compose version against the minimum.
func (s *ComposeStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "docker", "compose", "version", "--short")
	if err != nil {
		return step.StatusUnknown, err
	}
	if !result.Success() {
		// Plugin not installed at all.
		return step.StatusNeedsApply, nil
	}

	installed := strings.TrimSpace(result.Stdout)
	if !strings.HasPrefix(installed, "v") {
		installed = "v" + installed
	}
	if !semver.IsValid(installed) {
		return step.StatusUnknown, fmt.Errorf("cannot parse compose version %q", result.Stdout)
	}

	if semver.Compare(installed, s.minVersion) >= 0 {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ComposeStep) Plan(ctx step.RunContext) (step.Diff, error) {
	old := ""
	if result, err := s.runner.Run(ctx.Context(), "docker", "compose", "version", "--short"); err == nil && result.Success() {
		old = strings.TrimSpace(result.Stdout)
	}
	return step.NewDiff(step.DiffTypeModify, "compose-plugin", "docker-compose-plugin", old, ">= "+s.minVersion), nil
}

// Apply installs or upgrades the compose plugin from the Docker repository.
func (s *ComposeStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "apt-get", "install", "-y", "docker-compose-plugin")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("installing docker-compose-plugin failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ComposeStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Ensure Compose Plugin",
		fmt.Sprintf("Installs or upgrades the docker compose plugin to at least %s.", s.minVersion),
	)
}

// NvidiaToolkitStep installs the NVIDIA container toolkit for GPU access
// inside containers.
type NvidiaToolkitStep struct {
	id        step.ID
	dependsOn []step.ID
	runner    ports.CommandRunner
}

// NewNvidiaToolkitStep creates a new NvidiaToolkitStep.
func NewNvidiaToolkitStep(dependsOn []step.ID, runner ports.CommandRunner) *NvidiaToolkitStep {
	return &NvidiaToolkitStep{
		id:        step.MustNewID("docker:nvidia-toolkit"),
		dependsOn: dependsOn,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *NvidiaToolkitStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *NvidiaToolkitStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check probes the dpkg database for the toolkit package.
func (s *NvidiaToolkitStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", "nvidia-container-toolkit")
	if err != nil {
		return step.StatusUnknown, err
	}
	if result.Success() && strings.Contains(result.Stdout, "installed") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *NvidiaToolkitStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "package", "nvidia-container-toolkit", "", "latest"), nil
}

// Apply installs the toolkit.
func (s *NvidiaToolkitStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "apt-get", "install", "-y", "nvidia-container-toolkit")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("installing nvidia-container-toolkit failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *NvidiaToolkitStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install NVIDIA Toolkit",
		"Installs the NVIDIA container toolkit so containers can use the GPU.",
	)
}
