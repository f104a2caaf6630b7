package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

func TestRunDoctor_HealthyHost(t *testing.T) {
	f := newInstallFixture(t)
	for _, tool := range []string{"sudo", "git", "curl", "apt-get", "snap"} {
		f.runner.AddPath(tool, "/usr/bin/"+tool)
	}
	f.runner.AddResult("sudo", []string{"passwd", "-S", "root"},
		ports.CommandResult{ExitCode: 0, Stdout: "root L 2024-01-15 0 99999 7 -1\n"})

	err := runDoctor(doctorCmd, nil)

	require.NoError(t, err)
}

func TestRunDoctor_NonUbuntuIsAnError(t *testing.T) {
	f := newInstallFixture(t)
	_ = f
	platform.SetTestPlatform(platform.NewTestPlatform(platform.OSDarwin, "arm64", "", ""))

	err := runDoctor(doctorCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported platform")
}

func TestRunDoctor_MissingToolsDoNotAbort(t *testing.T) {
	f := newInstallFixture(t)
	// No tools registered, no passwd result: every probe degrades to a
	// reported issue instead of an error.
	f.runner.SetFallback(ports.CommandResult{ExitCode: 1})

	err := runDoctor(doctorCmd, nil)

	require.NoError(t, err)
}
