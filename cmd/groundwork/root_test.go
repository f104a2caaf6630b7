package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

func TestRootCommand_UseLine(t *testing.T) {
	assert.Equal(t, "groundwork", rootCmd.Use)
}

func TestRootCommand_SilencesCobraOutput(t *testing.T) {
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCommand_HasPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	t.Run("config flag exists", func(t *testing.T) {
		flag := flags.Lookup("config")
		require.NotNil(t, flag)
		assert.Empty(t, flag.DefValue)
	})

	t.Run("verbose flag exists", func(t *testing.T) {
		flag := flags.Lookup("verbose")
		require.NotNil(t, flag)
		assert.Equal(t, "false", flag.DefValue)
	})

	t.Run("yes flag exists", func(t *testing.T) {
		flag := flags.Lookup("yes")
		require.NotNil(t, flag)
		assert.Equal(t, "false", flag.DefValue)
	})
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"install", "plan", "doctor", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCommand_NoArgumentsIsAnError(t *testing.T) {
	err := rootCmd.RunE(rootCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "command is required")
}

func TestRootCommand_UnknownArgumentIsAnError(t *testing.T) {
	err := rootCmd.RunE(rootCmd, []string{"bogus"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestFormatError_UserError(t *testing.T) {
	err := &config.UserError{
		Message:    "configuration file not found",
		Context:    "/tmp/groundwork.yaml",
		Suggestion: "Pass --config with the right path.",
	}

	msg := formatError(err)

	assert.Contains(t, msg, "configuration file not found")
	assert.Contains(t, msg, "/tmp/groundwork.yaml")
	assert.Contains(t, msg, "Suggestion: Pass --config")
}

func TestFormatError_StepError(t *testing.T) {
	err := step.NewApplyFailedError("apt:package:git", errors.New("exit status 100"))

	msg := formatError(err)

	assert.Contains(t, msg, "apt:package:git")
}

func TestFormatError_PlainError(t *testing.T) {
	assert.Equal(t, "boom", formatError(errors.New("boom")))
}

func TestPrintErrorTo(t *testing.T) {
	var buf bytes.Buffer

	printErrorTo(&buf, errors.New("something broke"))

	assert.Equal(t, "Error: something broke\n", buf.String())
}

func TestDebugEnabled_VerboseFlag(t *testing.T) {
	orig := verbose
	defer func() { verbose = orig }()

	verbose = true
	assert.True(t, debugEnabled())
}

func TestDebugEnabled_EnvVar(t *testing.T) {
	orig := verbose
	defer func() { verbose = orig }()
	verbose = false

	t.Setenv("DEBUG", "1")
	assert.True(t, debugEnabled())
}

func TestDebugEnabled_Off(t *testing.T) {
	orig := verbose
	defer func() { verbose = orig }()
	verbose = false

	t.Setenv("DEBUG", "")
	assert.False(t, debugEnabled())
}
