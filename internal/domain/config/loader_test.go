package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "groundwork.yaml")
	content := `
apt:
  packages:
    - git
    - zsh
snap:
  packages:
    - name: code
      classic: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path())
	assert.Contains(t, doc.Sections(), "apt")
	assert.Contains(t, doc.Sections(), "snap")
	assert.ElementsMatch(t, []string{"apt", "snap"}, doc.SectionNames())
}

func TestLoader_Load_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.Message, "not found")
	assert.NotEmpty(t, userErr.Suggestion)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apt:\n  packages: [unclosed"), 0o644))

	_, err := NewLoader().Load(path)
	require.Error(t, err)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.Message, "YAML")
	assert.Error(t, errors.Unwrap(userErr))
}

func TestLoader_LoadDefault(t *testing.T) {
	t.Parallel()

	doc, err := NewLoader().LoadDefault()
	require.NoError(t, err)

	// The built-in config exercises every provider section we ship.
	for _, section := range []string{"apt", "snap", "files", "shell", "git", "ssh", "docker", "system"} {
		assert.Contains(t, doc.Sections(), section, "default config should have %s section", section)
	}
	assert.Empty(t, doc.Path())
}
