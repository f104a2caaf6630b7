package apt_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/provider/apt"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider() *apt.Provider {
	return apt.NewProvider(mocks.NewCommandRunner(), mocks.NewFileSystem(), 24*time.Hour)
}

func TestProvider_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "apt", newProvider().Name())
}

func TestProvider_Steps_NoSection(t *testing.T) {
	t.Parallel()

	src := step.NewSource(map[string]interface{}{})
	steps, err := newProvider().Steps(src)

	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestProvider_Steps_WiresUpdateBetweenPPAsAndPackages(t *testing.T) {
	t.Parallel()

	src := step.NewSource(map[string]interface{}{
		"apt": map[string]interface{}{
			"update":   true,
			"ppas":     []interface{}{"ppa:git-core/ppa"},
			"packages": []interface{}{"git", "zsh"},
		},
	})

	steps, err := newProvider().Steps(src)
	require.NoError(t, err)
	require.Len(t, steps, 4)

	byID := make(map[string]step.Step, len(steps))
	for _, s := range steps {
		byID[s.ID().String()] = s
	}

	update, ok := byID["apt:update"]
	require.True(t, ok)
	require.Len(t, update.DependsOn(), 1)
	assert.Equal(t, "apt:ppa:git-core/ppa", update.DependsOn()[0].String())

	gitPkg, ok := byID["apt:package:git"]
	require.True(t, ok)
	require.Len(t, gitPkg.DependsOn(), 1)
	assert.Equal(t, "apt:update", gitPkg.DependsOn()[0].String())
}

func TestProvider_Steps_NoUpdate_PackagesWaitForPPAs(t *testing.T) {
	t.Parallel()

	src := step.NewSource(map[string]interface{}{
		"apt": map[string]interface{}{
			"ppas":     []interface{}{"ppa:git-core/ppa"},
			"packages": []interface{}{"git"},
		},
	})

	steps, err := newProvider().Steps(src)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	var pkg step.Step
	for _, s := range steps {
		if s.ID().String() == "apt:package:git" {
			pkg = s
		}
	}
	require.NotNil(t, pkg)
	require.Len(t, pkg.DependsOn(), 1)
	assert.Equal(t, "apt:ppa:git-core/ppa", pkg.DependsOn()[0].String())
}

func TestProvider_Steps_PackageObjects(t *testing.T) {
	t.Parallel()

	src := step.NewSource(map[string]interface{}{
		"apt": map[string]interface{}{
			"packages": []interface{}{
				map[string]interface{}{"name": "nodejs", "version": "18.0.0"},
			},
		},
	})

	steps, err := newProvider().Steps(src)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "apt:package:nodejs", steps[0].ID().String())
}

func TestProvider_Steps_InvalidConfig(t *testing.T) {
	t.Parallel()

	src := step.NewSource(map[string]interface{}{
		"apt": map[string]interface{}{
			"packages": []interface{}{
				map[string]interface{}{"version": "18.0.0"},
			},
		},
	})

	_, err := newProvider().Steps(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestParseConfig_StringAndObjectPackages(t *testing.T) {
	t.Parallel()

	cfg, err := apt.ParseConfig(map[string]interface{}{
		"update": true,
		"packages": []interface{}{
			"git",
			map[string]interface{}{"name": "nodejs", "version": "18.0.0"},
		},
	})

	require.NoError(t, err)
	assert.True(t, cfg.Update)
	require.Len(t, cfg.Packages, 2)
	assert.Equal(t, apt.Package{Name: "git"}, cfg.Packages[0])
	assert.Equal(t, "nodejs=18.0.0", cfg.Packages[1].FullName())
}
