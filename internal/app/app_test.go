package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/tasktimer/internal/config"
	"github.com/andy/tasktimer/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func tempConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "tasktimer.db")
	cfg.Files.Dir = filepath.Join(dir, "files")
	cfg.Log.Path = filepath.Join(dir, "tasktimer.log")
	return cfg
}

func TestNewWithConfig_NoKeyringPointsToEnvKey(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Setenv(crypto.EnvKey, "")

	_, err := NewWithConfig(context.Background(), tempConfig(t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), crypto.EnvKey)
}

func TestNewWithConfig_EnvKey(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Setenv(crypto.EnvKey, "s3cret")
	dir := t.TempDir()

	a, err := NewWithConfig(context.Background(), tempConfig(dir))
	require.NoError(t, err)
	defer a.Close()

	projects, err := a.ProjectService.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.FileExists(t, filepath.Join(dir, "tasktimer.db"))
	assert.DirExists(t, filepath.Join(dir, "files"))
}

func TestNew_WritesDefaultConfigOnFirstRun(t *testing.T) {
	keyring.MockInit()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(crypto.EnvKey, "s3cret")

	path := filepath.Join(home, ".config", "tasktimer", "config.yaml")
	require.Equal(t, path, config.DefaultConfigPath())
	require.NoFileExists(t, path)

	a, err := New(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	require.FileExists(t, path)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	// An edited file is left alone on later runs
	cfg.Log.Level = "debug"
	require.NoError(t, cfg.Save(path))
	a, err = New(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "debug", a.Config.Log.Level)
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: debug")
}
