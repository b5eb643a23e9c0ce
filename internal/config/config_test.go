package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	c := baseConfig()
	c.Sources.Greenhouse.Enabled = true
	c.Sources.Greenhouse.Boards = []Board{{Slug: "acme", Name: "Acme"}}
	c.Cache.TTLSeconds = 600

	require.NoError(t, SaveAtomic(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.App.Port, got.App.Port)
	assert.Equal(t, c.Sources.Greenhouse.Boards, got.Sources.Greenhouse.Boards)
	assert.Equal(t, 600, got.Cache.TTLSeconds)

	// second save keeps a .bak of the previous version
	c.App.Port = 38472
	require.NoError(t, SaveAtomic(path, c))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestEnsureUserConfig(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 38471\n"), 0o644))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	got, err := Load(userPath)
	require.NoError(t, err)
	assert.Equal(t, 38471, got.App.Port)

	// user edits survive: the default is only copied on first run
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 40000\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, again)
	got, err = Load(again)
	require.NoError(t, err)
	assert.Equal(t, 40000, got.App.Port)
}
