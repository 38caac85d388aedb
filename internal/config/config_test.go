package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: badger\n  dir: /var/lib/cardle\ngame:\n  search_limit: 10\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/cardle", cfg.Storage.Dir)
	assert.Equal(t, 10, cfg.Game.SearchLimit)
	assert.Equal(t, 1, cfg.Game.MinSearchLength, "untouched fields keep defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		t.Setenv("CARDLE_STORAGE_BACKEND", "memory")
		t.Setenv("CARDLE_ADDR", ":9090")
		t.Setenv("CARDLE_LOG_LEVEL", "debug")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Storage.Backend)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("bad number", func(t *testing.T) {
		t.Setenv("CARDLE_SEARCH_LIMIT", "lots")
		_, err := Load("")
		assert.ErrorContains(t, err, "CARDLE_SEARCH_LIMIT")
	})
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "postgres"
	cfg.Logging.Level = "loud"
	cfg.Game.ShareBaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Storage.Backend")
	assert.Contains(t, err.Error(), "Config.Logging.Level")
	assert.Contains(t, err.Error(), "Config.Game.ShareBaseURL")
}

func TestMemoryBackendNeedsNoDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = StorageConfig{Backend: "memory"}
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Backend = "fs"
	assert.Error(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cardle.yaml")
	cfg := DefaultConfig()
	cfg.Title = "Test"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	p, err := LoadPreferences(path, nil)
	require.NoError(t, err)
	assert.False(t, p.German())
	assert.False(t, p.Dark())

	require.NoError(t, p.SetGerman(true))
	require.NoError(t, p.SetDark(true))

	again, err := LoadPreferences(path, nil)
	require.NoError(t, err)
	assert.Equal(t, PreferenceValues{Dark: true, German: true}, again.Values())
}

func TestPreferencesRejectBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("german: [\n"), 0o644))
	_, err := LoadPreferences(path, nil)
	assert.Error(t, err)
}

func TestPreferencesWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	p, err := LoadPreferences(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan PreferenceValues, 4)
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, func(v PreferenceValues) { changes <- v }) }()

	// The watcher registers asynchronously; keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case v := <-changes:
			assert.True(t, v.German)
			assert.True(t, p.German())
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("german: true\n"), 0o644))
		case <-deadline:
			t.Fatal("no change observed")
		}
	}
}
