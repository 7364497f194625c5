package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv unsets all config env vars so tests start clean.
func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PLEX_URL",
		"PLEX_TOKEN",
		"POSTER_FOLDER",
		"REAPPLY_POSTERS",
		"NORMALIZE_HYPHENS",
		"REQUEST_TIMEOUT",
		"MAX_RETRIES",
		"MAX_WORKERS",
		"LOG_LEVEL",
		"LOG_PATH",
		"CACHE_PATH",
		"ENVIRONMENT",
		"WATCH",
		"WATCH_DEBOUNCE",
		"DEVICE_NAME",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// setRequiredEnv sets the minimum env vars for a valid config.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PLEX_URL", "http://plex.local:32400")
	t.Setenv("PLEX_TOKEN", "token123")
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://plex.local:32400", cfg.PlexURL)
	assert.Equal(t, "token123", cfg.PlexToken)
	assert.Equal(t, "/posters", cfg.PosterFolder)
	assert.False(t, cfg.ReapplyPosters)
	assert.True(t, cfg.NormalizeHyphens)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.Watch)
	assert.NotEmpty(t, cfg.DeviceName, "device name defaults to hostname")
}

func TestLoad_MissingURL(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PLEX_TOKEN", "token123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLEX_URL")
}

func TestLoad_MissingToken(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PLEX_URL", "http://plex.local:32400")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLEX_TOKEN")
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PLEX_URL", "http://plex.local:32400/")
	t.Setenv("PLEX_TOKEN", "token123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://plex.local:32400", cfg.PlexURL)
}

func TestLoad_InvalidRetries(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("MAX_RETRIES", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_RETRIES")
}

func TestLoad_InvalidWorkers(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("MAX_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_WORKERS")
}

func TestLoad_Overrides(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("POSTER_FOLDER", "/mnt/posters")
	t.Setenv("REAPPLY_POSTERS", "true")
	t.Setenv("NORMALIZE_HYPHENS", "false")
	t.Setenv("REQUEST_TIMEOUT", "10s")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("MAX_WORKERS", "1")
	t.Setenv("WATCH", "true")
	t.Setenv("WATCH_DEBOUNCE", "500ms")
	t.Setenv("DEVICE_NAME", "nas")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/mnt/posters", cfg.PosterFolder)
	assert.True(t, cfg.ReapplyPosters)
	assert.False(t, cfg.NormalizeHyphens)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 1, cfg.MaxWorkers)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, "nas", cfg.DeviceName)
}

func TestCacheFile_Default(t *testing.T) {
	cfg := &Config{PosterFolder: "/posters"}
	assert.Equal(t, filepath.Join("/posters", ".poster_cache.db"), cfg.CacheFile())
}

func TestCacheFile_Override(t *testing.T) {
	cfg := &Config{PosterFolder: "/posters", CachePath: "/var/lib/poster-sync/cache.db"}
	assert.Equal(t, "/var/lib/poster-sync/cache.db", cfg.CacheFile())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
}
