package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cacheFileName is the default poster state cache database, stored as a
// hidden sidecar file inside the poster folder.
const cacheFileName = ".poster_cache.db"

// Config holds all environment-based configuration for poster-sync.
type Config struct {
	// Plex server address and token (both required).
	PlexURL   string `env:"PLEX_URL"`
	PlexToken string `env:"PLEX_TOKEN"`

	// Directory of poster images. File base names (minus extension)
	// name the collection each poster belongs to.
	PosterFolder string `env:"POSTER_FOLDER" envDefault:"/posters"`

	// Force-push every poster, skipping all hash comparison.
	ReapplyPosters bool `env:"REAPPLY_POSTERS" envDefault:"false"`

	// Treat hyphens and spaces as interchangeable when matching file
	// names to collection titles.
	NormalizeHyphens bool `env:"NORMALIZE_HYPHENS" envDefault:"true"`

	// Per-request timeout for Plex API calls.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Maximum upload attempts per poster before giving up on that item.
	MaxRetries int `env:"MAX_RETRIES" envDefault:"3"`

	// Worker pool size. 1 processes items strictly sequentially.
	MaxWorkers int `env:"MAX_WORKERS" envDefault:"4"`

	// Log verbosity and optional log file (teed with stdout).
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogPath  string `env:"LOG_PATH"`

	// Cache database location. Empty means <POSTER_FOLDER>/.poster_cache.db.
	CachePath string `env:"CACHE_PATH"`

	// Environment controls log format.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Keep running and re-sync whenever the poster folder changes.
	Watch         bool          `env:"WATCH" envDefault:"false"`
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"2s"`

	// Device name this client identifies as. Defaults to system hostname.
	DeviceName string `env:"DEVICE_NAME"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing the Plex token to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.PlexURL = strings.TrimRight(cfg.PlexURL, "/")

	if cfg.DeviceName == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "poster-sync"
		}

		cfg.DeviceName = hostname
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PlexURL == "" {
		return fmt.Errorf("PLEX_URL is required")
	}

	if c.PlexToken == "" {
		return fmt.Errorf("PLEX_TOKEN is required")
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}

	if c.MaxWorkers < 1 {
		return fmt.Errorf("MAX_WORKERS must be at least 1")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}

// CacheFile returns the resolved cache database path: CACHE_PATH when
// set, otherwise a hidden sidecar file inside the poster folder.
func (c *Config) CacheFile() string {
	if c.CachePath != "" {
		return c.CachePath
	}

	return filepath.Join(c.PosterFolder, cacheFileName)
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
