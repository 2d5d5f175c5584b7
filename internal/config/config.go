package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/vnamon/internal/remote"
)

// Config holds the measurement server credentials and local settings.
type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	RootPath   string
	CacheDir   string
	KnownHosts string
	LogFile    string

	SyncInterval   time.Duration
	RedrawInterval time.Duration
	RemoteTimeout  time.Duration
}

// PasswordEnv overrides the password from the config file when set.
const PasswordEnv = "VNAMON_PASSWORD"

const (
	defaultConfigPath     = "~/.config/vnamon/config.toml"
	defaultCacheDir       = "~/.local/share/vnamon"
	defaultLogFile        = "~/.local/state/vnamon/vnamon.log"
	defaultPort           = 22
	defaultSyncInterval   = 3000 * time.Millisecond
	defaultRedrawInterval = 2000 * time.Millisecond
	defaultRemoteTimeout  = 20 * time.Second
)

// ErrIncomplete is returned by Validate when the server cannot be addressed.
var ErrIncomplete = errors.New("config incomplete")

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Port:           defaultPort,
		CacheDir:       mustExpand(defaultCacheDir),
		LogFile:        mustExpand(defaultLogFile),
		SyncInterval:   defaultSyncInterval,
		RedrawInterval: defaultRedrawInterval,
		RemoteTimeout:  defaultRemoteTimeout,
	}
}

// Load locates and parses the vnamon config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host             string `toml:"host"`
		Port             int    `toml:"port"`
		User             string `toml:"user"`
		Password         string `toml:"password"`
		RootPath         string `toml:"root_path"`
		CacheDir         string `toml:"cache_dir"`
		KnownHosts       string `toml:"known_hosts"`
		LogFile          string `toml:"log_file"`
		SyncIntervalMS   int    `toml:"sync_interval_ms"`
		RedrawIntervalMS int    `toml:"redraw_interval_ms"`
		RemoteTimeoutS   int    `toml:"remote_timeout_s"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Host = strings.TrimSpace(raw.Host)
	cfg.User = strings.TrimSpace(raw.User)
	cfg.Password = raw.Password
	cfg.RootPath = strings.TrimSpace(raw.RootPath)
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}

	if dir := strings.TrimSpace(raw.CacheDir); dir != "" {
		cfg.CacheDir = mustExpand(dir)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if hosts := strings.TrimSpace(raw.KnownHosts); hosts != "" {
		cfg.KnownHosts = mustExpand(hosts)
	}

	if raw.SyncIntervalMS > 0 {
		cfg.SyncInterval = time.Duration(raw.SyncIntervalMS) * time.Millisecond
	}
	if raw.RedrawIntervalMS > 0 {
		cfg.RedrawInterval = time.Duration(raw.RedrawIntervalMS) * time.Millisecond
	}
	if raw.RemoteTimeoutS > 0 {
		cfg.RemoteTimeout = time.Duration(raw.RemoteTimeoutS) * time.Second
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		c.Password = pw
	}
}

// Validate reports whether the server can be addressed.
func (c Config) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Credentials returns the server identity used by the sync worker.
func (c Config) Credentials() remote.Credentials {
	return remote.Credentials{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		RootPath: c.RootPath,
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
