// ABOUTME: Fitness configuration management with backend selection.
// ABOUTME: Merges the JSON config file, an optional .env file and FITNESS_* environment overrides.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/harperreed/fitness/internal/storage"
)

const (
	defaultUserID   = 1
	defaultLogLevel = "info"
	defaultHTTPAddr = "127.0.0.1:8080"
)

// Config stores fitness tool configuration.
// Every field can be overridden by the FITNESS_* variable named in its env tag.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "postgres" or "mysql".
	Backend string `json:"backend,omitempty" env:"FITNESS_BACKEND"`

	// DataDir is where SQLite keeps fitness.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitness.
	DataDir string `json:"data_dir,omitempty" env:"FITNESS_DATA_DIR"`

	// Network backend connection settings.
	DBName     string `json:"db_name,omitempty" env:"FITNESS_DB_NAME"`
	DBUser     string `json:"db_user,omitempty" env:"FITNESS_DB_USER"`
	DBPassword string `json:"db_password,omitempty" env:"FITNESS_DB_PASSWORD"`
	DBHost     string `json:"db_host,omitempty" env:"FITNESS_DB_HOST"`
	DBPort     int    `json:"db_port,omitempty" env:"FITNESS_DB_PORT"`
	DBSSLMode  string `json:"db_sslmode,omitempty" env:"FITNESS_DB_SSLMODE"`

	// UserID is the session identity used by the CLI, MCP server and HTTP API.
	UserID int64 `json:"user_id,omitempty" env:"FITNESS_USER_ID"`

	LogLevel string `json:"log_level,omitempty" env:"FITNESS_LOG_LEVEL"`
	LogFile  string `json:"log_file,omitempty" env:"FITNESS_LOG_FILE"`

	// HTTPAddr is the listen address for `fitness serve`.
	HTTPAddr string `json:"http_addr,omitempty" env:"FITNESS_HTTP_ADDR"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return storage.DriverSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetUserID returns the session user id, defaulting to 1.
func (c *Config) GetUserID() int64 {
	if c.UserID <= 0 {
		return defaultUserID
	}
	return c.UserID
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// GetLogFile returns the log file path with ~ expanded, or "" for console only.
func (c *Config) GetLogFile() string {
	return ExpandPath(c.LogFile)
}

// GetHTTPAddr returns the HTTP listen address.
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return defaultHTTPAddr
	}
	return c.HTTPAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// StorageOptions converts the configuration into storage connection options.
func (c *Config) StorageOptions() (storage.Options, error) {
	backend := c.GetBackend()

	switch backend {
	case storage.DriverSQLite:
		return storage.Options{
			Driver: backend,
			Path:   filepath.Join(c.GetDataDir(), "fitness.db"),
		}, nil
	case storage.DriverPostgres, storage.DriverMySQL:
		host := c.DBHost
		if host == "" {
			host = "localhost"
		}
		port := c.DBPort
		if port == 0 {
			port = storage.DefaultPort(backend)
		}
		name := c.DBName
		if name == "" {
			name = "fitness"
		}
		return storage.Options{
			Driver:   backend,
			Name:     name,
			User:     c.DBUser,
			Password: c.DBPassword,
			Host:     host,
			Port:     port,
			SSLMode:  c.DBSSLMode,
		}, nil
	default:
		return storage.Options{}, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// OpenStorage opens the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (*storage.DB, error) {
	opts, err := c.StorageOptions()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, opts)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitness", "config.json")
}

// Load reads config from disk, then applies .env and environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a JSON config file. A missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from a .env file if one exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from FITNESS_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
