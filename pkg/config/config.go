package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the runtime settings of the exercise catalog.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr" env:"EXERCISES_ADDR" env-default:"127.0.0.1:3000"`
	// DBPath is the SQLite catalog file.
	DBPath string `yaml:"db_path" env:"EXERCISES_DB_PATH" env-default:"./db/exercises.db"`
	// BlobDir is the root directory of the stored exercise files.
	BlobDir string `yaml:"blob_dir" env:"EXERCISES_BLOB_DIR" env-default:"./exercises"`
	// MaxUpload is the request body limit for uploads, e.g. "32MB".
	MaxUpload string `yaml:"max_upload" env:"EXERCISES_MAX_UPLOAD" env-default:"32MB"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level" env:"EXERCISES_LOG_LEVEL" env-default:"info"`
}

// Load reads path (yaml) when it is given and exists, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			return &cfg, cfg.Validate()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate checks that required settings are present and well formed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path is required")
	}
	if strings.TrimSpace(c.BlobDir) == "" {
		return errors.New("blob_dir is required")
	}
	if _, err := c.MaxUploadBytes(); err != nil {
		return err
	}
	return nil
}

// MaxUploadBytes parses MaxUpload into a byte count.
func (c *Config) MaxUploadBytes() (uint64, error) {
	size, err := humanize.ParseBytes(c.MaxUpload)
	if err != nil {
		return 0, fmt.Errorf("invalid max_upload %q: %w", c.MaxUpload, err)
	}
	if size == 0 {
		return 0, fmt.Errorf("invalid max_upload %q: must be positive", c.MaxUpload)
	}
	return size, nil
}
