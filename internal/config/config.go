package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrInvalid = errors.New("invalid config")

// Duration reads and writes as a Go duration string ("1.5s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config represents ~/.config/mindmate/config.toml. Empty paths fall back
// to the defaults next to the config file.
type Config struct {
	DBPath        string   `toml:"db_path"`
	LogPath       string   `toml:"log_path"`
	LogLevel      string   `toml:"log_level"`
	TypingDelay   Duration `toml:"typing_delay"`
	ChartEntries  int      `toml:"chart_entries"`
	RecentEntries int      `toml:"recent_entries"`
	SeedSamples   bool     `toml:"seed_samples"`
}

func Default() *Config {
	return &Config{
		LogLevel:      "info",
		TypingDelay:   Duration{1500 * time.Millisecond},
		ChartEntries:  7,
		RecentEntries: 5,
		SeedSamples:   true,
	}
}

// Load reads config from path on top of Default. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	if c.TypingDelay.Duration < 0 {
		return fmt.Errorf("%w: negative typing_delay", ErrInvalid)
	}
	if c.ChartEntries < 2 {
		return fmt.Errorf("%w: chart_entries must be at least 2", ErrInvalid)
	}
	if c.RecentEntries < 1 {
		return fmt.Errorf("%w: recent_entries must be at least 1", ErrInvalid)
	}
	return nil
}

// Dir is ~/.config/mindmate.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "mindmate"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolvePaths fills empty DBPath and LogPath from dir.
func (c *Config) ResolvePaths(dir string) {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "mindmate.db")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, "mindmate.log")
	}
}
