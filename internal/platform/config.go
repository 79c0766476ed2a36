package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the optional project configuration file.
const ConfigFileName = ".notatki.yaml"

// Config mirrors .notatki.yaml. Relative paths are resolved against the
// directory holding the file.
type Config struct {
	Database string `yaml:"database"`
	LogFile  string `yaml:"log_file"`
	Pattern  string `yaml:"pattern"`
	DryRun   bool   `yaml:"dry_run"`

	dir string
}

// LoadConfig reads a configuration file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(abs)
	return cfg, nil
}

// DiscoverConfig looks for ConfigFileName from startDir upwards.
// A missing file is not an error; the zero Config is returned instead.
func DiscoverConfig(startDir string) (*Config, error) {
	dir, err := FindRoot(startDir)
	if err != nil {
		return &Config{}, nil
	}
	return LoadConfig(filepath.Join(dir, ConfigFileName))
}

// DatabasePath returns the configured database, resolved against the config directory.
func (c *Config) DatabasePath() string {
	return c.resolve(c.Database)
}

// LogPath returns the configured log file, resolved against the config directory.
func (c *Config) LogPath() string {
	return c.resolve(c.LogFile)
}

// Options converts the file into functional options. Options passed after
// these on the same call win.
func (c *Config) Options() []Option {
	return []Option{
		WithDatabase(c.DatabasePath()),
		WithPattern(c.Pattern),
		WithDryRun(c.DryRun),
	}
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
