package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel   = "info"
	defaultSlotHeight = 1
	maxSlotHeight     = 3
)

// Config is the startup configuration read from config.yaml. Grid
// preferences (hours, interval, week start) are user settings kept in the
// database instead.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// LogFile receives the application log; the terminal is owned by the UI.
	LogFile string `yaml:"log_file"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level"`

	// SlotHeight is the number of terminal rows drawn per time slot (1-3).
	SlotHeight int `yaml:"slot_height"`

	// Mouse enables mouse tracking for drag selection.
	Mouse *bool `yaml:"mouse,omitempty"`
}

// Dir returns ~/.config/studygrid.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studygrid"), nil
}

// DefaultPath returns ~/.config/studygrid/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration written on first run, with files placed
// next to path.
func Default(path string) *Config {
	dir := filepath.Dir(path)
	mouse := true
	return &Config{
		DBPath:     filepath.Join(dir, "studygrid.db"),
		LogFile:    filepath.Join(dir, "studygrid.log"),
		LogLevel:   defaultLogLevel,
		SlotHeight: defaultSlotHeight,
		Mouse:      &mouse,
	}
}

// MouseEnabled reports whether mouse tracking is on (default true).
func (c *Config) MouseEnabled() bool {
	return c.Mouse == nil || *c.Mouse
}

// Normalize fills zero values from Default and clamps SlotHeight.
func (c *Config) Normalize(path string) {
	def := Default(path)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.SlotHeight < 1 {
		c.SlotHeight = defaultSlotHeight
	}
	if c.SlotHeight > maxSlotHeight {
		c.SlotHeight = maxSlotHeight
	}
}

// Load reads the YAML file at path. On first run it writes the default
// configuration with 0600 permissions and returns it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default(path)
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize(path)
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".studygrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
