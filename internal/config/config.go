package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "habitgrid"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "habitgrid.db"
	DefaultLogName        = "habitgrid.log"
)

type Config struct {
	DBPath    string `toml:"db_path"`
	ExportDir string `toml:"export_dir"`
	LogFile   string `toml:"log_file"`
	LogLevel  string `toml:"log_level"`
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Empty values fall back to defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	def := defaultConfig()
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = def.ExportDir
	}
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:    DefaultDBPath(),
		ExportDir: defaultExportDir(),
		LogFile:   filepath.Join(XDGDataHome(), AppName, DefaultLogName),
		LogLevel:  "info",
	}
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}
