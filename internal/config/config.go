// Package config loads the optional YAML settings file. Only ambient
// concerns live here; the overheat ceiling, pulse count and cadence are
// fixed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/luki/thermwatch/internal/logger"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "THERMWATCH_CONFIG"

// Config is the top-level configuration structure.
type Config struct {
	Log logger.Config `yaml:"log"`
	// NvidiaSMI enables the nvidia-smi GPU temperature source.
	NvidiaSMI bool `yaml:"nvidia_smi"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:       logger.DefaultConfig(),
		NvidiaSMI: true,
	}
}

// Path returns $THERMWATCH_CONFIG, or <UserConfigDir>/thermwatch/config.yaml.
func Path() string {
	if p, ok := os.LookupEnv(EnvPath); ok && p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "thermwatch", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
