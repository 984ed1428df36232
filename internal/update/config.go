package update

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Debug               bool   `yaml:"debug"`
	LogFile             string `yaml:"log_file"`
	ErrorDisplaySeconds int    `yaml:"error_display_seconds"`
	CellWidth           int    `yaml:"cell_width"`
	CellHeight          int    `yaml:"cell_height"`
	Seed                bool   `yaml:"seed"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Debug:               false,
		LogFile:             "",
		ErrorDisplaySeconds: 4,
		CellWidth:           36,
		CellHeight:          10,
		Seed:                false,
	}
}

// ErrorDisplay is how long the UI keeps an error notice before dismissing it.
// Zero keeps it until the user dismisses it.
func (c RuntimeConfig) ErrorDisplay() time.Duration {
	if c.ErrorDisplaySeconds <= 0 {
		return 0
	}
	return time.Duration(c.ErrorDisplaySeconds) * time.Second
}

// LoadRuntimeConfigFile overlays the YAML file at path on base. A missing
// file leaves base unchanged.
func LoadRuntimeConfigFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return base, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("read config %s: %w", trimmed, err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", trimmed, err)
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = base.CellWidth
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = base.CellHeight
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvBool("MATRIXD_DEBUG"); ok {
		cfg.Debug = v
	}
	if v := strings.TrimSpace(os.Getenv("MATRIXD_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("MATRIXD_ERROR_DISPLAY_SECONDS"); ok && v >= 0 {
		cfg.ErrorDisplaySeconds = v
	}
	if v, ok := getEnvInt("MATRIXD_CELL_WIDTH"); ok && v > 0 {
		cfg.CellWidth = v
	}
	if v, ok := getEnvInt("MATRIXD_CELL_HEIGHT"); ok && v > 0 {
		cfg.CellHeight = v
	}
	if v, ok := getEnvBool("MATRIXD_SEED"); ok {
		cfg.Seed = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
