package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultGain      = 1.0
	DefaultSmoothing = 0.7
	DefaultPort      = 8080
	DefaultFPS       = 60
	DefaultScene     = "spectrum"
	DefaultBPM       = 120.0
	DefaultQuantum   = 4.0
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			Enabled:   true,
			Gain:      DefaultGain,
			Smoothing: DefaultSmoothing,
		},
		Control: ControlConfig{
			Enabled: true,
			Port:    DefaultPort,
		},
		Render: RenderConfig{
			FPS:   DefaultFPS,
			Scene: DefaultScene,
		},
		Tempo: TempoConfig{
			BPM:     DefaultBPM,
			Quantum: DefaultQuantum,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses .strobe/config.yaml from the given base path,
// then applies STROBE_* environment overrides. If the file doesn't exist,
// defaults are used. The returned config is always validated.
func LoadConfig(basePath string) (Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(basePath, ".strobe", "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults plus env overrides.
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that all config values are within operational bounds.
func Validate(cfg Config) error {
	if cfg.Audio.Gain <= 0 {
		return ValidationError{Field: "audio.gain", Message: "must be positive"}
	}
	if cfg.Audio.Smoothing < 0 || cfg.Audio.Smoothing >= 1 {
		return ValidationError{Field: "audio.smoothing", Message: "must be in [0, 1)"}
	}
	if cfg.Control.Port < 1 || cfg.Control.Port > 65535 {
		return ValidationError{Field: "control.port", Message: "must be in [1, 65535]"}
	}
	if cfg.Render.FPS < 1 || cfg.Render.FPS > 240 {
		return ValidationError{Field: "render.fps", Message: "must be in [1, 240]"}
	}
	if cfg.Tempo.BPM < 20 || cfg.Tempo.BPM > 999 {
		return ValidationError{Field: "tempo.bpm", Message: "must be in [20, 999]"}
	}
	if cfg.Tempo.Quantum < 1 {
		return ValidationError{Field: "tempo.quantum", Message: "must be at least 1"}
	}
	return nil
}
