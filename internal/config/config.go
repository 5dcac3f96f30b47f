package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/snipkit/ai-terminal-verse-06/internal/logging"
)

type Config struct {
	Model                 string         `yaml:"model"`
	AgentMode             bool           `yaml:"agent_mode"`
	EnabledPlugins        []string       `yaml:"enabled_plugins"`
	Denylist              []string       `yaml:"denylist"`
	ResponseDelayMs       int            `yaml:"response_delay_ms"`
	StepDelayMs           int            `yaml:"step_delay_ms"`
	CorrectionDelayMs     int            `yaml:"correction_delay_ms"`
	CorrectionSuccessRate float64        `yaml:"correction_success_rate"`
	WorkflowDir           string         `yaml:"workflow_dir"`
	Log                   logging.Config `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Model:                 "gpt-4o",
		AgentMode:             false,
		EnabledPlugins:        []string{"kubectl", "git", "docker", "npm"},
		Denylist:              []string{"rm -rf", "sudo rm", "format", "delete"},
		ResponseDelayMs:       1000,
		StepDelayMs:           2000,
		CorrectionDelayMs:     2000,
		CorrectionSuccessRate: 0.7,
		Log:                   logging.DefaultConfig(),
	}
}

// LoadConfig reads the YAML config at path, falling back to defaults
// when the file is missing and clamping values that would break the
// simulation timings.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.ResponseDelayMs <= 0 {
		cfg.ResponseDelayMs = 1000
	}
	if cfg.StepDelayMs <= 0 {
		cfg.StepDelayMs = 2000
	}
	if cfg.CorrectionDelayMs <= 0 {
		cfg.CorrectionDelayMs = 2000
	}
	if cfg.CorrectionSuccessRate <= 0 || cfg.CorrectionSuccessRate > 1 {
		cfg.CorrectionSuccessRate = 0.7
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "aiterm", "config.yml")
}
