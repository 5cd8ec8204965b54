package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`

	// Metadata sent with every exchange.
	Channel  string `yaml:"channel"`
	Language string `yaml:"language"`
	Locale   string `yaml:"locale"`

	// FinalizeAfter is the number of completed exchanges after which the
	// remote service is expected to finalize the session.
	FinalizeAfter int `yaml:"finalize_after"`
	// ConfirmDelayMS is how long to wait before confirming finalization,
	// giving the service time to finish its asynchronous wrap-up.
	ConfirmDelayMS int `yaml:"confirm_delay_ms"`
	// ConfirmRetries bounds the re-poll when the first confirmation
	// fetch still reports the session as active.
	ConfirmRetries int `yaml:"confirm_retries"`

	ExportDir string `yaml:"export_dir"`
	LogFile   string `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		APIURL:         "http://localhost:8000",
		Channel:        "Web",
		Language:       "English",
		Locale:         "IN",
		FinalizeAfter:  10,
		ConfirmDelayMS: 2000,
		ConfirmRetries: 3,
	}
}

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
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:8000"
	}
	if cfg.Channel == "" {
		cfg.Channel = "Web"
	}
	if cfg.Language == "" {
		cfg.Language = "English"
	}
	if cfg.Locale == "" {
		cfg.Locale = "IN"
	}
	if cfg.FinalizeAfter <= 0 {
		cfg.FinalizeAfter = 10
	}
	if cfg.ConfirmDelayMS <= 0 {
		cfg.ConfirmDelayMS = 2000
	}
	if cfg.ConfirmRetries <= 0 {
		cfg.ConfirmRetries = 3
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "aurora", "config.yml")
}

func DefaultLogPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "aurora", "aurora.log")
}
