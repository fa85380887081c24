// Package config loads uPanel configuration from the state directory.
// Defaults are applied first, then <state-dir>/config.yaml if present, then
// UPANEL_* environment variables, so the environment always wins.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the uPanel client.
type Config struct {
	// APIBaseURL is the base URL of the user records backend.
	APIBaseURL string `yaml:"api_base_url"`

	// ViaCEPBaseURL is the base URL of the postal-code lookup service.
	ViaCEPBaseURL string `yaml:"viacep_base_url"`

	// PageSize is the listing page size requested from the backend.
	PageSize int `yaml:"page_size"`

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Theme selects the TUI theme ("light" or "dark"; empty auto-detects).
	Theme string `yaml:"theme,omitempty"`

	// StateDir holds the local database, logs and this config file.
	// Defaults to ~/.upanel.
	StateDir string `yaml:"state_dir,omitempty"`

	// Verbose raises the log level to debug.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:     "http://localhost:5000",
		ViaCEPBaseURL:  "https://viacep.com.br",
		PageSize:       10,
		RequestTimeout: 30 * time.Second,
	}
}

// Load reads the config file under stateDir (if any) and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(stateDir string) (Config, error) {
	cfg := Default()

	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".upanel")
	}
	cfg.StateDir = stateDir

	path := filepath.Join(stateDir, "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if cfg.StateDir == "" {
			cfg.StateDir = stateDir
		}
	case os.IsNotExist(err):
		// First run: defaults only.
	default:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if cfg.PageSize <= 0 {
		cfg.PageSize = Default().PageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = Default().RequestTimeout
	}

	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("UPANEL_API_URL"); url != "" {
		c.APIBaseURL = url
	}
	if url := os.Getenv("UPANEL_VIACEP_URL"); url != "" {
		c.ViaCEPBaseURL = url
	}
	if theme := os.Getenv("UPANEL_THEME"); theme != "" {
		c.Theme = theme
	}
	if dir := os.Getenv("UPANEL_STATE_DIR"); dir != "" {
		c.StateDir = dir
	}
	if timeout := os.Getenv("UPANEL_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.RequestTimeout = d
		}
	}
}

// Save writes the configuration back to stateDir/config.yaml.
func (c Config) Save() error {
	if c.StateDir == "" {
		return fmt.Errorf("cannot save config: state dir not set")
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(c.StateDir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// LogPath returns the log file location under the state dir.
func (c Config) LogPath() string {
	return filepath.Join(c.StateDir, "logs", "upanel.log")
}

// DBPath returns the local database location under the state dir.
func (c Config) DBPath() string {
	return filepath.Join(c.StateDir, "upanel.db")
}
