package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	// ServerURL is the base URL of the JobTrack API.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`

	// DownloadDir is where CSV exports are written.
	DownloadDir string `mapstructure:"download_dir" yaml:"download_dir"`

	// ToastTTLMs is how long a toast stays on screen, in milliseconds.
	ToastTTLMs int `mapstructure:"toast_ttl_ms" yaml:"toast_ttl_ms"`
}

// ToastTTL returns the toast lifetime as a duration.
func (c *Config) ToastTTL() time.Duration {
	return time.Duration(c.ToastTTLMs) * time.Millisecond
}

// DefaultPath returns the default path for the configuration file,
// located at ~/.config/jobtrack/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jobtrack", "config.yaml")
}

// defaultDownloadDir prefers ~/Downloads and falls back to the
// working directory.
func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func defaults() *Config {
	return &Config{
		ServerURL:   "http://localhost:8000",
		DownloadDir: defaultDownloadDir(),
		ToastTTLMs:  3000,
	}
}

// Load reads configuration from the given YAML file path using Viper.
// Missing files resolve to defaults. JOBTRACK_SERVER_URL overrides the
// server URL from the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("download_dir", defaultDownloadDir())
	v.SetDefault("toast_ttl_ms", 3000)

	v.SetEnvPrefix("jobtrack")
	_ = v.BindEnv("server_url")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			cfg := defaults()
			applyEnv(v, cfg)
			return cfg, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := defaults()
			applyEnv(v, cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.ToastTTLMs <= 0 {
		cfg.ToastTTLMs = 3000
	}

	return cfg, nil
}

// applyEnv picks up bound environment overrides when no file was read.
func applyEnv(v *viper.Viper, cfg *Config) {
	if s := v.GetString("server_url"); s != "" {
		cfg.ServerURL = s
	}
}

// Save writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server_url", cfg.ServerURL)
	v.Set("download_dir", cfg.DownloadDir)
	v.Set("toast_ttl_ms", cfg.ToastTTLMs)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
