// Package config loads and saves cfohelper preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all cfohelper configuration.
type Config struct {
	Scenario   ScenarioConfig   `toml:"scenario"`
	Report     ReportConfig     `toml:"report"`
	Billing    BillingConfig    `toml:"billing"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// ScenarioConfig holds the starting dial positions.
type ScenarioConfig struct {
	SpendingPct float64 `toml:"spending_pct"`
	HiringCount int     `toml:"hiring_count"`
	PricingPct  float64 `toml:"pricing_pct"`
	// Derivation is "pure" or "incremental".
	Derivation string `toml:"derivation"`
}

// ReportConfig holds report export settings.
type ReportConfig struct {
	Format        string `toml:"format"`
	OutputDir     string `toml:"output_dir,omitempty"`
	DelayMS       int    `toml:"delay_ms"`
	DefaultPrompt string `toml:"default_prompt,omitempty"`
}

// BillingConfig holds the usage meter rates.
type BillingConfig struct {
	Currency       string   `toml:"currency"`
	PerScenarioUSD *float64 `toml:"per_scenario_usd,omitempty"`
	PerReportUSD   *float64 `toml:"per_report_usd,omitempty"`
}

// ServerConfig holds settings for serve mode.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RedisAddr      string   `toml:"redis_addr,omitempty"`
	CacheTTLSec    int      `toml:"cache_ttl_sec"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Scenario: ScenarioConfig{
			SpendingPct: 50,
			HiringCount: 10,
			PricingPct:  100,
			Derivation:  "pure",
		},
		Report: ReportConfig{
			Format:  "json",
			DelayMS: 2000,
		},
		Billing: BillingConfig{
			Currency: "USD",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8787",
			CacheTTLSec:    300,
			AllowedOrigins: []string{"*"},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfohelper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cfohelper")
}

// StateDir returns the directory for runtime files such as the serve pid file.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfohelper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "cfohelper")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config location
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv("CFOHELPER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if addr := os.Getenv("CFOHELPER_REDIS_ADDR"); addr != "" {
		cfg.Server.RedisAddr = addr
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config location
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
