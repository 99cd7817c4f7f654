package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// AiiDA environment
	Profile      string `mapstructure:"profile"`
	AiidaPath    string `mapstructure:"aiida_path"`
	AiidaVersion string `mapstructure:"aiida_version"`
	Verdi        string `mapstructure:"verdi"`

	// Collect command defaults
	Output string `mapstructure:"output"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Verdi:   "verdi",
		Output:  "statistics.json",
	}
}

// Meta records where configuration came from
type Meta struct {
	ConfigFile string
	// EnvKeys lists config keys overridden from the environment
	EnvKeys []string
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.aiidastats.yaml or ./.aiidastats.yml
// 2. ~/.aiidastats.yaml or ~/.aiidastats.yml
// 3. $XDG_CONFIG_HOME/aiidastats/config.yaml (or ~/.config/aiidastats/config.yaml)
// 4. /etc/aiidastats/config.yaml
func Load() (*Config, error) {
	cfg, _, err := LoadWithMeta()
	return cfg, err
}

// LoadWithMeta is Load plus provenance information
func LoadWithMeta() (*Config, *Meta, error) {
	cfg := Default()
	meta := &Meta{}

	configFile := findConfigFile()
	if configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
		meta.ConfigFile = configFile
	}

	meta.EnvKeys = applyEnvOverrides(cfg)
	return cfg, meta, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".aiidastats.yaml", ".aiidastats.yml", "aiidastats.yaml", "aiidastats.yml"}

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}
	var dirs []string
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, "aiidastats"))
	}
	dirs = append(dirs, "/etc/aiidastats")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	// config.yaml is only looked up inside the tool's own directories
	for _, dir := range dirs {
		for _, name := range append(names, "config.yaml", "config.yml") {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// applyEnvOverrides applies AIIDASTATS_* environment variables and returns
// the keys that were overridden
func applyEnvOverrides(cfg *Config) []string {
	var keys []string
	set := func(key string, apply func(string)) {
		if v := os.Getenv("AIIDASTATS_" + key); v != "" {
			apply(v)
			keys = append(keys, key)
		}
	}
	set("FORMAT", func(v string) { cfg.Format = v })
	set("QUIET", func(v string) { cfg.Quiet = v == "true" || v == "1" })
	set("VERBOSE", func(v string) { cfg.Verbose = v == "true" || v == "1" })
	set("PROFILE", func(v string) { cfg.Profile = v })
	set("AIIDA_PATH", func(v string) { cfg.AiidaPath = v })
	set("AIIDA_VERSION", func(v string) { cfg.AiidaVersion = v })
	set("VERDI", func(v string) { cfg.Verdi = v })
	set("OUTPUT", func(v string) { cfg.Output = v })
	return keys
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
