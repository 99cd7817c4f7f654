// Package aiida reads the AiiDA environment: the config directory, the
// profile to query and the installed AiiDA version.
package aiida

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ConfigFileName is the AiiDA configuration file inside the config directory.
const ConfigFileName = "config.json"

// DefaultDirName is the AiiDA config directory name.
const DefaultDirName = ".aiida"

var (
	// ErrConfigNotFound is returned when no AiiDA config.json can be located.
	ErrConfigNotFound = errors.New("aiida config not found")
	// ErrProfileNotFound is returned when the requested profile is not configured.
	ErrProfileNotFound = errors.New("aiida profile not found")
	// ErrNoDefaultProfile is returned when no profile was requested and none is marked default.
	ErrNoDefaultProfile = errors.New("no aiida profile selected")
)

// Config is a parsed AiiDA config.json.
type Config struct {
	Path string
	raw  gjson.Result
}

// FindConfigDir locates the AiiDA config directory.
// Search order:
// 1. override, when non-empty (used as is, or <override>/.aiida)
// 2. each entry of AIIDA_PATH, in order
// 3. ~/.aiida
func FindConfigDir(override string) (string, error) {
	var candidates []string
	if override != "" {
		candidates = append(candidates, override)
	} else {
		if env := os.Getenv("AIIDA_PATH"); env != "" {
			for _, entry := range filepath.SplitList(env) {
				if entry != "" {
					candidates = append(candidates, entry)
				}
			}
		}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, home)
		}
	}

	for _, c := range candidates {
		dir := c
		if filepath.Base(dir) != DefaultDirName {
			dir = filepath.Join(dir, DefaultDirName)
		}
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}
		// An explicit directory may hold config.json directly.
		if override != "" {
			if _, err := os.Stat(filepath.Join(c, ConfigFileName)); err == nil {
				return c, nil
			}
		}
	}

	return "", fmt.Errorf("%w (searched %s)", ErrConfigNotFound, strings.Join(candidates, ", "))
}

// LoadConfig reads config.json from dir.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aiida config: %w", err)
	}
	return ParseConfig(path, data)
}

// ParseConfig parses config.json content. path is only used in messages.
func ParseConfig(path string, data []byte) (*Config, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse aiida config %s: invalid JSON", path)
	}
	return &Config{Path: path, raw: gjson.ParseBytes(data)}, nil
}

// DefaultProfile returns the profile marked as default. AiiDA >= 1.0 stores
// it as default_profile, 0.x as default_profiles.verdi.
func (c *Config) DefaultProfile() string {
	if name := c.raw.Get("default_profile").String(); name != "" {
		return name
	}
	return c.raw.Get("default_profiles.verdi").String()
}

// ProfileNames lists the configured profiles, sorted.
func (c *Config) ProfileNames() []string {
	var names []string
	c.raw.Get("profiles").ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	return names
}

// Profile resolves a profile by name. An empty name picks AIIDA_PROFILE,
// then the configured default.
func (c *Config) Profile(name string) (*Profile, error) {
	if name == "" {
		name = os.Getenv("AIIDA_PROFILE")
	}
	if name == "" {
		name = c.DefaultProfile()
	}
	if name == "" {
		return nil, fmt.Errorf("%w: pass --profile or set a default profile in %s", ErrNoDefaultProfile, c.Path)
	}

	var (
		entry gjson.Result
		found bool
	)
	c.raw.Get("profiles").ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			entry = value
			found = true
			return false
		}
		return true
	})
	if !found {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrProfileNotFound, name, strings.Join(c.ProfileNames(), ", "))
	}
	return parseProfile(name, entry)
}
