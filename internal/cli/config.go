package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/aiidastats/internal/config"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.config()

	if globals.Format == "ndjson" {
		out := map[string]interface{}{
			"type":          "config",
			"format":        cfg.Format,
			"quiet":         cfg.Quiet,
			"verbose":       cfg.Verbose,
			"profile":       cfg.Profile,
			"aiida_path":    cfg.AiidaPath,
			"aiida_version": cfg.AiidaVersion,
			"verdi":         cfg.Verdi,
			"output":        cfg.Output,
		}
		if globals.ConfigFile != "" {
			out["config_file"] = globals.ConfigFile
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintf(globals.Stdout, "  format:        %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:         %v\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose:       %v\n", cfg.Verbose)
	fmt.Fprintf(globals.Stdout, "  output:        %s\n", cfg.Output)
	fmt.Fprintf(globals.Stdout, "  verdi:         %s\n", cfg.Verdi)
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "AiiDA:")
	fmt.Fprintf(globals.Stdout, "  profile:       %s\n", orDefault(cfg.Profile, "(AIIDA_PROFILE or default profile)"))
	fmt.Fprintf(globals.Stdout, "  aiida_path:    %s\n", orDefault(cfg.AiidaPath, "(AIIDA_PATH or ~/.aiida)"))
	fmt.Fprintf(globals.Stdout, "  aiida_version: %s\n", orDefault(cfg.AiidaVersion, "(detected with verdi --version)"))

	if globals.ConfigFile != "" {
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintf(globals.Stdout, "Loaded from: %s\n", globals.ConfigFile)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]interface{}{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.aiidastats.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.aiidastats.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/aiidastats/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

const sampleConfig = `# aiidastats configuration file
# Place this file at ./.aiidastats.yaml, ~/.aiidastats.yaml or
# ~/.config/aiidastats/config.yaml

# Output format: "text" (default) or "ndjson"
format: text

# Suppress progress lines
quiet: false

# Debug logging on stderr
verbose: false

# AiiDA profile to query (empty = AIIDA_PROFILE, then the default profile)
# profile: default

# Directory holding .aiida/config.json (empty = AIIDA_PATH, then ~/.aiida)
# aiida_path: /srv/aiida

# Skip verdi and assume this AiiDA version
# aiida_version: 2.6.1

# verdi executable used for version detection
verdi: verdi

# Statistics file written by collect and read by show
output: statistics.json
`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	fmt.Fprint(globals.Stdout, sampleConfig)
	return nil
}
