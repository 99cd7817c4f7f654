package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/vburojevic/aiidastats/internal/cli"
	"github.com/vburojevic/aiidastats/internal/config"
)

func main() {
	// Load configuration from files/environment (plus provenance metadata).
	cfg, meta, cfgErr := config.LoadWithMeta()
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", cfgErr)
		cfg = config.Default()
		meta = nil
	}

	var c cli.CLI

	// Config values become flag defaults; explicit flags still win.
	vars := kong.Vars{
		"config_format":        cfg.Format,
		"config_profile":       cfg.Profile,
		"config_output":        cfg.Output,
		"config_verdi":         cfg.Verdi,
		"config_aiida_path":    cfg.AiidaPath,
		"config_aiida_version": cfg.AiidaVersion,
	}

	ctx := kong.Parse(&c,
		kong.Name("aiidastats"),
		kong.Description("Count the nodes of an AiiDA profile by type and write statistics.json"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	globals.ConfigErr = cfgErr
	if meta != nil {
		globals.ConfigFile = meta.ConfigFile
	}
	defer func() { _ = globals.Logger.Sync() }()

	if err := ctx.Run(globals); err != nil {
		// Structured errors have already been emitted by the command.
		var cliErr *cli.CLIError
		if !errors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		_ = globals.Logger.Sync()
		os.Exit(1)
	}
}
