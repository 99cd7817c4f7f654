package cli

import (
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vburojevic/aiidastats/internal/config"
)

// CLI is the root command structure for aiidastats
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"text,ndjson" help:"Output format for progress and command output"`
	Quiet   bool   `short:"q" help:"Suppress progress output"`
	Verbose bool   `short:"v" help:"Show debug output (profile resolution, SQL, row counts)"`
	Profile string `short:"p" default:"${config_profile}" help:"AiiDA profile to query (defaults to AIIDA_PROFILE, then the configured default profile)"`

	Version VersionCmd `cmd:"" help:"Show version information"`

	// Commands
	Collect  CollectCmd  `cmd:"" default:"withargs" help:"Count nodes by type and write the statistics file"`
	Show     ShowCmd     `cmd:"" help:"Show the contents of a statistics file"`
	Dialects DialectsCmd `cmd:"" help:"List the query dialects and the AiiDA versions they apply to"`
	Doctor   DoctorCmd   `cmd:"" help:"Check the AiiDA environment and database connection"`
	Config   ConfigCmd   `cmd:"" help:"Show or manage configuration"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format     string
	Quiet      bool
	Verbose    bool
	Profile    string
	Stdout     io.Writer
	Stderr     io.Writer
	Config     *config.Config
	ConfigFile string
	ConfigErr  error
	Logger     *zap.Logger
	Clock      clock.Clock
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Profile: cli.Profile,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Clock:   clock.New(),
	}
	g.Logger = NewLogger(g.Verbose, g.Stderr)
	return g
}

// NewLogger returns a console logger on w at debug level when verbose is
// set, otherwise a no-op logger.
func NewLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Named("aiidastats")
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Globals) clock() clock.Clock {
	if g.Clock == nil {
		return clock.New()
	}
	return g.Clock
}

func (g *Globals) config() *config.Config {
	if g.Config == nil {
		return config.Default()
	}
	return g.Config
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		io.WriteString(globals.Stdout, `{"type":"version","version":"`+Version+`","commit":"`+Commit+`"}`+"\n")
	} else {
		io.WriteString(globals.Stdout, "aiidastats version "+Version+" ("+Commit+")\n")
	}
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
