package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vburojevic/aiidastats/internal/aiida"
	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/domain"
	"github.com/vburojevic/aiidastats/internal/output"
	"github.com/vburojevic/aiidastats/internal/stats"
	"github.com/vburojevic/aiidastats/internal/store"
)

// CollectCmd counts the nodes of a profile and writes the statistics file
type CollectCmd struct {
	Output       string `short:"o" default:"${config_output}" help:"Statistics file to write"`
	AiidaVersion string `default:"${config_aiida_version}" help:"AiiDA version to assume instead of running verdi --version"`
	Verdi        string `default:"${config_verdi}" help:"verdi executable used to detect the AiiDA version"`
	AiidaPath    string `default:"${config_aiida_path}" help:"Directory holding .aiida/config.json (defaults to AIIDA_PATH, then ~/.aiida)"`
}

// Run executes the collect command
func (c *CollectCmd) Run(globals *Globals) error {
	ctx := context.Background()
	logger := globals.logger()

	path := c.Output
	if path == "" {
		path = output.DefaultReportFile
	}

	profile, err := resolveProfile(globals, c.AiidaPath)
	if err != nil {
		return fail(globals, codeFor(err, "AIIDA_CONFIG_INVALID"), err)
	}

	detector := &aiida.VersionDetector{Override: c.AiidaVersion, Verdi: c.Verdi, Logger: logger}
	version, err := detector.Detect(ctx)
	if err != nil {
		return fail(globals, "VERSION_DETECTION_FAILED", err)
	}
	// Reject unknown versions before any connection is made.
	if _, _, err := dialect.Default.SelectString(version); err != nil {
		return fail(globals, codeFor(err, "INVALID_VERSION"), err)
	}

	// The connection is made on the first query, after "Starting query".
	nodes := &lazyStore{target: store.TargetForProfile(profile), logger: logger}
	defer func() {
		if cerr := nodes.Close(); cerr != nil {
			logger.Warn("close database", zap.Error(cerr))
		}
	}()

	progress := output.NewProgressPrinter(globals.Stdout, globals.clock(), globals.Format, globals.Quiet)
	collector := &stats.Collector{
		Nodes:    nodes,
		Dialects: dialect.Default,
		Progress: progress,
		Logger:   logger,
	}
	report, err := collector.Collect(ctx, version)
	if err != nil {
		code := "QUERY_FAILED"
		if errors.Is(err, errConnect) {
			code = "CONNECT_FAILED"
		}
		return fail(globals, codeFor(err, code), err)
	}

	if err := output.WriteReportFile(path, report); err != nil {
		return fail(globals, "WRITE_FAILED", err, "Check that the output directory exists and is writable")
	}
	logger.Debug("report written",
		zap.String("path", path),
		zap.Int("groups", len(report.NodesCount)),
		zap.Int("nodes", report.Total()))

	if err := progress.Step(fmt.Sprintf("Statistics written to '%s'", path)); err != nil {
		return err
	}
	return nil
}

// resolveProfile loads the AiiDA config and picks the profile named by
// --profile, AIIDA_PROFILE or the configured default.
func resolveProfile(globals *Globals, aiidaPath string) (*aiida.Profile, error) {
	logger := globals.logger()

	dir, err := aiida.FindConfigDir(aiidaPath)
	if err != nil {
		return nil, err
	}
	cfg, err := aiida.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	profile, err := cfg.Profile(globals.Profile)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved profile",
		zap.String("config", cfg.Path),
		zap.String("profile", profile.Name),
		zap.String("backend", profile.Backend),
		zap.String("location", profile.Location()))
	return profile, nil
}

var errConnect = errors.New("database connection failed")

// lazyStore opens the profile database on the first query.
type lazyStore struct {
	target store.Target
	logger *zap.Logger
	st     *store.Store
}

func (l *lazyStore) Nodes(ctx context.Context, d dialect.Dialect) ([]domain.Record, error) {
	if l.st == nil {
		st, err := store.Open(ctx, l.target, l.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errConnect, err)
		}
		l.st = st
	}
	return l.st.Nodes(ctx, d)
}

func (l *lazyStore) Close() error {
	if l.st == nil {
		return nil
	}
	return l.st.Close()
}
