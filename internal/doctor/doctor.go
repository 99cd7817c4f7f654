// Package doctor diagnoses the environment aiidastats depends on.
package doctor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/aiidastats/internal/aiida"
	"github.com/vburojevic/aiidastats/internal/dialect"
)

// Check status values
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Check is a single diagnostic result
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// Report is the complete diagnostic report
type Report struct {
	Type       string  `json:"type"`
	Timestamp  string  `json:"timestamp"`
	Checks     []Check `json:"checks"`
	AllPassed  bool    `json:"all_passed"`
	ErrorCount int     `json:"error_count"`
	WarnCount  int     `json:"warn_count"`
}

// VersionSource returns the installed AiiDA version
type VersionSource interface {
	Detect(ctx context.Context) (string, error)
}

// ConnectFunc opens and closes a connection to a profile's database
type ConnectFunc func(ctx context.Context, p *aiida.Profile) error

// Runner runs the checks. Zero-valued optional fields skip their check.
type Runner struct {
	ConfigFile string
	ConfigErr  error

	AiidaPath string
	Profile   string

	Versions VersionSource
	Connect  ConnectFunc
	Dialects dialect.Table
	Clock    clock.Clock
	Timeout  time.Duration
}

// Run executes every check and returns the report. Checks never fail the
// run; failures are recorded as error checks.
func (r *Runner) Run(ctx context.Context) *Report {
	clk := r.Clock
	if clk == nil {
		clk = clock.New()
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checks := []Check{r.checkConfig()}

	aiidaCheck, cfg := r.checkAiidaConfig()
	checks = append(checks, aiidaCheck)

	profileCheck, profile := r.checkProfile(cfg)
	checks = append(checks, profileCheck)

	// Version detection runs verdi and the connection check waits on the
	// database; neither depends on the other.
	var versionCheck, dialectCheck, dbCheck Check
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var version string
		versionCheck, version = r.checkVersion(gctx)
		dialectCheck = r.checkDialect(version)
		return nil
	})
	group.Go(func() error {
		dbCheck = r.checkDatabase(gctx, profile)
		return nil
	})
	_ = group.Wait()

	checks = append(checks, versionCheck, dialectCheck, dbCheck)

	report := &Report{
		Type:      "doctor",
		Timestamp: clk.Now().Format(time.RFC3339),
		Checks:    checks,
	}
	for _, c := range checks {
		switch c.Status {
		case StatusError:
			report.ErrorCount++
		case StatusWarning:
			report.WarnCount++
		}
	}
	report.AllPassed = report.ErrorCount == 0
	return report
}

func (r *Runner) checkConfig() Check {
	if r.ConfigErr != nil {
		return Check{
			Name:    "Config",
			Status:  StatusError,
			Message: "Config file has errors",
			Details: r.ConfigErr.Error(),
		}
	}
	if r.ConfigFile == "" {
		return Check{
			Name:    "Config",
			Status:  StatusOK,
			Message: "Using defaults (no config file)",
			Details: "Create with: aiidastats config generate > ~/.aiidastats.yaml",
		}
	}
	abs, err := filepath.Abs(r.ConfigFile)
	if err != nil {
		abs = r.ConfigFile
	}
	return Check{Name: "Config", Status: StatusOK, Message: "Loaded from: " + abs}
}

func (r *Runner) checkAiidaConfig() (Check, *aiida.Config) {
	dir, err := aiida.FindConfigDir(r.AiidaPath)
	if err != nil {
		return Check{
			Name:    "AiiDA config",
			Status:  StatusError,
			Message: "AiiDA config.json not found",
			Details: err.Error(),
		}, nil
	}
	cfg, err := aiida.LoadConfig(dir)
	if err != nil {
		return Check{
			Name:    "AiiDA config",
			Status:  StatusError,
			Message: "AiiDA config.json is unreadable",
			Details: err.Error(),
		}, nil
	}
	return Check{
		Name:    "AiiDA config",
		Status:  StatusOK,
		Message: cfg.Path,
		Details: fmt.Sprintf("%d profile(s): %s", len(cfg.ProfileNames()), strings.Join(cfg.ProfileNames(), ", ")),
	}, cfg
}

func (r *Runner) checkProfile(cfg *aiida.Config) (Check, *aiida.Profile) {
	if cfg == nil {
		return Check{Name: "Profile", Status: StatusError, Message: "Skipped: no AiiDA config"}, nil
	}
	p, err := cfg.Profile(r.Profile)
	if err != nil {
		return Check{Name: "Profile", Status: StatusError, Message: "Profile cannot be used", Details: err.Error()}, nil
	}
	return Check{
		Name:    "Profile",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s (%s)", p.Name, p.Backend),
		Details: p.Location(),
	}, p
}

func (r *Runner) checkVersion(ctx context.Context) (Check, string) {
	if r.Versions == nil {
		return Check{Name: "AiiDA version", Status: StatusWarning, Message: "Not checked"}, ""
	}
	v, err := r.Versions.Detect(ctx)
	if err != nil {
		return Check{
			Name:    "AiiDA version",
			Status:  StatusError,
			Message: "Could not determine AiiDA version",
			Details: err.Error() + "; pass --aiida-version to skip detection",
		}, ""
	}
	return Check{Name: "AiiDA version", Status: StatusOK, Message: v}, v
}

func (r *Runner) checkDialect(version string) Check {
	if version == "" {
		return Check{Name: "Query dialect", Status: StatusError, Message: "Skipped: unknown AiiDA version"}
	}
	table := r.Dialects
	if len(table) == 0 {
		table = dialect.Default
	}
	d, _, err := table.SelectString(version)
	if err != nil {
		return Check{Name: "Query dialect", Status: StatusError, Message: "No usable query dialect", Details: err.Error()}
	}
	return Check{
		Name:    "Query dialect",
		Status:  StatusOK,
		Message: d.Name,
		Details: strings.Join(d.FieldNames(), ", "),
	}
}

func (r *Runner) checkDatabase(ctx context.Context, profile *aiida.Profile) Check {
	if profile == nil {
		return Check{Name: "Database", Status: StatusError, Message: "Skipped: no usable profile"}
	}
	if r.Connect == nil {
		return Check{Name: "Database", Status: StatusWarning, Message: "Not checked"}
	}
	if err := r.Connect(ctx, profile); err != nil {
		return Check{Name: "Database", Status: StatusError, Message: "Connection failed", Details: err.Error()}
	}
	return Check{Name: "Database", Status: StatusOK, Message: "Connected", Details: profile.Location()}
}
