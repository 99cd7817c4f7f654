package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/aiidastats/internal/aiida"
	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/doctor"
	"github.com/vburojevic/aiidastats/internal/output"
	"github.com/vburojevic/aiidastats/internal/store"
)

// DoctorCmd checks the AiiDA environment
type DoctorCmd struct {
	AiidaVersion string        `default:"${config_aiida_version}" help:"AiiDA version to assume instead of running verdi --version"`
	Verdi        string        `default:"${config_verdi}" help:"verdi executable used to detect the AiiDA version"`
	AiidaPath    string        `default:"${config_aiida_path}" help:"Directory holding .aiida/config.json"`
	Timeout      time.Duration `default:"30s" help:"Upper bound for version detection and the database check"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	logger := globals.logger()

	runner := &doctor.Runner{
		ConfigFile: globals.ConfigFile,
		ConfigErr:  globals.ConfigErr,
		AiidaPath:  c.AiidaPath,
		Profile:    globals.Profile,
		Versions:   &aiida.VersionDetector{Override: c.AiidaVersion, Verdi: c.Verdi, Logger: logger},
		Connect: func(ctx context.Context, p *aiida.Profile) error {
			st, err := store.Open(ctx, store.TargetForProfile(p), logger)
			if err != nil {
				return err
			}
			return st.Close()
		},
		Dialects: dialect.Default,
		Clock:    globals.clock(),
		Timeout:  c.Timeout,
	}
	report := runner.Run(context.Background())

	if globals.Format == "ndjson" {
		if err := output.NewNDJSONWriter(globals.Stdout).WriteRaw(report); err != nil {
			return err
		}
	} else {
		c.printReport(globals, report)
	}

	if !report.AllPassed {
		return fmt.Errorf("doctor: %d check(s) failed", report.ErrorCount)
	}
	return nil
}

func (c *DoctorCmd) printReport(globals *Globals, report *doctor.Report) {
	color := false
	if f, ok := globals.Stdout.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}

	fmt.Fprintln(globals.Stdout, output.Styles.Header.Render("aiidastats Doctor"))
	fmt.Fprintln(globals.Stdout, "=================")
	fmt.Fprintln(globals.Stdout)

	for _, check := range report.Checks {
		fmt.Fprintf(globals.Stdout, "%s %s\n", output.StatusIcon(check.Status, color), check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Details)
		}
	}

	fmt.Fprintln(globals.Stdout)
	if report.AllPassed {
		fmt.Fprintln(globals.Stdout, "All checks passed!")
	} else {
		fmt.Fprintf(globals.Stdout, "Errors: %d, Warnings: %d\n", report.ErrorCount, report.WarnCount)
	}
}
