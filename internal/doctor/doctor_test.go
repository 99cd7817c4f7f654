package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vburojevic/aiidastats/internal/aiida"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticVersion struct {
	version string
	err     error
}

func (s staticVersion) Detect(context.Context) (string, error) { return s.version, s.err }

func aiidaDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), aiida.DefaultDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := `{
  "default_profile": "main",
  "profiles": {
    "main": {"storage": {"backend": "core.sqlite_dos", "config": {"filepath": "/srv/main"}}}
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, aiida.ConfigFileName), []byte(content), 0o644))
	return dir
}

func byName(r *Report) map[string]Check {
	m := map[string]Check{}
	for _, c := range r.Checks {
		m[c.Name] = c
	}
	return m
}

func TestRun_AllPassing(t *testing.T) {
	t.Setenv("AIIDA_PROFILE", "")
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))

	var connected *aiida.Profile
	r := &Runner{
		AiidaPath: aiidaDir(t),
		Versions:  staticVersion{version: "2.6.1"},
		Connect: func(_ context.Context, p *aiida.Profile) error {
			connected = p
			return nil
		},
		Clock: clk,
	}

	report := r.Run(context.Background())
	assert.True(t, report.AllPassed)
	assert.Equal(t, 0, report.ErrorCount)
	assert.Equal(t, "doctor", report.Type)
	assert.Equal(t, "2026-10-14T08:00:00Z", report.Timestamp)

	names := make([]string, len(report.Checks))
	for i, c := range report.Checks {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Config", "AiiDA config", "Profile", "AiiDA version", "Query dialect", "Database"}, names)

	checks := byName(report)
	assert.Equal(t, "current", checks["Query dialect"].Message)
	assert.Equal(t, "main (core.sqlite_dos)", checks["Profile"].Message)
	require.NotNil(t, connected)
	assert.Equal(t, "main", connected.Name)
}

func TestRun_Failures(t *testing.T) {
	t.Setenv("AIIDA_PROFILE", "")

	t.Run("missing aiida config skips dependent checks", func(t *testing.T) {
		connectCalled := false
		r := &Runner{
			AiidaPath: t.TempDir(),
			Versions:  staticVersion{version: "0.12.4"},
			Connect: func(context.Context, *aiida.Profile) error {
				connectCalled = true
				return nil
			},
		}
		report := r.Run(context.Background())
		assert.False(t, report.AllPassed)
		assert.False(t, connectCalled)

		checks := byName(report)
		assert.Equal(t, StatusError, checks["AiiDA config"].Status)
		assert.Equal(t, StatusError, checks["Profile"].Status)
		assert.Equal(t, StatusError, checks["Database"].Status)
		assert.Equal(t, "legacy", checks["Query dialect"].Message)
	})

	t.Run("version and connection errors are reported", func(t *testing.T) {
		r := &Runner{
			AiidaPath: aiidaDir(t),
			Versions:  staticVersion{err: errors.New("verdi not found")},
			Connect:   func(context.Context, *aiida.Profile) error { return errors.New("connection refused") },
			ConfigErr: errors.New("yaml: line 1"),
		}
		report := r.Run(context.Background())
		assert.Equal(t, 4, report.ErrorCount)

		checks := byName(report)
		assert.Equal(t, StatusError, checks["Config"].Status)
		assert.Contains(t, checks["AiiDA version"].Details, "--aiida-version")
		assert.Equal(t, StatusError, checks["Query dialect"].Status)
		assert.Contains(t, checks["Database"].Details, "connection refused")
	})

	t.Run("unparsable version", func(t *testing.T) {
		r := &Runner{AiidaPath: aiidaDir(t), Versions: staticVersion{version: "dev"}}
		checks := byName(r.Run(context.Background()))
		assert.Equal(t, StatusOK, checks["AiiDA version"].Status)
		assert.Equal(t, StatusError, checks["Query dialect"].Status)
		assert.Equal(t, StatusWarning, checks["Database"].Status)
	})
}
