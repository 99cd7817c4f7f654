package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vburojevic/aiidastats/internal/aiida"
	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/output"
)

// fail emits err with code and returns it as a *CLIError. The hint is
// derived from the error when not given.
func fail(globals *Globals, code string, err error, hint ...string) error {
	h := ""
	if len(hint) > 0 {
		h = hint[0]
	}
	if h == "" {
		h = hintFor(err)
	}
	cliErr := &CLIError{Code: code, Message: err.Error(), Hint: h, Err: err}
	emitError(globals, cliErr)
	return cliErr
}

// emitError normalizes error emission across commands, respecting ndjson vs
// text formats.
func emitError(globals *Globals, e *CLIError) {
	if globals == nil {
		return
	}
	if globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(e.Code, e.Message, e.Hint)
		return
	}
	fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", e.Code, e.Message)
	if e.Hint != "" {
		fmt.Fprintf(globals.Stderr, "Hint: %s\n", e.Hint)
	}
}

// codeFor maps the environment errors to stable codes; fallback is used for
// anything else.
func codeFor(err error, fallback string) string {
	switch {
	case errors.Is(err, dialect.ErrInvalidVersion):
		return "INVALID_VERSION"
	case errors.Is(err, dialect.ErrNoDialect):
		return "NO_DIALECT"
	case errors.Is(err, aiida.ErrConfigNotFound):
		return "AIIDA_CONFIG_NOT_FOUND"
	case errors.Is(err, aiida.ErrProfileNotFound), errors.Is(err, aiida.ErrNoDefaultProfile):
		return "PROFILE_NOT_FOUND"
	case errors.Is(err, aiida.ErrUnsupportedBackend):
		return "UNSUPPORTED_BACKEND"
	default:
		return fallback
	}
}

func hintFor(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, dialect.ErrInvalidVersion):
		return "Versions look like 0.12.4, 1.0.0b6 or 2.6.1; pass --aiida-version to override detection"
	case errors.Is(err, aiida.ErrConfigNotFound):
		return "Set AIIDA_PATH or pass --aiida-path to the directory holding .aiida/config.json"
	case errors.Is(err, aiida.ErrProfileNotFound), errors.Is(err, aiida.ErrNoDefaultProfile):
		return "List profiles with `verdi profile list` and pass one with --profile"
	case errors.Is(err, aiida.ErrUnsupportedBackend):
		return "Only PostgreSQL (psql_dos) and SQLite (sqlite_dos) profiles can be queried"
	}
	if isCommandNotFound(err, aiida.DefaultVerdi) {
		return "verdi not found; activate the AiiDA environment or pass --aiida-version (then `aiidastats doctor`)"
	}
	return "Run `aiidastats doctor` for diagnostics"
}

func isCommandNotFound(err error, name string) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, exec.ErrNotFound) {
		return true
	}

	var pe *os.PathError
	if errors.As(err, &pe) && errors.Is(pe.Err, os.ErrNotExist) {
		return true
	}

	// Fallback to string matching for wrapped errors.
	msg := err.Error()
	if strings.Contains(msg, "executable file not found") && strings.Contains(msg, name) {
		return true
	}
	return false
}
