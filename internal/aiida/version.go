package aiida

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultVerdi is the AiiDA command line tool looked up on PATH.
const DefaultVerdi = "verdi"

// ErrVersionUnknown is returned when verdi output carries no version.
var ErrVersionUnknown = errors.New("could not determine aiida version")

// VersionDetector finds the installed AiiDA version.
type VersionDetector struct {
	// Override, when set, is returned without running verdi.
	Override string
	// Verdi is the binary to execute; defaults to DefaultVerdi.
	Verdi  string
	Logger *zap.Logger
}

// Detect returns the AiiDA version string, e.g. "2.6.1".
func (d *VersionDetector) Detect(ctx context.Context) (string, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if v := strings.TrimSpace(d.Override); v != "" {
		logger.Debug("using configured aiida version", zap.String("version", v))
		return v, nil
	}

	verdi := d.Verdi
	if verdi == "" {
		verdi = DefaultVerdi
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, verdi, "--version")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s --version failed: %w: %s", verdi, err, msg)
		}
		return "", fmt.Errorf("%s --version failed: %w", verdi, err)
	}

	v, err := ParseVerdiVersion(string(out))
	if err != nil {
		return "", err
	}
	logger.Debug("detected aiida version", zap.String("verdi", verdi), zap.String("version", v))
	return v, nil
}

// ParseVerdiVersion extracts the version from `verdi --version` output,
// which looks like "AiiDA version 2.6.1".
func ParseVerdiVersion(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(strings.ToLower(line), "version") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[len(fields)-1], nil
		}
	}
	return "", fmt.Errorf("%w from output %q", ErrVersionUnknown, strings.TrimSpace(output))
}
