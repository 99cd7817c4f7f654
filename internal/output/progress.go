package output

import (
	"fmt"
	"io"

	"github.com/benbjohnson/clock"
)

// ProgressTimeLayout is local wall time with microseconds.
const ProgressTimeLayout = "2006-01-02 15:04:05.000000"

// ProgressPrinter prints "<timestamp> <message>" lines, or progress events in
// NDJSON mode.
type ProgressPrinter struct {
	w      io.Writer
	clk    clock.Clock
	ndjson *NDJSONWriter
	quiet  bool
}

// NewProgressPrinter creates a progress printer. format is "text" or "ndjson".
func NewProgressPrinter(w io.Writer, clk clock.Clock, format string, quiet bool) *ProgressPrinter {
	if clk == nil {
		clk = clock.New()
	}
	p := &ProgressPrinter{w: w, clk: clk, quiet: quiet}
	if format == "ndjson" {
		p.ndjson = NewNDJSONWriter(w)
	}
	return p
}

// Step prints one progress message
func (p *ProgressPrinter) Step(message string) error {
	if p.quiet {
		return nil
	}
	ts := p.clk.Now().Format(ProgressTimeLayout)
	if p.ndjson != nil {
		return p.ndjson.WriteProgress(ts, message)
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n", ts, message)
	return err
}
