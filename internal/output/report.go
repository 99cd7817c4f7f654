package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vburojevic/aiidastats/internal/domain"
)

// DefaultReportFile is the statistics file written to the working directory.
const DefaultReportFile = "statistics.json"

// ReportIndent is the indentation of the statistics file.
const ReportIndent = "  "

// WriteReport encodes the report as indented JSON.
func WriteReport(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", ReportIndent)
	return enc.Encode(report)
}

// WriteReportFile creates or truncates path and writes the report into it.
// An existing file is replaced; there is no atomic rename or backup.
func WriteReportFile(path string, report *domain.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", cerr)
		}
	}()

	if err := WriteReport(f, report); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// ReadReportFile loads a statistics file written by WriteReportFile.
func ReadReportFile(path string) (*domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report file %s: %w", path, err)
	}
	return &report, nil
}
