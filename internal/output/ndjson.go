package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/aiidastats/internal/domain"
)

// NDJSONWriter writes one JSON object per line
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// ProgressOutput is a timestamped progress event
type ProgressOutput struct {
	Type          string `json:"type"` // Always "progress"
	SchemaVersion int    `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	Message       string `json:"message"`
}

// NodeCountOutput is one aggregate entry of a statistics report
type NodeCountOutput struct {
	Type          string        `json:"type"` // Always "node_count"
	SchemaVersion int           `json:"schemaVersion"`
	Fields        []string      `json:"fields,omitempty"`
	Record        domain.Record `json:"record"`
	Count         int           `json:"count"`
}

// ReportSummaryOutput closes a report listing
type ReportSummaryOutput struct {
	Type          string `json:"type"` // Always "report_summary"
	SchemaVersion int    `json:"schemaVersion"`
	Path          string `json:"path,omitempty"`
	AiidaVersion  string `json:"aiida_version"`
	Dialect       string `json:"dialect,omitempty"`
	Groups        int    `json:"groups"`
	TotalNodes    int    `json:"total_nodes"`
}

// DialectOutput describes one entry of the dialect table
type DialectOutput struct {
	Type          string   `json:"type"` // Always "dialect"
	SchemaVersion int      `json:"schemaVersion"`
	Name          string   `json:"name"`
	MinVersion    string   `json:"min_version"`
	Fields        []string `json:"fields"`
	Description   string   `json:"description,omitempty"`
	Selected      bool     `json:"selected,omitempty"`
}

// WriteProgress outputs a progress event
func (w *NDJSONWriter) WriteProgress(timestamp, message string) error {
	return w.encoder.Encode(&ProgressOutput{
		Type:          "progress",
		SchemaVersion: SchemaVersion,
		Timestamp:     timestamp,
		Message:       message,
	})
}

// WriteNodeCount outputs one aggregate entry
func (w *NDJSONWriter) WriteNodeCount(fields []string, nc domain.NodeCount) error {
	rec := nc.Record
	if rec == nil {
		rec = domain.Record{}
	}
	return w.encoder.Encode(&NodeCountOutput{
		Type:          "node_count",
		SchemaVersion: SchemaVersion,
		Fields:        fields,
		Record:        rec,
		Count:         nc.Count,
	})
}

// WriteReportSummary outputs the closing summary of a report listing
func (w *NDJSONWriter) WriteReportSummary(s *ReportSummaryOutput) error {
	s.Type = "report_summary"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteDialect outputs a dialect table entry
func (w *NDJSONWriter) WriteDialect(d *DialectOutput) error {
	d.Type = "dialect"
	d.SchemaVersion = SchemaVersion
	return w.encoder.Encode(d)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
