package domain

// Report is the document written to the statistics file.
type Report struct {
	NodesCount   []NodeCount `json:"nodes_count"`
	AiidaVersion string      `json:"aiida_version"`
}

// Total returns the number of nodes covered by the report
func (r *Report) Total() int {
	total := 0
	for _, nc := range r.NodesCount {
		total += nc.Count
	}
	return total
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`          // Always "error"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Code          string `json:"code"`          // Machine-readable error code
	Message       string `json:"message"`       // Human-readable message
	Hint          string `json:"hint,omitempty"`
}

// NewErrorOutput creates a new error output.
// SchemaVersion is set by the output package.
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
