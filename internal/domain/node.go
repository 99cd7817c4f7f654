package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one row returned by a node query: the projected field values in
// projection order. A nil entry is a NULL column or a missing attribute.
type Record []*string

// NewRecord builds a Record from plain strings. Handy for fixtures.
func NewRecord(values ...string) Record {
	r := make(Record, len(values))
	for i := range values {
		v := values[i]
		r[i] = &v
	}
	return r
}

// Key returns a canonical encoding of the record suitable as a map key.
// Two records have the same key iff they have the same length and equal
// values (nil equals nil) position by position.
func (r Record) Key() string {
	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		if v == nil {
			b.WriteString("null")
			continue
		}
		b.WriteString(fmt.Sprintf("%q", *v))
	}
	return b.String()
}

// String renders the record for humans, e.g. (calc.job, <null>).
func (r Record) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		if v == nil {
			parts[i] = "<null>"
		} else {
			parts[i] = *v
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// NodeCount is one aggregate entry: a distinct record and how many rows had it.
type NodeCount struct {
	Record Record
	Count  int
}

// MarshalJSON encodes the entry as the pair [[field, ...], count].
func (n NodeCount) MarshalJSON() ([]byte, error) {
	rec := n.Record
	if rec == nil {
		rec = Record{}
	}
	// Marshaler output is copied verbatim by the caller's encoder, so HTML
	// escaping has to be disabled here too.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{rec, n.Count}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes the pair form written by MarshalJSON.
func (n *NodeCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("node count: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("node count: expected [record, count], got %d elements", len(pair))
	}
	var rec Record
	if err := json.Unmarshal(pair[0], &rec); err != nil {
		return fmt.Errorf("node count record: %w", err)
	}
	var count int
	if err := json.Unmarshal(pair[1], &count); err != nil {
		return fmt.Errorf("node count value: %w", err)
	}
	n.Record = rec
	n.Count = count
	return nil
}
