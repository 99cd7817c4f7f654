// Package dialect describes which node fields are projected for a given
// AiiDA version. The AiiDA 1.0 release renamed the node type column and
// started recording plugin versions, so older and newer databases are
// counted by different tuples.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoDialect is returned when no dialect in a table applies to a version.
var ErrNoDialect = errors.New("no dialect for version")

// AttributePrefix marks a field that reads a path inside the node attributes
// JSON document instead of a plain column.
const AttributePrefix = "attributes."

// Field is one projected value, e.g. "node_type" or "attributes.version.core".
type Field struct {
	Name string
}

// IsAttribute reports whether the field reads from the attributes document
func (f Field) IsAttribute() bool {
	return strings.HasPrefix(f.Name, AttributePrefix)
}

// AttributePath splits an attribute field into its keys ("version", "core").
// Plain columns return nil.
func (f Field) AttributePath() []string {
	if !f.IsAttribute() {
		return nil
	}
	return strings.Split(strings.TrimPrefix(f.Name, AttributePrefix), ".")
}

// Dialect is a query shape valid from MinVersion onwards.
type Dialect struct {
	Name        string
	MinVersion  Version
	Fields      []Field
	Description string
}

// FieldNames returns the projected field names in order.
func (d Dialect) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

func fields(names ...string) []Field {
	out := make([]Field, len(names))
	for i, n := range names {
		out[i] = Field{Name: n}
	}
	return out
}

var (
	// Legacy matches AiiDA 0.x, tested on 0.10 and 0.12.4.
	Legacy = Dialect{
		Name:        "legacy",
		MinVersion:  MustParseVersion("0.0.0"),
		Fields:      fields("type"),
		Description: "AiiDA 0.x: node type string only",
	}

	// Current matches AiiDA 1.0.0b1 and later.
	Current = Dialect{
		Name:       "current",
		MinVersion: MustParseVersion("1.0.0b1"),
		Fields: fields(
			"node_type",
			"process_type",
			"attributes.version.core",
			"attributes.version.plugin",
		),
		Description: "AiiDA >= 1.0: node type, process type, core and plugin versions",
	}
)

// Table is a set of dialects. Select picks the applicable one.
type Table []Dialect

// Default is the table used by the collector.
var Default = Table{Legacy, Current}

// Sorted returns a copy ordered by MinVersion ascending.
func (t Table) Sorted() Table {
	out := make(Table, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinVersion.Less(out[j].MinVersion)
	})
	return out
}

// Select returns the dialect with the greatest MinVersion that is <= v.
func (t Table) Select(v Version) (Dialect, error) {
	if v.IsZero() {
		return Dialect{}, fmt.Errorf("%w: empty version", ErrInvalidVersion)
	}
	var (
		best  Dialect
		found bool
	)
	for _, d := range t {
		if v.Compare(d.MinVersion) < 0 {
			continue
		}
		if !found || best.MinVersion.Less(d.MinVersion) {
			best = d
			found = true
		}
	}
	if !found {
		return Dialect{}, fmt.Errorf("%w %s", ErrNoDialect, v)
	}
	return best, nil
}

// SelectString parses raw and selects a dialect for it.
func (t Table) SelectString(raw string) (Dialect, Version, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return Dialect{}, Version{}, err
	}
	d, err := t.Select(v)
	if err != nil {
		return Dialect{}, v, err
	}
	return d, v, nil
}

// Lookup returns the dialect with the given name.
func (t Table) Lookup(name string) (Dialect, bool) {
	for _, d := range t {
		if d.Name == name {
			return d, true
		}
	}
	return Dialect{}, false
}
