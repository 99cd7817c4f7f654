package store

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vburojevic/aiidastats/internal/aiida"
	"github.com/vburojevic/aiidastats/internal/dialect"
)

// Field and attribute names are interpolated into SQL, so they are limited
// to plain identifiers.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// flavor renders projections for one SQL engine.
type flavor struct {
	driver    string
	attribute func(path []string) string
}

var flavors = map[aiida.Engine]flavor{
	aiida.EnginePostgres: {
		driver: "postgres",
		// #>> returns the leaf as text, NULL when any key is missing.
		attribute: func(path []string) string {
			return fmt.Sprintf("attributes #>> '{%s}'", strings.Join(path, ","))
		},
	},
	aiida.EngineSQLite: {
		driver: "sqlite3",
		// json_extract returns SQL NULL for missing keys and JSON null, and
		// 1/0 for booleans. Booleans are spelled out to match #>>.
		attribute: func(path []string) string {
			p := "'$." + strings.Join(path, ".") + "'"
			return fmt.Sprintf("CASE json_type(attributes, %[1]s) WHEN 'true' THEN 'true' WHEN 'false' THEN 'false' ELSE json_extract(attributes, %[1]s) END", p)
		},
	},
}

func flavorFor(engine aiida.Engine) (flavor, error) {
	f, ok := flavors[engine]
	if !ok {
		return flavor{}, fmt.Errorf("%w: engine %q", aiida.ErrUnsupportedBackend, engine)
	}
	return f, nil
}

// projection builds the SELECT statement for a dialect.
func (f flavor) projection(d dialect.Dialect) (string, error) {
	if len(d.Fields) == 0 {
		return "", fmt.Errorf("dialect %q projects no fields", d.Name)
	}

	cols := make([]string, len(d.Fields))
	for i, field := range d.Fields {
		expr, err := f.column(field)
		if err != nil {
			return "", fmt.Errorf("dialect %q: %w", d.Name, err)
		}
		cols[i] = expr
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), NodeTable), nil
}

func (f flavor) column(field dialect.Field) (string, error) {
	if !field.IsAttribute() {
		if !identRe.MatchString(field.Name) {
			return "", fmt.Errorf("invalid column name %q", field.Name)
		}
		// Bare identifier: SQLite reads an unknown double-quoted name as a
		// string literal instead of failing.
		return field.Name, nil
	}

	path := field.AttributePath()
	for _, key := range path {
		if !identRe.MatchString(key) {
			return "", fmt.Errorf("invalid attribute path %q", field.Name)
		}
	}
	return f.attribute(path), nil
}
