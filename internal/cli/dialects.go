package cli

import (
	"fmt"
	"strings"

	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/output"
)

// DialectsCmd lists the query dialects
type DialectsCmd struct {
	For string `name:"for" placeholder:"VERSION" help:"Show the dialect selected for this AiiDA version"`
}

// Run executes the dialects command
func (c *DialectsCmd) Run(globals *Globals) error {
	table := dialect.Default

	if c.For != "" {
		d, v, err := table.SelectString(c.For)
		if err != nil {
			return fail(globals, codeFor(err, "INVALID_VERSION"), err)
		}
		if globals.Format == "ndjson" {
			return output.NewNDJSONWriter(globals.Stdout).WriteDialect(dialectOutput(d, true))
		}
		fmt.Fprintf(globals.Stdout, "AiiDA %s uses dialect %s\n", v, output.Styles.Value.Render(d.Name))
		fmt.Fprintf(globals.Stdout, "  fields: %s\n", strings.Join(d.FieldNames(), ", "))
		return nil
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, d := range table.Sorted() {
			if err := w.WriteDialect(dialectOutput(d, false)); err != nil {
				return err
			}
		}
		return nil
	}
	return output.RenderDialectTable(globals.Stdout, table, "")
}

func dialectOutput(d dialect.Dialect, selected bool) *output.DialectOutput {
	return &output.DialectOutput{
		Name:        d.Name,
		MinVersion:  d.MinVersion.String(),
		Fields:      d.FieldNames(),
		Description: d.Description,
		Selected:    selected,
	}
}
