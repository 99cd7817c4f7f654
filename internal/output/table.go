package output

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/domain"
)

// NullCell is how a nil field is shown in tables
const NullCell = "<null>"

// SortedByCount returns a copy of counts ordered by count descending, ties
// broken by record key so the order is stable.
func SortedByCount(counts []domain.NodeCount) []domain.NodeCount {
	out := make([]domain.NodeCount, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Record.Key() < out[j].Record.Key()
	})
	return out
}

// RenderCountsTable writes counts as a table. headers names the record
// fields; when it is shorter than a record, generic names are used.
func RenderCountsTable(w io.Writer, headers []string, counts []domain.NodeCount) error {
	width := len(headers)
	for _, nc := range counts {
		if len(nc.Record) > width {
			width = len(nc.Record)
		}
	}

	header := []any{"COUNT"}
	for i := 0; i < width; i++ {
		if i < len(headers) {
			header = append(header, strings.ToUpper(headers[i]))
		} else {
			header = append(header, "FIELD "+strconv.Itoa(i+1))
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, nc := range counts {
		row := make([]string, 0, width+1)
		row = append(row, strconv.Itoa(nc.Count))
		for i := 0; i < width; i++ {
			switch {
			case i >= len(nc.Record):
				row = append(row, "")
			case nc.Record[i] == nil:
				row = append(row, NullCell)
			default:
				row = append(row, *nc.Record[i])
			}
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderDialectTable writes the dialect table. selected marks the dialect
// chosen for a version, if any.
func RenderDialectTable(w io.Writer, table dialect.Table, selected string) error {
	tw := tablewriter.NewWriter(w)
	tw.Header("NAME", "MIN VERSION", "FIELDS", "DESCRIPTION")
	for _, d := range table.Sorted() {
		name := d.Name
		if d.Name == selected {
			name += " *"
		}
		row := []string{name, d.MinVersion.String(), strings.Join(d.FieldNames(), "\n"), d.Description}
		if err := tw.Append(row); err != nil {
			return err
		}
	}
	return tw.Render()
}
