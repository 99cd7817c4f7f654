package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/domain"
)

func str(s string) *string { return &s }

func legacyReport() *domain.Report {
	return &domain.Report{
		NodesCount: []domain.NodeCount{
			{Record: domain.NewRecord("calc.job"), Count: 2},
			{Record: domain.NewRecord("data.dict"), Count: 1},
		},
		AiidaVersion: "0.12.4",
	}
}

func TestWriteReport_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, legacyReport()))

	want := `{
  "nodes_count": [
    [
      [
        "calc.job"
      ],
      2
    ],
    [
      [
        "data.dict"
      ],
      1
    ]
  ],
  "aiida_version": "0.12.4"
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteReport_NullField(t *testing.T) {
	report := &domain.Report{
		NodesCount: []domain.NodeCount{{
			Record: domain.Record{str("process.calculation.calcjob.CalcJobNode."), str("aiida.calculations:core.arithmetic.add"), str("1.0.0"), nil},
			Count:  1,
		}},
		AiidaVersion: "1.0.0b6",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "        null\n")
	assert.Contains(t, out, `"aiida.calculations:core.arithmetic.add"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	entries := decoded["nodes_count"].([]any)
	require.Len(t, entries, 1)
	pair := entries[0].([]any)
	assert.Equal(t, float64(1), pair[1])
	assert.Nil(t, pair[0].([]any)[3])
}

func TestWriteReport_NoHTMLEscaping(t *testing.T) {
	report := &domain.Report{
		NodesCount:   []domain.NodeCount{{Record: domain.Record{str("a<b>&c"), nil}, Count: 3}},
		AiidaVersion: "2.6.1",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))

	want := `{
  "nodes_count": [
    [
      [
        "a<b>&c",
        null
      ],
      3
    ]
  ],
  "aiida_version": "2.6.1"
}
`
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), `\u003c`)
}

func TestWriteReport_Idempotent(t *testing.T) {
	report := legacyReport()
	var a, b bytes.Buffer
	require.NoError(t, WriteReport(&a, report))
	require.NoError(t, WriteReport(&b, report))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestWriteReportFile(t *testing.T) {
	t.Run("truncates an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultReportFile)
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale content\n", 500)), 0o644))

		require.NoError(t, WriteReportFile(path, legacyReport()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "stale")
		var expected bytes.Buffer
		require.NoError(t, WriteReport(&expected, legacyReport()))
		assert.Equal(t, expected.String(), string(data))
	})

	t.Run("fails for an unwritable location", func(t *testing.T) {
		err := WriteReportFile(filepath.Join(t.TempDir(), "missing", "statistics.json"), legacyReport())
		assert.Error(t, err)
	})

	t.Run("round trips through ReadReportFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultReportFile)
		require.NoError(t, WriteReportFile(path, legacyReport()))

		got, err := ReadReportFile(path)
		require.NoError(t, err)
		assert.Equal(t, legacyReport(), got)
	})

	t.Run("rejects a malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultReportFile)
		require.NoError(t, os.WriteFile(path, []byte(`{"nodes_count": [["x"]]}`), 0o644))
		_, err := ReadReportFile(path)
		assert.Error(t, err)
	})
}

func mockClock() *clock.Mock {
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 10, 14, 9, 30, 5, 123456000, time.UTC))
	return clk
}

func TestProgressPrinter(t *testing.T) {
	t.Run("text lines carry a timestamp", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressPrinter(&buf, mockClock(), "text", false)
		require.NoError(t, p.Step("Starting query"))
		require.NoError(t, p.Step("Statistics written to 'statistics.json'"))

		assert.Equal(t, "2026-10-14 09:30:05.123456 Starting query\n"+
			"2026-10-14 09:30:05.123456 Statistics written to 'statistics.json'\n", buf.String())
	})

	t.Run("ndjson events", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressPrinter(&buf, mockClock(), "ndjson", false)
		require.NoError(t, p.Step("Starting query"))

		var ev map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
		assert.Equal(t, "progress", ev["type"])
		assert.Equal(t, "Starting query", ev["message"])
		assert.Equal(t, "2026-10-14 09:30:05.123456", ev["timestamp"])
		assert.Equal(t, float64(SchemaVersion), ev["schemaVersion"])
	})

	t.Run("quiet prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressPrinter(&buf, mockClock(), "text", true)
		require.NoError(t, p.Step("Starting query"))
		assert.Empty(t, buf.String())
	})
}

func TestNDJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)
	require.NoError(t, w.WriteNodeCount([]string{"type"}, domain.NodeCount{Record: domain.NewRecord("calc.job"), Count: 2}))
	require.NoError(t, w.WriteError("QUERY_FAILED", "boom", "run doctor"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var nc map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &nc))
	assert.Equal(t, "node_count", nc["type"])
	assert.Equal(t, []any{"calc.job"}, nc["record"])
	assert.Equal(t, float64(2), nc["count"])

	var e map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &e))
	assert.Equal(t, "error", e["type"])
	assert.Equal(t, "QUERY_FAILED", e["code"])
	assert.Equal(t, "run doctor", e["hint"])
}

func TestSortedByCount(t *testing.T) {
	counts := []domain.NodeCount{
		{Record: domain.NewRecord("b"), Count: 1},
		{Record: domain.NewRecord("c"), Count: 5},
		{Record: domain.NewRecord("a"), Count: 1},
	}
	sorted := SortedByCount(counts)
	assert.Equal(t, []int{5, 1, 1}, []int{sorted[0].Count, sorted[1].Count, sorted[2].Count})
	assert.Equal(t, "a", *sorted[1].Record[0])
	assert.Equal(t, "b", *counts[0].Record[0], "input must be left untouched")
}

func TestRenderCountsTable(t *testing.T) {
	var buf bytes.Buffer
	counts := []domain.NodeCount{
		{Record: domain.Record{str("data.core.dict.Dict."), nil}, Count: 12},
	}
	require.NoError(t, RenderCountsTable(&buf, []string{"node_type"}, counts))

	out := buf.String()
	assert.Contains(t, out, "COUNT")
	assert.Contains(t, out, "NODE")
	assert.Contains(t, out, "FIELD 2")
	assert.Contains(t, out, "data.core.dict.Dict.")
	assert.Contains(t, out, NullCell)
	assert.Contains(t, out, "12")
}

func TestRenderDialectTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDialectTable(&buf, dialect.Default, "current"))

	out := buf.String()
	assert.Contains(t, out, "legacy")
	assert.Contains(t, out, "current *")
	assert.Contains(t, out, "1.0.0b1")
	assert.Contains(t, out, "attributes.version.core")
	assert.Less(t, strings.Index(out, "legacy"), strings.Index(out, "current"))
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon("ok", false))
	assert.Equal(t, "⚠", StatusIcon("warning", false))
	assert.Equal(t, "✗", StatusIcon("error", false))
	assert.Contains(t, StatusIcon("error", true), "✗")
}
