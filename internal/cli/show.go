package cli

import (
	"fmt"

	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/filter"
	"github.com/vburojevic/aiidastats/internal/output"
)

// ShowCmd renders an existing statistics file
type ShowCmd struct {
	File     string   `arg:"" optional:"" help:"Statistics file to read (defaults to the configured output file)"`
	Match    string   `short:"m" help:"Only show entries where a field matches this regex"`
	Exclude  []string `short:"x" help:"Hide node types (trailing * matches by prefix)"`
	MinCount int      `help:"Only show entries counted at least this many times"`
}

// Run executes the show command
func (s *ShowCmd) Run(globals *Globals) error {
	path := s.File
	if path == "" {
		path = globals.config().Output
	}
	if path == "" {
		path = output.DefaultReportFile
	}

	report, err := output.ReadReportFile(path)
	if err != nil {
		return fail(globals, "READ_FAILED", err, "Run `aiidastats collect` first or pass the file to show")
	}

	// Field names come from the dialect the recorded version selects. Files
	// from unknown versions fall back to generic column names.
	var (
		fields      []string
		dialectName string
	)
	if d, _, err := dialect.Default.SelectString(report.AiidaVersion); err == nil {
		fields = d.FieldNames()
		dialectName = d.Name
	}
	chain, err := s.filters()
	if err != nil {
		return fail(globals, "INVALID_FILTER", err, "--match takes a Go regular expression")
	}
	counts := output.SortedByCount(filter.Apply(report.NodesCount, chain))
	total := 0
	for _, nc := range counts {
		total += nc.Count
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, nc := range counts {
			if err := w.WriteNodeCount(fields, nc); err != nil {
				return err
			}
		}
		return w.WriteReportSummary(&output.ReportSummaryOutput{
			Path:         path,
			AiidaVersion: report.AiidaVersion,
			Dialect:      dialectName,
			Groups:       len(counts),
			TotalNodes:   total,
		})
	}

	fmt.Fprintf(globals.Stdout, "%s %s\n", output.Styles.Label.Render("File:"), output.Styles.Value.Render(path))
	fmt.Fprintf(globals.Stdout, "%s %s\n", output.Styles.Label.Render("AiiDA version:"), output.Styles.Value.Render(report.AiidaVersion))
	if dialectName != "" {
		fmt.Fprintf(globals.Stdout, "%s %s\n", output.Styles.Label.Render("Dialect:"), output.Styles.Value.Render(dialectName))
	}
	fmt.Fprintln(globals.Stdout)

	if len(counts) == 0 {
		fmt.Fprintln(globals.Stdout, output.Styles.Muted.Render("No matching nodes"))
		return nil
	}
	if err := output.RenderCountsTable(globals.Stdout, fields, counts); err != nil {
		return err
	}
	fmt.Fprintf(globals.Stdout, "\n%d nodes in %d groups\n", total, len(counts))
	if chain.Len() > 0 {
		fmt.Fprintf(globals.Stdout, "%s\n", output.Styles.Muted.Render(fmt.Sprintf("(filtered from %d nodes)", report.Total())))
	}
	return nil
}

func (s *ShowCmd) filters() (*filter.Chain, error) {
	chain := filter.NewChain()
	if s.Match != "" {
		re, err := filter.NewRegexFilter(s.Match)
		if err != nil {
			return nil, err
		}
		chain.Add(re)
	}
	if len(s.Exclude) > 0 {
		chain.Add(filter.NewExcludeTypeFilter(s.Exclude))
	}
	if s.MinCount > 0 {
		chain.Add(filter.NewMinCountFilter(s.MinCount))
	}
	return chain, nil
}
