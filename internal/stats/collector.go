package stats

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/domain"
)

// NodeSource returns every node of a profile projected through a dialect.
type NodeSource interface {
	Nodes(ctx context.Context, d dialect.Dialect) ([]domain.Record, error)
}

// Progress receives human readable progress messages.
type Progress interface {
	Step(message string) error
}

// NopProgress discards progress messages.
type NopProgress struct{}

func (NopProgress) Step(string) error { return nil }

// Collector builds a Report from a node source.
type Collector struct {
	Nodes    NodeSource
	Dialects dialect.Table
	Progress Progress
	Logger   *zap.Logger
}

// Collect selects the dialect for version, runs the node query and counts
// the results. An unparsable version fails before any query is issued.
func (c *Collector) Collect(ctx context.Context, version string) (*domain.Report, error) {
	table := c.Dialects
	if len(table) == 0 {
		table = dialect.Default
	}
	progress := c.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	d, v, err := table.SelectString(version)
	if err != nil {
		return nil, fmt.Errorf("select query dialect: %w", err)
	}
	logger.Debug("selected dialect",
		zap.String("version", v.String()),
		zap.String("dialect", d.Name),
		zap.Strings("fields", d.FieldNames()))

	if err := progress.Step("Starting query"); err != nil {
		return nil, err
	}
	records, err := c.Nodes.Nodes(ctx, d)
	if err != nil {
		return nil, err
	}

	counts := Count(records)
	logger.Debug("aggregated nodes", zap.Int("nodes", len(records)), zap.Int("groups", len(counts)))

	return &domain.Report{
		NodesCount:   counts,
		AiidaVersion: version,
	}, nil
}
