// Package store runs the node projection query against an AiiDA database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/vburojevic/aiidastats/internal/aiida"
	"github.com/vburojevic/aiidastats/internal/dialect"
	"github.com/vburojevic/aiidastats/internal/domain"
)

// NodeTable is the table holding one row per AiiDA node in every schema
// generation.
const NodeTable = "db_dbnode"

// Target identifies the database to open.
type Target struct {
	Engine aiida.Engine
	DSN    string
}

// TargetForProfile builds a Target from a resolved AiiDA profile.
func TargetForProfile(p *aiida.Profile) Target {
	return Target{Engine: p.Engine, DSN: p.DSN()}
}

// Store wraps the database connection of one profile.
type Store struct {
	db     *sql.DB
	flavor flavor
	logger *zap.Logger
}

// Open connects to the target database and verifies the connection.
func Open(ctx context.Context, target Target, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := flavorFor(target.Engine)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(f.driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", target.Engine, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", target.Engine, err)
	}
	logger.Debug("database connected", zap.String("engine", string(target.Engine)))

	return &Store{db: db, flavor: f, logger: logger}, nil
}

// New wraps an already open connection. Used by tests and callers that
// manage their own pool.
func New(db *sql.DB, engine aiida.Engine, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := flavorFor(engine)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, flavor: f, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is still usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Nodes returns one record per stored node, projecting the dialect's fields.
// Rows come back in whatever order the database returns them.
func (s *Store) Nodes(ctx context.Context, d dialect.Dialect) ([]domain.Record, error) {
	query, err := s.flavor.projection(d)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("running node query", zap.String("dialect", d.Name), zap.String("sql", query))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	width := len(d.Fields)
	var records []domain.Record
	for rows.Next() {
		values := make([]sql.NullString, width)
		dest := make([]any, width)
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan node row: %w", err)
		}

		rec := make(domain.Record, width)
		for i, v := range values {
			if v.Valid {
				str := v.String
				rec[i] = &str
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read node rows: %w", err)
	}

	s.logger.Debug("node query finished", zap.Int("rows", len(records)))
	return records, nil
}
