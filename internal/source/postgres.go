package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/CardBrowser/internal/config"
	"github.com/JonMunkholm/CardBrowser/internal/core"
)

// Querier is the part of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// OpenPool connects to PostgreSQL with the configured pool limits and
// verifies the connection.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Postgres turns the result of a query into a result set. Columns named
// after a measure role go to the measure group; the rest are categories.
type Postgres struct {
	Pool  Querier
	Query string
	Names core.ColumnNames
}

// Load runs the query and returns its columns.
func (p *Postgres) Load(ctx context.Context) (core.ResultSet, error) {
	rows, err := p.Pool.Query(ctx, p.Query)
	if err != nil {
		return core.ResultSet{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	var data [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return core.ResultSet{}, fmt.Errorf("query failed: read row %d: %w", len(data)+1, err)
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return core.ResultSet{}, fmt.Errorf("query failed: %w", err)
	}

	return columnsFromRows(names, data, p.Names), nil
}

// columnsFromRows pivots row-major query output into category and measure columns.
func columnsFromRows(fields []string, rows [][]any, names core.ColumnNames) core.ResultSet {
	var rs core.ResultSet
	for i, name := range fields {
		col := core.Column{DisplayName: name, Values: make([]any, len(rows))}
		for r, row := range rows {
			if i < len(row) {
				col.Values[r] = normalizeValue(row[i])
			}
		}
		if names.IsMeasure(name) {
			rs.Measures = append(rs.Measures, col)
		} else {
			rs.Categories = append(rs.Categories, col)
		}
	}
	return rs
}

// normalizeValue converts driver-specific values into plain Go values.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid {
			return nil
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(t).String()
	case pgtype.UUID:
		if !t.Valid {
			return nil
		}
		return uuid.UUID(t.Bytes).String()
	case pgtype.Text:
		if !t.Valid {
			return nil
		}
		return t.String
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC()
	default:
		return v
	}
}

// RefreshEvery calls fn every interval until ctx is done. Failures are
// logged and the next tick tries again.
func RefreshEvery(ctx context.Context, interval time.Duration, fn func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("source refresh started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("source refresh stopped")
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				slog.Error("source refresh failed", "error", err)
			}
		}
	}
}
