package ioload

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/record"
)

// PgLoader inserts records as JSONB rows. Re-loading a subject replaces its
// previous document.
type PgLoader struct {
	pool *pgxpool.Pool
}

const recordsTable = `
CREATE TABLE IF NOT EXISTS phenotype_records (
  subject_id TEXT PRIMARY KEY,
  record_id  TEXT NOT NULL,
  doc        JSONB NOT NULL,
  loaded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

// NewPg connects to PostgreSQL and ensures the records table exists.
func NewPg(ctx context.Context, cfg config.LoaderConfig) (*PgLoader, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, recordsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot create records table: %w", err)
	}
	return &PgLoader{pool: pool}, nil
}

// Close releases all database connections.
func (l *PgLoader) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

func (l *PgLoader) Load(ctx context.Context, records []*record.Record) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		doc, err := rec.JSON()
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.Subject.ID, err)
		}
		batch.Queue(
			`INSERT INTO phenotype_records (subject_id, record_id, doc)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (subject_id)
			 DO UPDATE SET record_id = $2, doc = $3, loaded_at = now()`,
			rec.Subject.ID, rec.ID, doc,
		)
	}

	results := l.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert failed: %w", err)
		}
	}
	return nil
}
