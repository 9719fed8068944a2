package ioontology

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/phenotools/pxtract/pkg/ontology"

	_ "modernc.org/sqlite"
)

// CachedProvider is a read-through persistent cache over another provider.
// Hits never touch the inner provider; misses are fetched and stored. A
// broken cache degrades to pass-through: read and write failures are logged
// and the inner provider's answer wins.
type CachedProvider struct {
	inner ontology.TermProvider
	db    *sql.DB
	log   *slog.Logger
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS terms (
  prefix   TEXT NOT NULL,
  version  TEXT NOT NULL,
  key      TEXT NOT NULL,
  id       TEXT NOT NULL,
  label    TEXT NOT NULL,
  synonyms TEXT NOT NULL,
  PRIMARY KEY (prefix, version, key)
);
CREATE INDEX IF NOT EXISTS terms_by_id ON terms (prefix, version, id);
`

// OpenCache opens (creating if needed) the SQLite term cache at path and
// wraps inner with it.
func OpenCache(
	path string, inner ontology.TermProvider, log *slog.Logger,
) (*CachedProvider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &ontology.CacheError{Op: "open", Key: path, Err: err}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, &ontology.CacheError{Op: "init", Key: path, Err: err}
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedProvider{inner: inner, db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (c *CachedProvider) Close() error {
	return c.db.Close()
}

func (c *CachedProvider) Term(
	ctx context.Context, ref ontology.Ref, key string,
) (ontology.Term, error) {
	cacheKey := cacheKeyFor(ref, key)

	term, err := c.read(ctx, ref, cacheKey)
	if err == nil {
		return term, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		c.log.Warn("ontology cache read failed",
			"ref", ref.String(), "key", key, "error", err)
	}

	term, err = c.inner.Term(ctx, ref, key)
	if err != nil {
		return ontology.Term{}, err
	}

	if err := c.write(ctx, ref, cacheKey, term); err != nil {
		c.log.Warn("ontology cache write failed",
			"ref", ref.String(), "key", key, "error", err)
	}
	return term, nil
}

// Preload returns every cached term of a reference; the factory warms a
// fresh dictionary with it before the run starts.
func (c *CachedProvider) Preload(
	ctx context.Context, ref ontology.Ref,
) ([]ontology.Term, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT DISTINCT id, label, synonyms FROM terms
		 WHERE prefix = ? AND version = ?`,
		ref.Prefix, ref.Version,
	)
	if err != nil {
		return nil, &ontology.CacheError{Op: "preload", Key: ref.String(), Err: err}
	}
	defer rows.Close()

	var out []ontology.Term
	for rows.Next() {
		var t ontology.Term
		var syns string
		if err := rows.Scan(&t.ID, &t.Label, &syns); err != nil {
			return nil, &ontology.CacheError{Op: "preload", Key: ref.String(), Err: err}
		}
		if err := json.Unmarshal([]byte(syns), &t.Synonyms); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (c *CachedProvider) read(
	ctx context.Context, ref ontology.Ref, cacheKey string,
) (ontology.Term, error) {
	var t ontology.Term
	var syns string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, label, synonyms FROM terms
		 WHERE prefix = ? AND version = ? AND key = ?`,
		ref.Prefix, ref.Version, cacheKey,
	).Scan(&t.ID, &t.Label, &syns)
	if err != nil {
		return ontology.Term{}, err
	}
	if err := json.Unmarshal([]byte(syns), &t.Synonyms); err != nil {
		return ontology.Term{}, err
	}
	return t, nil
}

func (c *CachedProvider) write(
	ctx context.Context, ref ontology.Ref, cacheKey string, term ontology.Term,
) error {
	syns, err := json.Marshal(term.Synonyms)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO terms (prefix, version, key, id, label, synonyms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ref.Prefix, ref.Version, cacheKey, term.ID, term.Label, string(syns),
	)
	return err
}

// cacheKeyFor normalizes the lookup key: ids keep canonical case, labels
// and synonyms are folded.
func cacheKeyFor(ref ontology.Ref, key string) string {
	if ref.IsCanonicalID(key) {
		return ref.CanonicalizeID(key)
	}
	return strings.ToLower(strings.TrimSpace(key))
}
