// Package ioload implements the Loader contract: the dir loader writes one
// JSON document per record, the postgres loader inserts them into a table.
// This is an impure I/O package that implements contracts defined in pkg/.
package ioload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/record"
)

// DirLoader writes each record to <out_dir>/<subject>.json.
type DirLoader struct {
	dir    string
	create bool
}

// NewDir builds a loader from the loader section of the configuration.
func NewDir(cfg config.LoaderConfig) *DirLoader {
	return &DirLoader{dir: cfg.OutDir, create: cfg.CreateDir}
}

func (l *DirLoader) Load(ctx context.Context, records []*record.Record) error {
	if l.create {
		if err := os.MkdirAll(l.dir, 0755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	if info, err := os.Stat(l.dir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory %s is not usable", l.dir)
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := rec.JSON()
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.Subject.ID, err)
		}
		path := filepath.Join(l.dir, fileName(rec))
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return fmt.Errorf("record %s: %w", rec.Subject.ID, err)
		}
	}
	return nil
}

// fileName derives a safe file name from the subject id, falling back to the
// record id when the subject id sanitizes away completely.
func fileName(rec *record.Record) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, rec.Subject.ID)
	if strings.Trim(mapped, "_.") == "" {
		mapped = rec.ID
	}
	return mapped + ".json"
}
