// Package ioextract implements the Extractor contract for delimited files
// and multi-sheet spreadsheet workbooks. It reads raw tables, optionally
// transposes them so subjects are rows, and tags them against the declared
// table contexts.
package ioextract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/phenotools/pxtract/internal/iomapping"
	"github.com/phenotools/pxtract/pkg/pxtract"
	"github.com/phenotools/pxtract/pkg/table"
)

// New builds the extractor matching the source declaration.
func New(src iomapping.Source) (pxtract.Extractor, error) {
	switch src.Type {
	case "csv":
		return &csvExtractor{src: src}, nil
	case "excel":
		return &excelExtractor{src: src}, nil
	}
	return nil, fmt.Errorf("unsupported source type %q", src.Type)
}

type csvExtractor struct {
	src iomapping.Source
}

func (e *csvExtractor) Name() string { return e.src.Name }

func (e *csvExtractor) Extract(ctx context.Context) ([]*table.Tagged, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(e.src.Path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", e.src.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if e.src.Separator != "" {
		r.Comma = rune(e.src.Separator[0])
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", e.src.Name, err)
		}
		rows = append(rows, rec)
	}

	t, err := buildTable(e.src.Table.Name, rows, e.src.HasHeaders)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", e.src.Name, err)
	}
	if iomapping.Transposed(e.src.SubjectsAreRows) {
		if t, err = t.Transpose(); err != nil {
			return nil, fmt.Errorf("source %s: %w", e.src.Name, err)
		}
	}
	tagged, err := table.NewTagged(t, e.src.Table, e.src.Name)
	if err != nil {
		return nil, err
	}
	return []*table.Tagged{tagged}, nil
}

// buildTable converts raw string rows to a table; empty strings become
// nulls. Ragged rows are padded so every row matches the header arity.
func buildTable(name string, rows [][]string, hasHeaders bool) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %q is empty", name)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var headers []string
	var dataRows [][]string
	if hasHeaders {
		headers = pad(rows[0], width)
		dataRows = rows[1:]
	} else {
		headers = make([]string, width)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
		dataRows = rows
	}

	t := table.New(name, headers)
	for _, row := range dataRows {
		cells := make([]table.Value, width)
		for i, s := range pad(row, width) {
			if s == "" {
				cells[i] = table.Null
			} else {
				cells[i] = table.String(s)
			}
		}
		if err := t.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
