package ioextract

import (
	"context"
	"fmt"

	"github.com/phenotools/pxtract/internal/iomapping"
	"github.com/phenotools/pxtract/pkg/table"
	"github.com/xuri/excelize/v2"
)

type excelExtractor struct {
	src iomapping.Source
}

func (e *excelExtractor) Name() string { return e.src.Name }

// Extract opens the workbook once and yields one tagged table per declared
// sheet. Sheets present in the workbook but not declared are ignored.
func (e *excelExtractor) Extract(ctx context.Context) ([]*table.Tagged, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wb, err := excelize.OpenFile(e.src.Path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", e.src.Name, err)
	}
	defer wb.Close()

	out := make([]*table.Tagged, 0, len(e.src.Sheets))
	for _, sheet := range e.src.Sheets {
		rows, err := wb.GetRows(sheet.Sheet)
		if err != nil {
			return nil, fmt.Errorf(
				"source %s: sheet %s: %w", e.src.Name, sheet.Sheet, err,
			)
		}
		t, err := buildTable(sheet.Table.Name, rows, sheet.HasHeaders)
		if err != nil {
			return nil, fmt.Errorf(
				"source %s: sheet %s: %w", e.src.Name, sheet.Sheet, err,
			)
		}
		if iomapping.Transposed(sheet.SubjectsAreRows) {
			if t, err = t.Transpose(); err != nil {
				return nil, fmt.Errorf(
					"source %s: sheet %s: %w", e.src.Name, sheet.Sheet, err,
				)
			}
		}
		tagged, err := table.NewTagged(t, sheet.Table, e.src.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, tagged)
	}
	return out, nil
}
