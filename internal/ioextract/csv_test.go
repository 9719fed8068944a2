package ioextract_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/phenotools/pxtract/internal/ioextract"
	"github.com/phenotools/pxtract/internal/iomapping"
	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clinicalContext() *mapping.TableContext {
	return &mapping.TableContext{
		Name: "clinical",
		Series: []mapping.SeriesContext{
			{
				Identifier:  mapping.Name("pid"),
				DataContext: mapping.SubjectID(),
			},
			{
				Identifier:  mapping.Name("sex"),
				DataContext: mapping.SubjectSex(),
			},
			{
				Identifier:    mapping.MustPattern(`^HP:\d+$`),
				HeaderContext: mapping.HpoLabelOrID(),
				DataContext:   mapping.ObservationStatus(),
				FillMissing:   mapping.StringLit("observed"),
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestNewUnknownType(t *testing.T) {
	_, err := ioextract.New(iomapping.Source{Name: "s", Type: "parquet"})
	assert.Error(t, err)
}

func TestCSVExtract(t *testing.T) {
	path := writeCSV(t, "pid,sex,HP:0001250\np1,f,excluded\np2,m,\n")
	ext, err := ioextract.New(iomapping.Source{
		Name:       "clinical.csv",
		Type:       "csv",
		Path:       path,
		HasHeaders: true,
		Table:      clinicalContext(),
	})
	require.NoError(t, err)
	assert.Equal(t, "clinical.csv", ext.Name())

	tables, err := ext.Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	tg := tables[0]
	assert.Equal(t, "clinical", tg.Table.Name())
	assert.Equal(t, "clinical.csv", tg.Source)
	assert.Equal(t, []string{"pid", "sex", "HP:0001250"}, tg.Headers())
	require.Equal(t, 2, tg.NumRows())

	id, ok := tg.SubjectID(0)
	require.True(t, ok)
	assert.Equal(t, "p1", id)
	assert.Equal(t, "excluded", tg.Cell(0, 2).Display())

	// the empty cell of the second row takes the fill-missing default
	assert.Equal(t, "observed", tg.Cell(1, 2).Display())
}

func TestCSVSeparator(t *testing.T) {
	path := writeCSV(t, "pid;sex;HP:0001250\np1;f;observed\n")
	ext, err := ioextract.New(iomapping.Source{
		Name:       "clinical.csv",
		Type:       "csv",
		Path:       path,
		Separator:  ";",
		HasHeaders: true,
		Table:      clinicalContext(),
	})
	require.NoError(t, err)

	tables, err := ext.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pid", "sex", "HP:0001250"}, tables[0].Headers())
}

func TestCSVWithoutHeaders(t *testing.T) {
	path := writeCSV(t, "p1,f\np2,m\n")
	tc := &mapping.TableContext{
		Name: "clinical",
		Series: []mapping.SeriesContext{
			{Identifier: mapping.Name("col_0"), DataContext: mapping.SubjectID()},
			{Identifier: mapping.Name("col_1"), DataContext: mapping.SubjectSex()},
		},
	}
	ext, err := ioextract.New(iomapping.Source{
		Name:  "clinical.csv",
		Type:  "csv",
		Path:  path,
		Table: tc,
	})
	require.NoError(t, err)

	tables, err := ext.Extract(context.Background())
	require.NoError(t, err)

	tg := tables[0]
	assert.Equal(t, []string{"col_0", "col_1"}, tg.Headers())
	assert.Equal(t, 2, tg.NumRows())
	id, _ := tg.SubjectID(1)
	assert.Equal(t, "p2", id)
}

func TestCSVTransposed(t *testing.T) {
	// subjects are laid out as columns, one attribute per row
	path := writeCSV(t, "attribute,p1,p2\nsex,f,m\n")
	tc := &mapping.TableContext{
		Name: "clinical",
		Series: []mapping.SeriesContext{
			{Identifier: mapping.Name("attribute"), DataContext: mapping.SubjectID()},
			{Identifier: mapping.Name("sex"), DataContext: mapping.SubjectSex()},
		},
	}
	ext, err := ioextract.New(iomapping.Source{
		Name:            "clinical.csv",
		Type:            "csv",
		Path:            path,
		HasHeaders:      true,
		SubjectsAreRows: boolPtr(false),
		Table:           tc,
	})
	require.NoError(t, err)

	tables, err := ext.Extract(context.Background())
	require.NoError(t, err)

	tg := tables[0]
	assert.Equal(t, []string{"attribute", "sex"}, tg.Headers())
	require.Equal(t, 2, tg.NumRows())
	id, _ := tg.SubjectID(0)
	assert.Equal(t, "p1", id)
	assert.Equal(t, "f", tg.Cell(0, 1).Display())
}

func TestCSVRaggedRowsPadded(t *testing.T) {
	path := writeCSV(t, "pid,sex,HP:0001250\np1,f\n")
	ext, err := ioextract.New(iomapping.Source{
		Name:       "clinical.csv",
		Type:       "csv",
		Path:       path,
		HasHeaders: true,
		Table:      clinicalContext(),
	})
	require.NoError(t, err)

	tables, err := ext.Extract(context.Background())
	require.NoError(t, err)

	// the short row is padded and the pad cell takes the default
	assert.Equal(t, "observed", tables[0].Cell(0, 2).Display())
}

func TestCSVMissingFile(t *testing.T) {
	ext, err := ioextract.New(iomapping.Source{
		Name:       "clinical.csv",
		Type:       "csv",
		Path:       filepath.Join(t.TempDir(), "nope.csv"),
		HasHeaders: true,
		Table:      clinicalContext(),
	})
	require.NoError(t, err)

	_, err = ext.Extract(context.Background())
	assert.Error(t, err)
}
