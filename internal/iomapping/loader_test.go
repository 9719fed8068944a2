package iomapping_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phenotools/pxtract/internal/iomapping"
	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	doc := `
sources:
  - name: clinical
    type: csv
    path: data/clinical.csv
    separator: ";"
    has_headers: true
    table:
      name: clinical
      series:
        - identifier: patient_id
          data_context: subject_id
        - identifier: sex
          data_context: subject_sex
        - identifier: { regex: "^HP:[0-9]+$" }
          header_context: hpo_label_or_id
          data_context: observation_status
          fill_missing: "observed"
  - name: labs
    type: excel
    path: data/labs.xlsx
    sheets:
      - sheet: results
        has_headers: true
        subjects_are_rows: false
        table:
          name: lab_results
          series:
            - identifier: sample
              data_context: subject_id
            - identifier: creatinine
              data_context:
                quantitative_measurement:
                  assay_id: "LOINC:2160-0"
                  unit_ontology_id: "UO:0000176"
`
	path := writeFile(t, dir, "mapping.yaml", doc)

	f, err := iomapping.Load(path)
	require.NoError(t, err)
	require.Len(t, f.Sources, 2)

	csv := f.Sources[0]
	assert.Equal(t, "clinical", csv.Name)
	assert.Equal(t, "csv", csv.Type)
	assert.Equal(t, ";", csv.Separator)
	assert.True(t, csv.HasHeaders)
	require.NotNil(t, csv.Table)
	assert.Len(t, csv.Table.Series, 3)
	assert.True(t, csv.Table.Series[2].FillMissing.IsSet())

	xl := f.Sources[1]
	assert.Equal(t, "excel", xl.Type)
	require.Len(t, xl.Sheets, 1)
	sheet := xl.Sheets[0]
	assert.Equal(t, "results", sheet.Sheet)
	assert.True(t, iomapping.Transposed(sheet.SubjectsAreRows))
	assert.Equal(t,
		mapping.KindQuantitativeMeasurement,
		sheet.Table.Series[1].DataContext.Kind(),
	)
}

func TestLoadAliasSidecar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aliases.csv", "N/A,\nyes,true\nno,false\n")
	doc := `
sources:
  - name: clinical
    type: csv
    path: data/clinical.csv
    has_headers: true
    table:
      name: clinical
      series:
        - identifier: patient_id
          data_context: subject_id
        - identifier: affected
          data_context: observation_status
          alias_map:
            output_type: boolean
            csv: aliases.csv
            mappings:
              "yes": "false"
`
	path := writeFile(t, dir, "mapping.yaml", doc)

	f, err := iomapping.Load(path)
	require.NoError(t, err)

	am := f.Sources[0].Table.Series[1].AliasMap
	require.NotNil(t, am)
	assert.Equal(t, mapping.OutputBool, am.Output)

	// the empty second column maps to null
	target, ok := am.Lookup("N/A")
	require.True(t, ok)
	assert.Nil(t, target)

	// inline mappings win over sidecar rows
	target, ok = am.Lookup("yes")
	require.True(t, ok)
	require.NotNil(t, target)
	assert.Equal(t, "false", *target)

	target, ok = am.Lookup("no")
	require.True(t, ok)
	require.NotNil(t, target)
	assert.Equal(t, "false", *target)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		msg string
		doc string
	}{
		{
			msg: "no sources",
			doc: "sources: []\n",
		},
		{
			msg: "unknown source type",
			doc: `
sources:
  - name: s
    type: parquet
    path: x
`,
		},
		{
			msg: "csv without table",
			doc: `
sources:
  - name: s
    type: csv
    path: x
`,
		},
		{
			msg: "excel without sheets",
			doc: `
sources:
  - name: s
    type: excel
    path: x
`,
		},
		{
			msg: "table without subject id",
			doc: `
sources:
  - name: s
    type: csv
    path: x
    table:
      name: t
      series:
        - identifier: sex
          data_context: subject_sex
`,
		},
		{
			msg: "missing sidecar file",
			doc: `
sources:
  - name: s
    type: csv
    path: x
    table:
      name: t
      series:
        - identifier: pid
          data_context: subject_id
        - identifier: v
          data_context: observation_status
          alias_map:
            csv: nope.csv
`,
		},
	}

	for _, v := range tests {
		path := writeFile(t, dir, "m.yaml", v.doc)
		_, err := iomapping.Load(path)
		assert.Error(t, err, v.msg)
	}

	_, err := iomapping.Load(filepath.Join(dir, "does-not-exist.yaml"))
	assert.Error(t, err)
}
