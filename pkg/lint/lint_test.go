package lint_test

import (
	"testing"

	"github.com/phenotools/pxtract/pkg/lint"
	"github.com/phenotools/pxtract/pkg/record"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanRecord() *record.Record {
	low, high := 0.6, 1.2
	return &record.Record{
		ID: "r1",
		Subject: record.Subject{
			ID:  "p1",
			Sex: "Female",
		},
		Features: []record.Feature{
			{Term: record.Term{ID: "HP:0001250", Label: "Seizure"}},
			{Term: record.Term{ID: "HP:0001250"}, Excluded: true},
		},
		Findings: []record.Finding{
			{Block: "dx", Disease: &record.Term{ID: "MONDO:0005148"}},
		},
		Measurements: []record.Measurement{
			{AssayID: "LOINC:2160-0", Value: 1.3, UnitID: "UO:0000176",
				RefLow: &low, RefHigh: &high},
		},
	}
}

func TestLintCleanRecordPasses(t *testing.T) {
	rpt := report.New()
	lint.New().Run([]*record.Record{cleanRecord()}, rpt)
	assert.Zero(t, rpt.Len(), "%v", rpt.Diagnostics())
}

func TestLintRules(t *testing.T) {
	tests := []struct {
		msg     string
		mutate  func(*record.Record)
		substr  string
		hasHint bool
	}{
		{
			msg:    "missing subject id",
			mutate: func(r *record.Record) { r.Subject.ID = "" },
			substr: "no subject identifier",
		},
		{
			msg:     "sex outside vocabulary",
			mutate:  func(r *record.Record) { r.Subject.Sex = "woman" },
			substr:  "not a controlled value",
			hasHint: true,
		},
		{
			msg: "feature term not canonical",
			mutate: func(r *record.Record) {
				r.Features[0].Term.ID = "Seizure"
			},
			substr:  "not a canonical HPO id",
			hasHint: true,
		},
		{
			msg: "disease neither MONDO nor OMIM",
			mutate: func(r *record.Record) {
				r.Findings[0].Disease.ID = "ICD10:E11"
			},
			substr: "not a canonical MONDO or OMIM id",
		},
		{
			msg: "measurement without unit",
			mutate: func(r *record.Record) {
				r.Measurements[0].UnitID = ""
			},
			substr: "has no unit",
		},
		{
			msg: "measurement without assay",
			mutate: func(r *record.Record) {
				r.Measurements[0].AssayID = ""
			},
			substr: "without an assay id",
		},
		{
			msg: "duplicate feature with same status",
			mutate: func(r *record.Record) {
				r.Features[1].Excluded = false
			},
			substr: "reported 2 times",
		},
	}

	for _, v := range tests {
		rec := cleanRecord()
		v.mutate(rec)

		rpt := report.New()
		lint.New().Run([]*record.Record{rec}, rpt)
		require.GreaterOrEqual(t, rpt.Len(), 1, v.msg)

		d := rpt.Diagnostics()[0]
		assert.Equal(t, report.Validation, d.Kind, v.msg)
		assert.Contains(t, d.Message, v.substr, v.msg)
		if v.hasHint {
			assert.NotEmpty(t, d.Hint, v.msg)
		}
	}
}

func TestLintOmimDiseaseAccepted(t *testing.T) {
	rec := cleanRecord()
	rec.Findings[0].Disease.ID = "OMIM:222100"

	rpt := report.New()
	lint.New().Run([]*record.Record{rec}, rpt)
	assert.Zero(t, rpt.Len())
}

func TestLintQualitativeMeasurementNeedsNoUnit(t *testing.T) {
	rec := cleanRecord()
	rec.Measurements = []record.Measurement{
		{AssayID: "LOINC:600-7", TextValue: "negative"},
	}

	rpt := report.New()
	lint.New().Run([]*record.Record{rec}, rpt)
	assert.Zero(t, rpt.Len())
}
