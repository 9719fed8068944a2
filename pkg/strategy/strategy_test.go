package strategy_test

import (
	"context"
	"testing"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/strategy"
	"github.com/phenotools/pxtract/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagged builds a one-table fixture: headers, rows of display strings
// ("" means null), tagged with the given series contexts plus a subject id
// column that every valid table context needs.
func tagged(t *testing.T, headers []string, rows [][]string, series ...mapping.SeriesContext) *table.Tagged {
	t.Helper()
	all := append([]mapping.SeriesContext{{
		Identifier:  mapping.Name(headers[0]),
		DataContext: mapping.SubjectID(),
	}}, series...)
	tc := &mapping.TableContext{Name: "t", Series: all}
	require.NoError(t, tc.Validate())

	tbl := table.New("t", headers)
	for _, row := range rows {
		cells := make([]table.Value, len(row))
		for i, s := range row {
			if s == "" {
				cells[i] = table.Null
			} else {
				cells[i] = table.String(s)
			}
		}
		require.NoError(t, tbl.AppendRow(cells))
	}
	tg, err := table.NewTagged(tbl, tc, "test")
	require.NoError(t, err)
	return tg
}

func hpProvider() *ontology.StaticProvider {
	return ontology.NewStaticProvider(ontology.HP(), []ontology.Term{
		{ID: "HP:0001250", Label: "Seizure", Synonyms: []string{"Fits"}},
		{ID: "HP:0004322", Label: "Short stature"},
	})
}

func TestBuildDefaultOrder(t *testing.T) {
	factory := ontology.NewFactory(hpProvider())
	p, err := strategy.Build(strategy.DefaultOrder(), factory)
	require.NoError(t, err)
	assert.Equal(t, strategy.DefaultOrder(), p.Names())
}

func TestBuildRejectsUnknownName(t *testing.T) {
	_, err := strategy.Build([]string{"string_correction", "despace"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "despace")
}

func TestBuildEnforcesCorrectionOrder(t *testing.T) {
	tests := []struct {
		msg   string
		names []string
		bad   bool
	}{
		{
			msg:   "correction before alias ok",
			names: []string{"string_correction", "alias_map"},
		},
		{
			msg:   "correction after alias rejected",
			names: []string{"alias_map", "string_correction"},
			bad:   true,
		},
		{
			msg:   "correction after normaliser rejected",
			names: []string{"ontology_normaliser", "string_correction"},
			bad:   true,
		},
		{
			msg:   "no correction at all is allowed",
			names: []string{"alias_map", "sex_mapping"},
		},
	}

	factory := ontology.NewFactory(hpProvider())
	for _, v := range tests {
		_, err := strategy.Build(v.names, factory)
		if v.bad {
			assert.Error(t, err, v.msg)
		} else {
			assert.NoError(t, err, v.msg)
		}
	}
}

func TestPipelineSequential(t *testing.T) {
	// whitespace is corrected before the alias lookup keys are matched
	tg := tagged(t,
		[]string{"pid", "dx"},
		[][]string{{"p1", "  not   affected "}},
		mapping.SeriesContext{
			Identifier:  mapping.Name("dx"),
			DataContext: mapping.DiseaseLabelOrID(),
			AliasMap: &mapping.AliasMap{
				Mappings: map[string]*string{"not affected": nil},
			},
		},
	)

	factory := ontology.NewFactory(hpProvider())
	p, err := strategy.Build(
		[]string{"string_correction", "alias_map"}, factory,
	)
	require.NoError(t, err)

	rpt := report.New()
	require.NoError(t, p.Apply(context.Background(), tg, rpt))
	assert.True(t, tg.Cell(0, 1).IsNull())
	assert.Zero(t, rpt.Len())
}
