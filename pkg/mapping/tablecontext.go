package mapping

import "fmt"

// TableContext declares the semantic shape expected of one physical table:
// one CSV file or one spreadsheet sheet.
type TableContext struct {
	Name   string          `yaml:"name"`
	Series []SeriesContext `yaml:"series"`
}

// Validate checks the declaration as a whole: each series is well formed,
// identifiers are unique, and exactly one series tags its data as the
// subject identifier.
func (tc *TableContext) Validate() error {
	if tc.Name == "" {
		return &ConfigurationError{Reason: "table context without a name"}
	}
	seen := make(map[string]bool, len(tc.Series))
	subjectIDs := 0
	for i := range tc.Series {
		sc := &tc.Series[i]
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("table %q: %w", tc.Name, err)
		}
		key := sc.Identifier.String()
		if seen[key] {
			return &ConfigurationError{
				Reason: fmt.Sprintf("table %q: duplicate identifier %s", tc.Name, sc.Identifier),
			}
		}
		seen[key] = true
		if sc.DataContext.Kind() == KindSubjectID {
			subjectIDs++
		}
	}
	if subjectIDs != 1 {
		return &ConfigurationError{
			Reason: fmt.Sprintf(
				"table %q: expected exactly one subject_id data context, found %d",
				tc.Name, subjectIDs,
			),
		}
	}
	return nil
}

// SubjectSeries returns the series context whose data is the subject
// identifier. Valid table contexts have exactly one.
func (tc *TableContext) SubjectSeries() *SeriesContext {
	for i := range tc.Series {
		if tc.Series[i].DataContext.Kind() == KindSubjectID {
			return &tc.Series[i]
		}
	}
	return nil
}
