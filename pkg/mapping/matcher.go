package mapping

// Binding ties one series context to the physical column indices its
// identifier selected.
type Binding struct {
	Series  *SeriesContext
	Columns []int
}

// Bindings is the resolved mapping of a table context onto one table's
// headers, in declaration order.
type Bindings []Binding

// Resolve matches every series context of tc against the physical column
// headers. A single physical column may be selected by more than one series
// context; headers can carry several simultaneous meanings. An empty match
// for a required series context is an IdentifierMatchError.
func Resolve(tc *TableContext, headers []string) (Bindings, error) {
	bindings := make(Bindings, 0, len(tc.Series))
	for i := range tc.Series {
		sc := &tc.Series[i]
		cols, missing := sc.Identifier.Match(headers)
		if len(missing) > 0 && !sc.Optional {
			return nil, &IdentifierMatchError{
				Table:      tc.Name,
				Identifier: sc.Identifier,
				Missing:    missing,
			}
		}
		if len(cols) == 0 {
			if sc.Optional {
				continue
			}
			return nil, &IdentifierMatchError{Table: tc.Name, Identifier: sc.Identifier}
		}
		bindings = append(bindings, Binding{Series: sc, Columns: cols})
	}
	return bindings, nil
}

// ByDataKind returns the bindings whose data context has the given kind.
func (b Bindings) ByDataKind(k Kind) []Binding {
	var out []Binding
	for _, bd := range b {
		if bd.Series.DataContext.Kind() == k {
			out = append(out, bd)
		}
	}
	return out
}

// SubjectColumn returns the physical column index of the subject id, or -1
// when the table has none bound.
func (b Bindings) SubjectColumn() int {
	for _, bd := range b {
		if bd.Series.DataContext.Kind() == KindSubjectID && len(bd.Columns) > 0 {
			return bd.Columns[0]
		}
	}
	return -1
}
