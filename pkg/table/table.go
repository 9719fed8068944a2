package table

import "fmt"

// Table is a generic in-memory table: a name, ordered column headers, and
// rows of optional scalar cells.
type Table struct {
	name    string
	headers []string
	rows    [][]Value
}

// New creates an empty table with the given headers.
func New(name string, headers []string) *Table {
	hs := make([]string, len(headers))
	copy(hs, headers)
	return &Table{name: name, headers: hs}
}

func (t *Table) Name() string      { return t.name }
func (t *Table) Headers() []string { return t.headers }
func (t *Table) NumRows() int      { return len(t.rows) }
func (t *Table) NumCols() int      { return len(t.headers) }

// AppendRow adds one row; its arity must match the headers.
func (t *Table) AppendRow(cells []Value) error {
	if len(cells) != len(t.headers) {
		return fmt.Errorf(
			"table %q: row arity %d does not match %d columns",
			t.name, len(cells), len(t.headers),
		)
	}
	row := make([]Value, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Cell returns the value at (row, col). Out-of-range access is a
// programming error and panics like a slice index would.
func (t *Table) Cell(row, col int) Value {
	return t.rows[row][col]
}

// SetCell replaces the value at (row, col).
func (t *Table) SetCell(row, col int, v Value) {
	t.rows[row][col] = v
}

// Row returns a copy of one row.
func (t *Table) Row(row int) []Value {
	out := make([]Value, len(t.rows[row]))
	copy(out, t.rows[row])
	return out
}

// ColumnIndex returns the index of the first column with the given header.
func (t *Table) ColumnIndex(header string) (int, bool) {
	for i, h := range t.headers {
		if h == header {
			return i, true
		}
	}
	return 0, false
}

// Transpose flips rows and columns for sources where subjects are laid out
// as columns. The first column of the source becomes the new header row.
func (t *Table) Transpose() (*Table, error) {
	if len(t.headers) == 0 {
		return nil, fmt.Errorf("table %q: cannot transpose an empty table", t.name)
	}
	headers := make([]string, len(t.rows)+1)
	headers[0] = t.headers[0]
	for i, row := range t.rows {
		headers[i+1] = row[0].Display()
	}
	out := New(t.name, headers)
	for col := 1; col < len(t.headers); col++ {
		cells := make([]Value, len(headers))
		cells[0] = String(t.headers[col])
		for i, row := range t.rows {
			cells[i+1] = row[col]
		}
		if err := out.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.name, t.headers)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, len(row))
		copy(r, row)
		out.rows[i] = r
	}
	return out
}
