package dataset

import "strings"

// Table is an ordered collection of named columns with untyped string cells,
// as loaded from an uploaded spreadsheet. The pipeline treats it as read-only.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows (header excluded).
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col index), or "" when the row is ragged.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Column returns all cells of the named column in row order, padded with ""
// for ragged rows. Returns nil if the column does not exist.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, idx)
	}
	return out
}

// normalizeHeader trims surrounding whitespace from each column name.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// padRow extends rec to ncol cells so downstream indexing stays in bounds.
func padRow(rec []string, ncol int) []string {
	if len(rec) >= ncol {
		return rec
	}
	tmp := make([]string, ncol)
	copy(tmp, rec)
	return tmp
}
