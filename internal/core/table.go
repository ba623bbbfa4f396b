package core

// Table is a parsed spreadsheet: an ordered header plus one Row per data row.
// Row order matches the file, so a row's display position (header row plus
// 1-based numbering) is its index + 2.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row maps a column name to its cell value. Columns absent from a row read
// as empty cells.
type Row map[string]CellValue

// Cell returns the value for a column, or an empty cell when the column is
// missing from this row.
func (r Row) Cell(col string) CellValue { return r[col] }

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// displayRow converts a zero-based row index to the position a reviewer sees
// in a spreadsheet editor: +1 for the header row, +1 for 1-based numbering.
func displayRow(i int) int { return i + 2 }
