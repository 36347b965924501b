package types

import (
	"fmt"
	"strconv"
)

// Field is one textual cell. No type coercion is ever applied.
type Field = string

// Row is the ordered list of fields from one line of input.
// A parsed Row always has at least one field.
type Row []Field

// Table is the ordered list of rows; rows may differ in length.
type Table []Row

func (t Table) NumRows() int { return len(t) }

// MaxWidth returns the length of the widest row
func (t Table) MaxWidth() (width int) {
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	return
}

// IsRagged reports whether any two rows have different lengths
func (t Table) IsRagged() bool {
	for i := 1; i < len(t); i++ {
		if len(t[i]) != len(t[0]) {
			return true
		}
	}
	return false
}

// Column returns the cells at index col, skipping rows too short to have one.
func (t Table) Column(col int) (cells []Field) {
	cells = make([]Field, 0, len(t))
	for _, row := range t {
		if col >= 0 && col < len(row) {
			cells = append(cells, row[col])
		}
	}
	return
}

// FloatColumn parses column col of every row as float64. Rows too short to
// have the column are an error, as is any cell that is not a number.
func (t Table) FloatColumn(col int) (data []float64, err error) {
	data = make([]float64, len(t))
	for i, row := range t {
		if col < 0 || col >= len(row) {
			return nil, fmt.Errorf("row %d has %d fields, no column %d", i+1, len(row), col)
		}
		if data[i], err = strconv.ParseFloat(row[col], 64); err != nil {
			return nil, fmt.Errorf("row %d, column %d: %w", i+1, col, err)
		}
	}
	return
}
