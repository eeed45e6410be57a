// Package tabular turns raw statement exports into rows of typed cells.
package tabular

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyInput is returned when a file holds no rows at all.
var ErrEmptyInput = errors.New("no rows in input")

// Kind is the type the decoder inferred for a cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

// Cell is one field of a row. Text is always the trimmed source text,
// including for numbers.
type Cell struct {
	Text string
	Kind Kind
}

// Row is one record and the source line it started on.
type Row struct {
	Cells []Cell
	Line  int    // 1-based
	Raw   string // source text of that line
}

// Table is every row of a file in source order.
type Table struct {
	Rows []Row
}

// Cell returns the cell at col, or an empty cell when the row is shorter.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[col]
}

// Plain decimal numbers only; currency symbols and separators stay text.
var numberRe = regexp.MustCompile(`^[-+]?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?$`)

// NewCell types s.
func NewCell(s string) Cell {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Cell{}
	case numberRe.MatchString(s):
		return Cell{Text: s, Kind: KindNumber}
	default:
		return Cell{Text: s, Kind: KindText}
	}
}

// NewRow types every field of record.
func NewRow(record []string, line int, raw string) Row {
	cells := make([]Cell, len(record))
	for i, f := range record {
		cells[i] = NewCell(f)
	}
	return Row{Cells: cells, Line: line, Raw: raw}
}
