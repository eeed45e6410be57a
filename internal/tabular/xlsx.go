package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet of a spreadsheet export. Raw holds the
// row's cells joined by commas, matching how the same export looks as CSV.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	var table Table
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		table.Rows = append(table.Rows, NewRow(rec, i+1, strings.Join(rec, ",")))
	}
	if len(table.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	return &table, nil
}
