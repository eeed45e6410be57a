package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes a CSV export. Quoting is lenient and rows may have any
// number of fields. Input that is not valid UTF-8 is read as Windows-1252,
// which is what older bank exports use.
func ReadCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding Windows-1252: %w", err)
		}
		data = decoded
	}

	text := string(data)
	lines := strings.Split(text, "\n")

	cr := csv.NewReader(strings.NewReader(text))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var table Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep what was read; trailing junk is common in exports.
			slog.Debug("Stopped reading CSV", "rows", len(table.Rows), "error", err)
			break
		}
		line, _ := cr.FieldPos(0)
		raw := ""
		if line >= 1 && line <= len(lines) {
			raw = strings.TrimRight(lines[line-1], "\r")
		}
		table.Rows = append(table.Rows, NewRow(rec, line, raw))
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	return &table, nil
}
