// Package id formats and parses transaction identifiers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const prefix = "tx"

// FormatTransactionID returns an ID like "tx_2024-03-01T00:00:00Z_0_4".
// The file index and row counter keep IDs unique across files uploaded together.
func FormatTransactionID(date time.Time, fileIndex, row int) string {
	return fmt.Sprintf("%s_%s_%d_%d", prefix, date.Format(time.RFC3339), fileIndex, row)
}

// ParseTransactionID splits an ID produced by FormatTransactionID.
func ParseTransactionID(id string) (date time.Time, fileIndex, row int, err error) {
	parts := strings.Split(id, "_")
	if len(parts) != 4 || parts[0] != prefix {
		return time.Time{}, 0, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	date, err = time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid date in transaction ID %q: %w", id, err)
	}

	fileIndex, err = strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid file index in transaction ID %q: %w", id, err)
	}

	row, err = strconv.Atoi(parts[3])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid row in transaction ID %q: %w", id, err)
	}

	return date, fileIndex, row, nil
}
