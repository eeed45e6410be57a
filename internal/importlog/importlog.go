// Package importlog records every file the import command has handled.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of importing one file.
type Status string

const (
	StatusImported Status = "imported"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// Entry is one row in the import log.
type Entry struct {
	RunID        string
	Timestamp    time.Time
	File         string
	Bank         string
	Source       string // how the bank was recognised
	HeaderRow    int    // -1 when the file has no header row
	Transactions int
	Duplicates   int
	Status       Status
	Error        string
}

// Header is the CSV header for import-log.csv.
const Header = "run_id,timestamp,file,bank,source,header_row,transactions,duplicates,status,error"

const (
	numFields    = 10
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colRunID     = 0
	colTimestamp = 1
	colFile      = 2
	colBank      = 3
	colSource    = 4
	colHeaderRow = 5
	colTxns      = 6
	colDups      = 7
	colStatus    = 8
	colError     = 9
)

// NewRunID returns an identifier shared by every entry of one import run.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colBank] = e.Bank
	row[colSource] = e.Source
	row[colHeaderRow] = strconv.Itoa(e.HeaderRow)
	row[colTxns] = strconv.Itoa(e.Transactions)
	row[colDups] = strconv.Itoa(e.Duplicates)
	row[colStatus] = string(e.Status)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, 3)
	for i, col := range []int{colHeaderRow, colTxns, colDups} {
		ints[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing column %d %q: %w", col, record[col], err)
		}
	}

	return Entry{
		RunID:        record[colRunID],
		Timestamp:    ts,
		File:         record[colFile],
		Bank:         record[colBank],
		Source:       record[colSource],
		HeaderRow:    ints[0],
		Transactions: ints[1],
		Duplicates:   ints[2],
		Status:       Status(record[colStatus]),
		Error:        record[colError],
	}, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv, or nil if the
// file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Run returns the entries written by one import run.
func Run(root, runID string) ([]Entry, error) {
	all, err := Read(root)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
