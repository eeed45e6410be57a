package importer

import (
	"bytes"
	"fmt"

	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
)

// Inspector is implemented by parsers that infer headers, so callers can see
// how a file was read.
type Inspector interface {
	Inspect(data []byte, fileIndex int) (*Result, error)
}

// CSVParser parses comma-separated exports through a Pipeline.
type CSVParser struct {
	pipeline *Pipeline
}

// NewCSVParser returns a CSV parser; a nil pipeline uses the defaults.
func NewCSVParser(p *Pipeline) *CSVParser {
	return &CSVParser{pipeline: p}
}

func (c *CSVParser) Format() string { return "csv" }

func (c *CSVParser) Extensions() []string { return []string{".csv"} }

// Inspect decodes data and runs the pipeline, keeping the inference details.
func (c *CSVParser) Inspect(data []byte, fileIndex int) (*Result, error) {
	table, err := tabular.ReadCSV(data)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return pipelineOrDefault(c.pipeline).ParseTable(table, fileIndex)
}

// Parse returns the transactions in data.
func (c *CSVParser) Parse(data []byte, fileIndex int) ([]model.Transaction, error) {
	res, err := c.Inspect(data, fileIndex)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// XLSXParser parses spreadsheet exports through a Pipeline.
type XLSXParser struct {
	pipeline *Pipeline
}

// NewXLSXParser returns a spreadsheet parser; a nil pipeline uses the defaults.
func NewXLSXParser(p *Pipeline) *XLSXParser {
	return &XLSXParser{pipeline: p}
}

func (x *XLSXParser) Format() string { return "xlsx" }

func (x *XLSXParser) Extensions() []string { return []string{".xlsx"} }

// Inspect decodes the first sheet and runs the pipeline.
func (x *XLSXParser) Inspect(data []byte, fileIndex int) (*Result, error) {
	table, err := tabular.ReadXLSX(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet: %w", err)
	}
	return pipelineOrDefault(x.pipeline).ParseTable(table, fileIndex)
}

// Parse returns the transactions in data.
func (x *XLSXParser) Parse(data []byte, fileIndex int) ([]model.Transaction, error) {
	res, err := x.Inspect(data, fileIndex)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

func pipelineOrDefault(p *Pipeline) *Pipeline {
	if p == nil {
		return defaultPipeline
	}
	return p
}
