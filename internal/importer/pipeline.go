// Package importer turns bank statement exports into normalized transactions.
package importer

import (
	"log/slog"
	"time"

	"github.com/statementlens/statementlens/internal/banks"
	"github.com/statementlens/statementlens/internal/headers"
	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
)

// Pipeline runs header inference, bank identification, row extraction and
// filtering over a decoded table. It holds no per-file state and may be
// shared between goroutines.
type Pipeline struct {
	matcher *headers.Matcher
	now     func() time.Time
	loc     *time.Location
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used to reject future dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLocation sets the time zone dates are read in.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithMatcher replaces the header matcher.
func WithMatcher(m *headers.Matcher) Option {
	return func(p *Pipeline) { p.matcher = m }
}

// NewPipeline creates a Pipeline using the default header vocabulary.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{now: time.Now, loc: time.UTC}
	for _, o := range opts {
		o(p)
	}
	if p.matcher == nil {
		p.matcher = headers.Default()
	}
	return p
}

// Result is everything learned while parsing one file.
type Result struct {
	Meta         model.ParsingMeta
	Ident        model.Identification
	Transactions []model.Transaction
	BodyRows     int // rows after the header
	Skipped      int // body rows that could not be read
	Filtered     int // transactions removed by the bank filter
}

// ParseTable runs the pipeline over table. It fails only when neither a
// header row nor a known headerless layout can be found.
func (p *Pipeline) ParseTable(table *tabular.Table, fileIndex int) (*Result, error) {
	now := p.now()

	meta, err := p.matcher.Locate(table.Rows)
	var ident model.Identification
	if err != nil {
		m, id, ok := banks.Intuit(table.Rows, now, p.loc)
		if !ok {
			return nil, err
		}
		slog.Debug("Recognised headerless export", "bank", id.Bank, "first_row", m.Row+1)
		meta, ident = m, id
	} else {
		ident = banks.Identify(table.Rows[meta.Row].Raw, meta)
	}

	ex := Extractor{Now: now, Location: p.loc}
	extracted := ex.Extract(table.Rows, meta, ident, fileIndex)

	res := &Result{
		Meta:     meta,
		Ident:    ident,
		BodyRows: len(table.Rows) - meta.Row - 1,
	}
	res.Skipped = res.BodyRows - len(extracted)
	for _, tx := range extracted {
		if !banks.Keep(tx) {
			res.Filtered++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res, nil
}

var defaultPipeline = NewPipeline()

// ParseCSV parses CSV text with the default pipeline. A file whose header
// cannot be found yields no transactions; the failure is logged, not returned.
func ParseCSV(text string, fileIndex int) []model.Transaction {
	table, err := tabular.ReadCSV([]byte(text))
	if err != nil {
		slog.Warn("Failed to read CSV", "file_index", fileIndex, "error", err)
		return nil
	}
	res, err := defaultPipeline.ParseTable(table, fileIndex)
	if err != nil {
		slog.Warn("Failed to parse CSV", "file_index", fileIndex, "error", err)
		return nil
	}
	return res.Transactions
}
