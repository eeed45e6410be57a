package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/statementlens/statementlens/internal/model"
)

// FileResult is the outcome of parsing one file in a batch.
type FileResult struct {
	Path         string
	Format       string
	Transactions []model.Transaction
	Result       *Result // nil for parsers without header inference
	Err          error
}

// ParseFile reads path and parses it with the parser registered for its
// extension. fileIndex is stamped into every transaction ID.
func ParseFile(reg *Registry, path string, fileIndex int) FileResult {
	fr := FileResult{Path: path}
	p, err := reg.ForFile(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Format = p.Format()

	data, err := os.ReadFile(path)
	if err != nil {
		fr.Err = fmt.Errorf("reading %s: %w", path, err)
		return fr
	}

	if in, ok := p.(Inspector); ok {
		fr.Result, fr.Err = in.Inspect(data, fileIndex)
		if fr.Result != nil {
			fr.Transactions = fr.Result.Transactions
		}
		return fr
	}
	fr.Transactions, fr.Err = p.Parse(data, fileIndex)
	return fr
}

// ParseFiles parses paths concurrently, at most limit at a time (limit <= 0
// means no limit). Each file's position is its file index, and results come
// back in input order. A failing file never stops its siblings; the returned
// error is non-nil only when ctx is cancelled.
func ParseFiles(ctx context.Context, reg *Registry, paths []string, limit int) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ParseFile(reg, path, i)
			if results[i].Err != nil {
				slog.Warn("Failed to parse file", "path", path, "error", results[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
