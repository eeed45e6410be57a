package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/statementlens/statementlens/internal/config"
	"github.com/statementlens/statementlens/internal/importer"
	"github.com/statementlens/statementlens/internal/importlog"
	"github.com/statementlens/statementlens/internal/ledger"
	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/storage"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import statement files from import/ into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absRepo, err := filepath.Abs(repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := opts.setup(absRepo)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), absRepo, cfg)
		},
	}
	cmd.Flags().StringVar(&repo, "repo", ".", "project directory")
	return cmd
}

// importSummary totals one import run.
type importSummary struct {
	files      int
	failed     int
	added      int
	duplicates int
}

func runImport(ctx context.Context, repo string, cfg *config.Config) error {
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	files, err := importer.Scan(repo, reg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files to import.")
		return nil
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	results, err := importer.ParseFiles(ctx, reg, paths, cfg.Import.Concurrency)
	if err != nil {
		return err
	}

	var store *storage.SQLiteStore
	if cfg.Database.Enabled {
		store, err = openStore(ctx, repo, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ledgerDir := cfg.Ledger.Dir
	if !filepath.IsAbs(ledgerDir) {
		ledgerDir = filepath.Join(repo, ledgerDir)
	}
	svc := ledger.NewService(ledgerDir)
	runID := importlog.NewRunID()

	bar := progressbar.NewOptions(len(results),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	var sum importSummary
	entries := make([]importlog.Entry, 0, len(results))
	for i, fr := range results {
		entry := importFile(ctx, svc, store, runID, fr)
		entry.File = files[i].Name
		entries = append(entries, entry)

		sum.files++
		sum.added += entry.Transactions
		sum.duplicates += entry.Duplicates
		if entry.Status == importlog.StatusFailed {
			sum.failed++
		} else if cfg.Import.MoveProcessed {
			if err := importer.MarkProcessed(repo, files[i].Name); err != nil {
				slog.Warn("Failed to move processed file", "file", files[i].Name, "error", err)
			}
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if err := importlog.Append(repo, entries); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}

	fmt.Printf("Imported %d transactions from %d files (%d duplicates, %d failed). Run %s\n",
		sum.added, sum.files, sum.duplicates, sum.failed, runID)
	return nil
}

// importFile records one parsed file in the ledger and, when enabled, the
// database. The returned entry has every field but File set.
func importFile(ctx context.Context, svc *ledger.Service, store *storage.SQLiteStore, runID string, fr importer.FileResult) importlog.Entry {
	entry := importlog.Entry{
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Bank:      string(model.BankUnknown),
		Source:    string(model.SourceNone),
		HeaderRow: -1,
	}
	if fr.Result != nil {
		entry.Bank = string(fr.Result.Ident.Bank)
		entry.Source = string(fr.Result.Ident.Source)
		entry.HeaderRow = fr.Result.Meta.Row
	} else if len(fr.Transactions) > 0 {
		entry.Bank = string(fr.Transactions[0].Bank)
	}

	if fr.Err != nil {
		entry.Status = importlog.StatusFailed
		entry.Error = fr.Err.Error()
		return entry
	}
	if len(fr.Transactions) == 0 {
		entry.Status = importlog.StatusEmpty
		return entry
	}

	res, err := svc.Append(fr.Transactions)
	if err != nil {
		slog.Error("Failed to append to ledger", "path", fr.Path, "error", err)
		entry.Status = importlog.StatusFailed
		entry.Error = err.Error()
		entry.Transactions = res.Added
		entry.Duplicates = res.Duplicates
		return entry
	}
	entry.Status = importlog.StatusImported
	entry.Transactions = res.Added
	entry.Duplicates = res.Duplicates

	if store != nil {
		saved, err := store.SaveTransactions(ctx, runID, fr.Transactions)
		if err != nil {
			slog.Warn("Failed to save transactions to database", "path", fr.Path, "error", err)
		} else {
			slog.Debug("Saved transactions to database", "path", fr.Path, "saved", saved)
		}
	}
	return entry
}

func openStore(ctx context.Context, repo, path string) (*storage.SQLiteStore, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(repo, path)
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
