package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statementlens/statementlens/internal/model"
)

const dateFormat = "2006-01-02"

// SaveTransactions inserts txns, ignoring any already stored. Identical rows
// within txns are told apart by their occurrence, so saving the same batch
// twice stores it once without collapsing genuine repeats. It returns how
// many rows were new.
func (s *SQLiteStore) SaveTransactions(ctx context.Context, runID string, txns []model.Transaction) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			hash, occurrence, id, date, description, direction, amount, bank, type, account_id, run_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	occurrences := make(map[string]int, len(txns))
	for _, t := range txns {
		h := t.Hash()
		occurrence := occurrences[h]
		occurrences[h]++

		res, err := stmt.ExecContext(ctx,
			h, occurrence, t.ID, t.Date.Format(dateFormat), t.Description,
			string(t.Direction), t.Amount.StringFixed(2), string(t.Bank),
			nullable(t.Type), nullable(t.AccountID), nullable(runID))
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transactions: %w", err)
	}
	return inserted, nil
}

// ListTransactions returns transactions dated from..to inclusive, oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, direction, amount, bank, type, account_id
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date, id
	`, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var (
			t                 model.Transaction
			date, amount      string
			direction, bank   string
			txType, accountID sql.NullString
		)
		if err := rows.Scan(&t.ID, &date, &t.Description, &direction, &amount, &bank, &txType, &accountID); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		if t.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		t.Direction = model.Direction(direction)
		t.Bank = model.Bank(bank)
		t.Type = txType.String
		t.AccountID = accountID.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountByBank returns the number of stored transactions per bank.
func (s *SQLiteStore) CountByBank(ctx context.Context) (map[model.Bank]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bank, COUNT(*) FROM transactions GROUP BY bank`)
	if err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Bank]int)
	for rows.Next() {
		var bank string
		var n int
		if err := rows.Scan(&bank, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[model.Bank(bank)] = n
	}
	return counts, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
