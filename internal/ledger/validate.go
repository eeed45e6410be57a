package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/statementlens/statementlens/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant     int
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TransactionID, e.Description)
}

// Validate enforces the ledger invariants on one month of transactions.
func Validate(txns []model.Transaction, year, month int) []ValidationError {
	var errs []ValidationError
	add := func(inv int, tx model.Transaction, format string, args ...any) {
		errs = append(errs, ValidationError{
			Invariant:     inv,
			TransactionID: tx.ID,
			Description:   fmt.Sprintf(format, args...),
		})
	}

	hundred := decimal.NewFromInt(100)
	seen := make(map[string]bool)
	for _, tx := range txns {
		// Invariant 1: Non-zero amount.
		if tx.Amount.IsZero() {
			add(1, tx, "amount is zero")
		}

		// Invariant 2: Direction follows the sign.
		if tx.Direction != model.DirectionOf(tx.Amount) {
			add(2, tx, "direction %q does not match amount %s", tx.Direction, tx.Amount.StringFixed(2))
		}

		// Invariant 3: Bank is a known value.
		if tx.Bank != model.BankUnknown && model.ParseBank(string(tx.Bank)) == model.BankUnknown {
			add(3, tx, "unknown bank %q", tx.Bank)
		}

		// Invariant 4: Date within month.
		if tx.Date.Year() != year || int(tx.Date.Month()) != month {
			add(4, tx, "date %s not in %04d-%02d", tx.Date.Format(dateFormat), year, month)
		}

		// Invariant 5: IDs are unique.
		if seen[tx.ID] {
			add(5, tx, "duplicate ID")
		}
		seen[tx.ID] = true

		// Invariant 6: Exact cents.
		if !tx.Amount.Mul(hundred).Equal(tx.Amount.Mul(hundred).Floor()) {
			add(6, tx, "amount %s has more than 2 decimal places", tx.Amount)
		}

		// Invariant 7: Description present.
		if tx.Description == "" {
			add(7, tx, "empty description")
		}
	}
	return errs
}
