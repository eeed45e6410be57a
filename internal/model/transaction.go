package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether money left or entered the account.
type Direction string

const (
	DirectionDebit  Direction = "debit"  // spend, negative amount
	DirectionCredit Direction = "credit" // income, positive amount
)

// DirectionOf derives the direction from the sign of amount.
func DirectionOf(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return DirectionDebit
	}
	return DirectionCredit
}

// Transaction is one normalized row extracted from a bank export.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Direction   Direction       `json:"direction"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"` // negative = spend, positive = income, never zero
	Bank        Bank            `json:"bankConnection"`
	Type        string          `json:"type,omitempty"`      // bank transaction type when the export has one
	AccountID   string          `json:"accountId,omitempty"` // account number seen in the file, if any
}

// Hash identifies the same real-world transaction across re-imports of a file.
// The ID is not used since it carries the file index.
func (t Transaction) Hash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Description,
		t.AccountID)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}
