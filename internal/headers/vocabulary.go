// Package headers infers the meaning of bank-export columns from their
// header text and finds the header row inside a file.
package headers

import (
	"strings"

	"github.com/statementlens/statementlens/internal/model"
)

// Entry is the set of header phrases that mean one role.
type Entry struct {
	Role    model.ColumnRole
	Phrases []string
}

// DefaultVocabulary returns the header phrases seen in NZ bank exports.
// Phrases must already be normalized. Earlier entries win ties.
func DefaultVocabulary() []Entry {
	return []Entry{
		{model.RoleDate, []string{
			"date", "transaction date", "date of transaction", "processed date",
			"posted date", "posting date", "value date",
		}},
		{model.RoleAmount, []string{
			"amount", "transaction amount", "amount nzd", "value",
		}},
		{model.RoleDebit, []string{
			"debit", "debits", "debit amount", "withdrawal", "withdrawals",
			"money out", "paid out",
		}},
		{model.RoleCredit, []string{
			"credit", "credits", "credit amount", "deposit", "deposits",
			"money in", "paid in",
		}},
		{model.RoleDetails, []string{
			"details", "description", "transaction details", "payee", "memo",
			"narrative", "particulars", "other party", "memodescription",
		}},
		{model.RoleBalance, []string{
			"balance", "closing balance", "running balance", "balance nzd",
		}},
		{model.RoleAccountNumber, []string{
			"account number", "account", "account no", "this party account",
			"other party account",
		}},
	}
}

// variants expands phrase into the forms registered in the index. Two-word
// phrases are registered in both word orders.
func variants(phrase string) []string {
	words := strings.Fields(phrase)
	if len(words) == 2 {
		return []string{phrase, words[1] + " " + words[0]}
	}
	return []string{phrase}
}
