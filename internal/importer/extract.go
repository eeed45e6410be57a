package importer

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/statementlens/statementlens/internal/banks"
	"github.com/statementlens/statementlens/internal/headers"
	"github.com/statementlens/statementlens/internal/id"
	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
	"github.com/statementlens/statementlens/internal/textnorm"
	"github.com/statementlens/statementlens/internal/values"
)

// typeHeaders are normalized header texts of a transaction type column.
var typeHeaders = map[string]bool{
	"type":                     true,
	"tran type":                true,
	"transaction type":         true,
	"source code payment type": true,
}

// Extractor reads body rows into transactions. Now bounds accepted dates.
type Extractor struct {
	Now      time.Time
	Location *time.Location
}

// columns is the per-file plan shared by every row.
type columns struct {
	roles   []model.ColumnRole
	rules   banks.Rules
	bank    model.Bank
	typeCol int // -1 when absent
}

// Extract reads every row after meta.Row. Rows without a date, description or
// non-zero amount are dropped. Output keeps source order.
func (e Extractor) Extract(rows []tabular.Row, meta model.ParsingMeta, ident model.Identification, fileIndex int) []model.Transaction {
	plan := columns{
		roles:   meta.Roles(),
		rules:   banks.RulesFor(ident),
		bank:    ident.Bank,
		typeCol: typeColumn(meta.Headers),
	}
	if len(ident.DataColumns) > 0 {
		plan.roles = ident.DataColumns
	}
	if plan.bank == "" {
		plan.bank = model.BankUnknown
	}

	var out []model.Transaction
	for i := meta.Row + 1; i < len(rows); i++ {
		count := i - meta.Row - 1
		row := rows[i]

		tx, reason := e.read(row, plan)
		if reason != "" {
			slog.Debug("Skipping row", "file_index", fileIndex, "line", row.Line, "reason", reason)
			continue
		}
		tx.ID = id.FormatTransactionID(tx.Date, fileIndex, count)
		if tx.AccountID == "" {
			tx.AccountID = meta.AccountID
		}
		out = append(out, tx)
	}
	return out
}

// read returns the transaction in row, or a non-empty reason it has none.
func (e Extractor) read(row tabular.Row, plan columns) (model.Transaction, string) {
	date, ok := e.date(row, plan.roles)
	if !ok {
		return model.Transaction{}, "no date"
	}

	desc, ok := description(row, plan)
	if !ok {
		return model.Transaction{}, "no description"
	}

	amount := resolveAmount(row, plan)
	if amount.IsZero() {
		return model.Transaction{}, "zero amount"
	}

	tx := model.Transaction{
		Description: desc,
		Direction:   model.DirectionOf(amount),
		Date:        date,
		Amount:      amount,
		Bank:        plan.bank,
		AccountID:   rowAccount(row, plan.roles),
	}
	if plan.typeCol >= 0 {
		tx.Type = row.Cell(plan.typeCol).Text
	}
	return tx, ""
}

func (e Extractor) date(row tabular.Row, roles []model.ColumnRole) (time.Time, bool) {
	for col, role := range roles {
		if role != model.RoleDate {
			continue
		}
		if t, ok := values.ParseDate(row.Cell(col).Text, e.Now, e.Location); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func description(row tabular.Row, plan columns) (string, bool) {
	if plan.rules.Description == banks.DescribeOtherParty {
		for _, col := range []int{plan.rules.OtherPartyCol, plan.rules.DescriptionCol} {
			if c := row.Cell(col); c.Kind == tabular.KindText {
				return c.Text, true
			}
		}
		return "", false
	}

	var best string
	for col, role := range plan.roles {
		if role != model.RoleDetails {
			continue
		}
		c := row.Cell(col)
		if c.Kind != tabular.KindText {
			continue
		}
		if utf8.RuneCountInString(c.Text) > utf8.RuneCountInString(best) {
			best = c.Text
		}
	}
	return best, best != ""
}

func resolveAmount(row tabular.Row, plan columns) decimal.Decimal {
	total := decimal.Zero

	switch plan.rules.Amount {
	case banks.AmountFirstSigned:
		for col, role := range plan.roles {
			if role != model.RoleAmount {
				continue
			}
			if v, ok := values.ParseAmount(row.Cell(col).Text); ok {
				total = v
				break
			}
		}
	default:
		for col, role := range plan.roles {
			if role != model.RoleDebit && role != model.RoleCredit {
				continue
			}
			v, ok := values.ParseAmount(row.Cell(col).Text)
			if !ok {
				continue
			}
			if role == model.RoleDebit {
				total = total.Sub(v.Abs())
			} else {
				total = total.Add(v.Abs())
			}
		}
	}

	if !total.IsZero() {
		return total
	}
	for col, role := range plan.roles {
		if role != model.RoleAmount {
			continue
		}
		if v, ok := values.ParseAmount(row.Cell(col).Text); ok {
			total = total.Add(v)
		}
	}
	return total
}

// rowAccount returns an account number held in the row itself.
func rowAccount(row tabular.Row, roles []model.ColumnRole) string {
	for col, role := range roles {
		if role != model.RoleAccountNumberData {
			continue
		}
		if acct, ok := headers.FindAccountNumber(row.Cell(col).Text); ok {
			return acct
		}
	}
	return ""
}

func typeColumn(hs []model.HeaderClassification) int {
	for i, h := range hs {
		if typeHeaders[strings.TrimSpace(textnorm.Normalize(h.RawText))] {
			return i
		}
	}
	return -1
}
