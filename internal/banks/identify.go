package banks

import (
	"slices"
	"strings"
	"time"

	"github.com/statementlens/statementlens/internal/headers"
	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
	"github.com/statementlens/statementlens/internal/values"
)

// Identify recognises the bank behind a header. An exact header line match
// wins outright; otherwise the classified roles are compared position by
// position with each bank's known layouts. Anything else is BankUnknown, even
// when the file names an account: the account's issuer is reported in
// AccountBank and does not select bank rules or filters.
func Identify(rawHeader string, meta model.ParsingMeta) model.Identification {
	ident := identify(rawHeader, meta)
	ident.AccountBank = FromAccountNumber(meta.AccountID)
	return ident
}

func identify(rawHeader string, meta model.ParsingMeta) model.Identification {
	if hit, ok := literals[strings.TrimSpace(rawHeader)]; ok {
		return model.Identification{
			Bank:        hit.bank,
			Source:      model.SourceLiteral,
			DataColumns: hit.literal.DataColumns,
		}
	}

	roles := meta.Roles()
	for _, bank := range model.KnownBanks {
		for _, l := range formats[bank].Layouts {
			if slices.Equal(l.Roles, roles) {
				return model.Identification{
					Bank:        bank,
					Source:      model.SourceLayout,
					DataColumns: l.DataColumns,
				}
			}
		}
	}
	return model.Identification{Bank: model.BankUnknown, Source: model.SourceNone}
}

// bankCodes maps the leading two digits of an NZ account number to its bank.
var bankCodes = map[string]model.Bank{
	"01": model.BankANZ,
	"06": model.BankANZ,
	"02": model.BankBNZ,
	"03": model.BankWestpac,
	"12": model.BankASB,
	"38": model.BankKiwibank,
}

// FromAccountNumber returns the bank that issued an NZ account number.
func FromAccountNumber(acct string) model.Bank {
	acct = strings.TrimSpace(acct)
	if len(acct) < 2 {
		return model.BankUnknown
	}
	if bank, ok := bankCodes[acct[:2]]; ok {
		return bank
	}
	return model.BankUnknown
}

// Intuit recognises a file that has no header row by testing each bank's
// headerless layout against the first row after any banner lines. It returns
// a ParsingMeta whose Row points just above that first data row.
func Intuit(rows []tabular.Row, now time.Time, loc *time.Location) (model.ParsingMeta, model.Identification, bool) {
	var account string
	first := 0
	for first < len(rows) {
		if acct, ok := headers.Banner(rows[first].Cells); ok {
			account = acct
			first++
			continue
		}
		if blank(rows[first].Cells) {
			first++
			continue
		}
		break
	}
	if first >= len(rows) {
		return model.ParsingMeta{}, model.Identification{}, false
	}

	row := rows[first]
	for _, bank := range model.KnownBanks {
		layout := formats[bank].Headerless
		if len(layout) == 0 || !fits(layout, row.Cells, now, loc) {
			continue
		}
		meta := model.ParsingMeta{AccountID: account, Row: first - 1}
		for _, role := range layout {
			meta.Headers = append(meta.Headers, model.HeaderClassification{Role: role})
		}
		return meta, model.Identification{
			Bank:        bank,
			Source:      model.SourceHeaderless,
			AccountBank: FromAccountNumber(account),
		}, true
	}
	return model.ParsingMeta{}, model.Identification{}, false
}

func fits(layout []model.ColumnRole, cells []tabular.Cell, now time.Time, loc *time.Location) bool {
	if len(cells) != len(layout) {
		return false
	}
	for i, role := range layout {
		c := cells[i]
		switch role {
		case model.RoleDate:
			if _, ok := values.ParseDate(c.Text, now, loc); !ok {
				return false
			}
		case model.RoleAmount:
			if _, ok := values.ParseAmount(c.Text); !ok {
				return false
			}
		case model.RoleDebit, model.RoleCredit, model.RoleBalance:
			if c.Kind == tabular.KindEmpty {
				continue
			}
			if _, ok := values.ParseAmount(c.Text); !ok {
				return false
			}
		case model.RoleDetails:
			if c.Kind != tabular.KindText {
				return false
			}
		case model.RoleEmpty:
			if c.Kind != tabular.KindEmpty {
				return false
			}
		}
	}
	return true
}

func blank(cells []tabular.Cell) bool {
	for _, c := range cells {
		if c.Kind != tabular.KindEmpty {
			return false
		}
	}
	return true
}

// Keep reports whether tx is real income or spend for its bank.
func Keep(tx model.Transaction) bool {
	f, ok := formats[tx.Bank]
	if !ok || f.Drop == nil {
		return true
	}
	return !f.Drop(tx)
}
