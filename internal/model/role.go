package model

// ColumnRole is the semantic meaning assigned to a CSV column.
type ColumnRole string

const (
	RoleDate              ColumnRole = "date"
	RoleAmount            ColumnRole = "amount"
	RoleDebit             ColumnRole = "debit"
	RoleCredit            ColumnRole = "credit"
	RoleDetails           ColumnRole = "details"
	RoleBalance           ColumnRole = "balance"
	RoleAccountNumber     ColumnRole = "account_number"
	RoleAccountNumberData ColumnRole = "account_number_data"
	RoleEmpty             ColumnRole = "empty"
	RoleUnknown           ColumnRole = "unknown"
)

// HeaderClassification is the inferred role of one header cell.
type HeaderClassification struct {
	Role    ColumnRole
	RawText string
	// Confidence is a match distance, lower is better. Only meaningful
	// when Role is neither RoleUnknown nor RoleEmpty.
	Confidence float64
}

// ParsingMeta is the result of header inference for one file.
type ParsingMeta struct {
	Headers   []HeaderClassification
	AccountID string // empty when no account number was seen
	Row       int    // zero-based index of the header row
}

// Roles returns the header roles in column order.
func (m ParsingMeta) Roles() []ColumnRole {
	roles := make([]ColumnRole, len(m.Headers))
	for i, h := range m.Headers {
		roles[i] = h.Role
	}
	return roles
}

// Valid reports whether the headers contain a date, a money column and a
// details column.
func (m ParsingMeta) Valid() bool {
	return ValidRoles(m.Roles())
}

// ValidRoles reports whether roles contain at least one Date, one of
// Amount/Debit/Credit and one Details.
func ValidRoles(roles []ColumnRole) bool {
	var date, money, details bool
	for _, r := range roles {
		switch r {
		case RoleDate:
			date = true
		case RoleAmount, RoleDebit, RoleCredit:
			money = true
		case RoleDetails:
			details = true
		}
	}
	return date && money && details
}
