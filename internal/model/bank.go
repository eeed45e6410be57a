package model

import "strings"

// Bank identifies the bank a file was exported from.
type Bank string

const (
	BankUnknown  Bank = "unknown"
	BankANZ      Bank = "anz"
	BankASB      Bank = "asb"
	BankBNZ      Bank = "bnz"
	BankKiwibank Bank = "kiwibank"
	BankWestpac  Bank = "westpac"
)

// KnownBanks lists every bank except BankUnknown.
var KnownBanks = []Bank{BankANZ, BankASB, BankBNZ, BankKiwibank, BankWestpac}

// ParseBank returns the Bank for name, or BankUnknown.
func ParseBank(name string) Bank {
	b := Bank(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range KnownBanks {
		if b == k {
			return k
		}
	}
	return BankUnknown
}

// MatchSource says how a bank was recognised.
type MatchSource string

const (
	SourceNone       MatchSource = "none"
	SourceLiteral    MatchSource = "literal-header"
	SourceLayout     MatchSource = "role-layout"
	SourceHeaderless MatchSource = "headerless-layout"
)

// Identification is the outcome of matching a file against known bank formats.
type Identification struct {
	Bank   Bank
	Source MatchSource
	// DataColumns, when set, replaces the header roles during row extraction.
	DataColumns []ColumnRole
	// AccountBank is the issuer of the account number seen in the file, if
	// known. It is informational only and never sets a transaction's bank.
	AccountBank Bank
}
