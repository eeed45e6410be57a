// Package banks knows the export formats of New Zealand banks: how to
// recognise them, how their rows are read, and which rows to drop.
package banks

import (
	"strings"

	"github.com/statementlens/statementlens/internal/model"
)

// DescriptionRule selects how a row's description is chosen.
type DescriptionRule int

const (
	// DescribeLongest takes the longest text under any Details column.
	DescribeLongest DescriptionRule = iota
	// DescribeOtherParty takes the other-party column, falling back to the
	// description column when it is blank.
	DescribeOtherParty
)

// AmountRule selects how a row's signed amount is computed.
type AmountRule int

const (
	// AmountDebitCredit sums debit (negative) and credit (positive) columns,
	// then falls back to the sum of Amount columns.
	AmountDebitCredit AmountRule = iota
	// AmountFirstSigned takes the first Amount column holding a number.
	AmountFirstSigned
)

// Rules is how rows of one format are read.
type Rules struct {
	Description    DescriptionRule
	Amount         AmountRule
	OtherPartyCol  int // DescribeOtherParty only
	DescriptionCol int // DescribeOtherParty only
}

// Literal is an exact header line and its extraction override.
type Literal struct {
	Line        string
	DataColumns []model.ColumnRole
}

// Layout is a classified header role sequence and its extraction override.
type Layout struct {
	Roles       []model.ColumnRole
	DataColumns []model.ColumnRole
}

// Format describes everything known about one bank's exports.
type Format struct {
	Literals   []Literal
	Layouts    []Layout
	Headerless []model.ColumnRole // column layout of exports without a header row
	Rules      Rules
	// Drop reports rows that are not real income or spend.
	Drop func(model.Transaction) bool
}

const (
	date    = model.RoleDate
	amount  = model.RoleAmount
	debit   = model.RoleDebit
	credit  = model.RoleCredit
	details = model.RoleDetails
	balance = model.RoleBalance
	acctNo  = model.RoleAccountNumber
	acctVal = model.RoleAccountNumberData
	empty   = model.RoleEmpty
	unknown = model.RoleUnknown
)

var genericRules = Rules{Description: DescribeLongest, Amount: AmountDebitCredit}

// formats has an entry for every bank in model.KnownBanks.
var formats = map[model.Bank]Format{
	model.BankKiwibank: {
		Literals: []Literal{
			{Line: "Date,Description,,Amount,Balance"},
			{
				Line: "Account number,Date,Memo/Description,Source Code (payment type),TP ref,TP part,TP code,OP ref,OP part,OP code,OP name,OP Bank Account Number,Amount (credit),Amount (debit),Amount,Balance",
				DataColumns: []model.ColumnRole{
					acctVal, date, details, unknown, unknown, unknown, unknown, unknown,
					unknown, unknown, details, acctNo, credit, debit, amount, balance,
				},
			},
		},
		Layouts: []Layout{
			{Roles: []model.ColumnRole{date, details, empty, amount, balance}},
		},
		Headerless: []model.ColumnRole{date, details, empty, amount, balance},
		Rules:      Rules{Description: DescribeLongest, Amount: AmountFirstSigned},
		Drop:       isInternalTransfer,
	},
	model.BankASB: {
		Literals: []Literal{
			{Line: "Date,Unique Id,Tran Type,Cheque Number,Payee,Memo,Amount"},
		},
		Rules: genericRules,
		Drop:  isInternalTransfer,
	},
	model.BankANZ: {
		Literals: []Literal{
			{Line: "Type,Details,Particulars,Code,Reference,Amount,Date,ForeignCurrencyAmount,ConversionCharge"},
		},
		Layouts: []Layout{
			{Roles: []model.ColumnRole{unknown, details, details, unknown, unknown, amount, date, unknown, unknown}},
		},
		Rules: genericRules,
	},
	model.BankBNZ: {
		Literals: []Literal{
			{Line: "Date,Amount,Payee,Particulars,Code,Reference,Tran Type,This Party Account,Other Party Account,Serial,Transaction Code,Batch Number,Originating Bank/Branch,Processed Date"},
		},
		Rules: genericRules,
	},
	model.BankWestpac: {
		Literals: []Literal{
			{
				Line:        "Date,Amount,Other Party,Description,Reference,Particulars,Analysis Code",
				DataColumns: westpacData,
			},
		},
		Layouts: []Layout{
			{Roles: []model.ColumnRole{date, amount, details, details, unknown, details, unknown}, DataColumns: westpacData},
		},
		Rules: Rules{Description: DescribeOtherParty, Amount: AmountDebitCredit, OtherPartyCol: 2, DescriptionCol: 3},
	},
}

// Westpac's particulars repeat the other party, so only two columns describe the row.
var westpacData = []model.ColumnRole{date, amount, details, details, unknown, unknown, unknown}

// literals indexes every Literal line; built once, read-only afterwards.
var literals = buildLiterals()

type literalHit struct {
	bank    model.Bank
	literal Literal
}

func buildLiterals() map[string]literalHit {
	m := make(map[string]literalHit)
	for _, bank := range model.KnownBanks {
		for _, l := range formats[bank].Literals {
			m[strings.TrimSpace(l.Line)] = literalHit{bank: bank, literal: l}
		}
	}
	return m
}

// FormatOf returns the format for bank; ok is false for BankUnknown.
func FormatOf(bank model.Bank) (Format, bool) {
	f, ok := formats[bank]
	return f, ok
}

// RulesFor returns how rows should be read for ident. Unrecognised files use
// the generic rules.
func RulesFor(ident model.Identification) Rules {
	if ident.Source == model.SourceNone {
		return genericRules
	}
	f, ok := formats[ident.Bank]
	if !ok {
		return genericRules
	}
	return f.Rules
}

func isInternalTransfer(tx model.Transaction) bool {
	return strings.HasPrefix(tx.Description, "TRANSFER TO") ||
		strings.HasPrefix(tx.Description, "TRANSFER FROM")
}
