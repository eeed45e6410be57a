package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidRoles(t *testing.T) {
	tests := []struct {
		name  string
		roles []ColumnRole
		want  bool
	}{
		{"date amount details", []ColumnRole{RoleDate, RoleAmount, RoleDetails}, true},
		{"date debit details", []ColumnRole{RoleDetails, RoleDebit, RoleDate}, true},
		{"date credit details", []ColumnRole{RoleDate, RoleCredit, RoleUnknown, RoleDetails}, true},
		{"extras ignored", []ColumnRole{RoleEmpty, RoleDate, RoleDetails, RoleAmount, RoleBalance, RoleAccountNumber}, true},
		{"missing date", []ColumnRole{RoleAmount, RoleDetails}, false},
		{"missing money", []ColumnRole{RoleDate, RoleDetails, RoleBalance}, false},
		{"missing details", []ColumnRole{RoleDate, RoleDebit, RoleCredit}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidRoles(tt.roles))
		})
	}
}

func TestParsingMetaValid(t *testing.T) {
	meta := ParsingMeta{Headers: []HeaderClassification{
		{Role: RoleDate, RawText: "Date"},
		{Role: RoleDetails, RawText: "Description"},
		{Role: RoleAmount, RawText: "Amount"},
	}}
	assert.True(t, meta.Valid())
	assert.Equal(t, []ColumnRole{RoleDate, RoleDetails, RoleAmount}, meta.Roles())

	meta.Headers = meta.Headers[:2]
	assert.False(t, meta.Valid())
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionDebit, DirectionOf(decimal.RequireFromString("-0.01")))
	assert.Equal(t, DirectionCredit, DirectionOf(decimal.RequireFromString("23.40")))
}

func TestParseBank(t *testing.T) {
	assert.Equal(t, BankKiwibank, ParseBank("Kiwibank"))
	assert.Equal(t, BankASB, ParseBank(" asb "))
	assert.Equal(t, BankUnknown, ParseBank("monzo"))
	assert.Equal(t, BankUnknown, ParseBank(""))
}

func TestTransactionHash_IgnoresID(t *testing.T) {
	a := Transaction{
		ID:          "tx_a",
		Description: "COUNTDOWN",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-45.5"),
	}
	b := a
	b.ID = "tx_b"
	assert.Equal(t, a.Hash(), b.Hash())

	b.Amount = decimal.RequireFromString("-45.51")
	assert.NotEqual(t, a.Hash(), b.Hash())
}
