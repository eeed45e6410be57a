package headers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
)

func rows(lines ...string) []tabular.Row {
	out := make([]tabular.Row, len(lines))
	for i, l := range lines {
		out[i] = tabular.NewRow(strings.Split(l, ","), i+1, l)
	}
	return out
}

func TestClassify_Exact(t *testing.T) {
	m := Default()
	tests := []struct {
		text string
		want model.ColumnRole
	}{
		{"Date", model.RoleDate},
		{"Transaction Date", model.RoleDate},
		{"Date Transaction", model.RoleDate},
		{"Processed Date", model.RoleDate},
		{"Amount", model.RoleAmount},
		{"Amount (NZD)", model.RoleAmount},
		{"Debit", model.RoleDebit},
		{"Credit", model.RoleCredit},
		{"Details", model.RoleDetails},
		{"Description", model.RoleDetails},
		{"Payee", model.RoleDetails},
		{"Memo", model.RoleDetails},
		{"Other Party", model.RoleDetails},
		{"Memo/Description", model.RoleDetails},
		{"Balance", model.RoleBalance},
		{"Account Number", model.RoleAccountNumber},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := m.Classify(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Role)
			assert.Zero(t, got.Confidence)
		})
	}
}

func TestClassify_Typos(t *testing.T) {
	m := Default()
	tests := []struct {
		text string
		want model.ColumnRole
	}{
		{"Descripton", model.RoleDetails},
		{"Ammount", model.RoleAmount},
		{" DATE ", model.RoleDate},
		{"Balance.", model.RoleBalance},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := m.Classify(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Role)
			assert.Less(t, got.Confidence, AcceptThreshold)
		})
	}
}

func TestClassify_NoMatch(t *testing.T) {
	m := Default()
	for _, text := range []string{"", "   ", "12345", "qqqq xxxx", "Zzzzqqq"} {
		_, ok := m.Classify(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestClassify_AccountNumber(t *testing.T) {
	m := Default()
	for _, text := range []string{
		"12-3456-0123456-00",
		"Account 38-9000-0123456-001",
		"01 0123 0123456 00",
		"02.0123.0123456.000",
		"03_1234_1234567_12",
		"06–0123–0123456–00",
	} {
		got, ok := m.Classify(text)
		require.True(t, ok, "text %q", text)
		assert.Equal(t, model.RoleAccountNumberData, got.Role)
		assert.Equal(t, 1.0, got.Confidence)
		assert.NotEmpty(t, got.Account)
	}

	got, _ := m.Classify("Account 38-9000-0123456-001")
	assert.Equal(t, "38-9000-0123456-001", got.Account)
}

func TestClassify_Idempotent(t *testing.T) {
	m := Default()
	for _, text := range []string{"Date", "Descripton", "Other Party", "Unique Id", "nonsense"} {
		a, okA := m.Classify(text)
		b, okB := m.Classify(text)
		assert.Equal(t, okA, okB)
		assert.Equal(t, a, b)
	}
}

func TestClassify_ConcurrentUse(t *testing.T) {
	m := Default()
	done := make(chan model.ColumnRole, 8)
	for range 8 {
		go func() {
			got, _ := m.Classify("Transaction Date")
			done <- got.Role
		}()
	}
	for range 8 {
		assert.Equal(t, model.RoleDate, <-done)
	}
}

func TestNewMatcher_CustomVocabulary(t *testing.T) {
	m := NewMatcher([]Entry{
		{model.RoleDate, []string{"when", "when posted"}},
		{model.RoleDetails, []string{"what"}},
	})

	got, ok := m.Classify("Posted When")
	require.True(t, ok)
	assert.Equal(t, model.RoleDate, got.Role)
	assert.Equal(t, "posted when", got.Phrase)

	_, ok = m.Classify("Amount")
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	assert.Zero(t, Distance("", ""))
	assert.Zero(t, Distance("date", "date"))
	assert.Equal(t, 1.0, Distance("abc", "xyz"))
	assert.InDelta(t, 0.25, Distance("date", "data"), 1e-9)
}

func TestScan(t *testing.T) {
	m := Default()
	meta := m.Scan(rows("Date,,1234,Payee,Amount,12-3456-0123456-00,Reference")[0].Cells)

	require.Len(t, meta.Headers, 7)
	assert.Equal(t, []model.ColumnRole{
		model.RoleDate, model.RoleEmpty, model.RoleUnknown, model.RoleDetails,
		model.RoleAmount, model.RoleAccountNumberData, model.RoleUnknown,
	}, meta.Roles())
	assert.Zero(t, meta.Headers[1].Confidence)
	assert.Equal(t, 1.0, meta.Headers[2].Confidence)
	assert.Equal(t, "Payee", meta.Headers[3].RawText)
	assert.Equal(t, "12-3456-0123456-00", meta.AccountID)
	assert.True(t, Valid(meta))
}

func TestValid(t *testing.T) {
	m := Default()
	tests := []struct {
		header string
		want   bool
	}{
		{"Date,Details,Amount", true},
		{"Date,Details,Debit", true},
		{"Date,Details,Credit", true},
		{"Details,Amount", false},
		{"Date,Amount", false},
		{"Date,Details,Balance", false},
		{"", false},
	}
	for _, tt := range tests {
		meta := m.Scan(rows(tt.header)[0].Cells)
		assert.Equal(t, tt.want, Valid(meta), "header %q", tt.header)
	}
}

func TestLocate_FirstRow(t *testing.T) {
	meta, err := Default().Locate(rows("Date,Details,Amount", "01/03/2024,Coffee,-4.50"))
	require.NoError(t, err)
	assert.Equal(t, 0, meta.Row)
	assert.Empty(t, meta.AccountID)
}

func TestLocate_DisclaimersAndBanner(t *testing.T) {
	meta, err := Default().Locate(rows(
		"This statement is provided for information only",
		"Balances may not include pending items",
		"Please check your statement carefully",
		"12-3456-0123456-00",
		"Date,Details,Debit,Credit,Balance",
		"05/03/2024,Power bill,50.00,,950.00",
	))
	require.NoError(t, err)
	assert.Equal(t, 4, meta.Row)
	assert.Equal(t, "12-3456-0123456-00", meta.AccountID)
}

func TestLocate_BannerWithEmptyCells(t *testing.T) {
	meta, err := Default().Locate(rows("38-9000-0123456-01,,,", "Date,Description,,Amount,Balance"))
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Row)
	assert.Equal(t, "38-9000-0123456-01", meta.AccountID)
}

func garbage(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "qqq,xxx,zzz"
	}
	return out
}

func TestLocate_DepthBound(t *testing.T) {
	m := Default()

	// Header as the tenth candidate is still found.
	meta, err := m.Locate(rows(append(garbage(9), "Date,Details,Amount")...))
	require.NoError(t, err)
	assert.Equal(t, 9, meta.Row)

	// As the eleventh it is not.
	_, err = m.Locate(rows(append(garbage(10), "Date,Details,Amount")...))
	require.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestLocate_FiftyGarbageRows(t *testing.T) {
	_, err := Default().Locate(rows(append(garbage(50), "Date,Details,Amount")...))
	require.ErrorIs(t, err, ErrHeaderNotFound)

	var nf *HeaderNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, MaxDepth, nf.Attempts)
	assert.Contains(t, err.Error(), "after 10 attempts")
}

func TestLocate_BannersDoNotUseAttempts(t *testing.T) {
	lines := append(garbage(9), "12-3456-0123456-00", "12-3456-0123456-01", "Date,Details,Amount")
	meta, err := Default().Locate(rows(lines...))
	require.NoError(t, err)
	assert.Equal(t, 11, meta.Row)
	assert.Equal(t, "12-3456-0123456-01", meta.AccountID)
}

func TestLocate_Exhausted(t *testing.T) {
	_, err := Default().Locate(nil)
	require.ErrorIs(t, err, ErrHeaderNotFound)

	_, err = Default().Locate(rows("12-3456-0123456-00", "qqq,xxx"))
	var nf *HeaderNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 1, nf.Attempts)
	assert.Equal(t, 1, nf.Banners)
	assert.Equal(t, "12-3456-0123456-00", nf.Account)
}

func TestBanner(t *testing.T) {
	acct, ok := Banner(rows("12-3456-0123456-00")[0].Cells)
	assert.True(t, ok)
	assert.Equal(t, "12-3456-0123456-00", acct)

	_, ok = Banner(rows("Account 12-3456-0123456-00")[0].Cells)
	assert.False(t, ok)
	_, ok = Banner(rows("12-3456-0123456-00,Everyday")[0].Cells)
	assert.False(t, ok)
	_, ok = Banner(rows(",,")[0].Cells)
	assert.False(t, ok)
}
