package importer

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/statementlens/statementlens/internal/banks"
	"github.com/statementlens/statementlens/internal/id"
	"github.com/statementlens/statementlens/internal/model"
)

// OFXParser reads OFX/QFX statements, which carry their own schema.
type OFXParser struct {
	pipeline *Pipeline
}

// NewOFXParser returns an OFX parser; the pipeline supplies the time zone.
func NewOFXParser(p *Pipeline) *OFXParser {
	return &OFXParser{pipeline: p}
}

func (o *OFXParser) Format() string { return "ofx" }

func (o *OFXParser) Extensions() []string { return []string{".ofx", ".qfx"} }

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// clean repairs formatting slips that ofxgo rejects.
func clean(data []byte) string {
	s := strings.TrimLeft(string(data), " \t\r\n")
	s = severityRe.ReplaceAllStringFunc(s, strings.ToUpper)
	return openTagRe.ReplaceAllString(s, "$1>")
}

// Parse returns the bank and card transactions in data. Zero amounts and the
// rows the bank's post-filter removes are dropped as in tabular exports.
func (o *OFXParser) Parse(data []byte, fileIndex int) ([]model.Transaction, error) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader([]byte(clean(data))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX: %w", err)
	}

	loc := pipelineOrDefault(o.pipeline).loc
	var out []model.Transaction
	count, filtered := 0, 0
	add := func(list *ofxgo.TransactionList, account string) {
		if list == nil {
			return
		}
		bank := banks.FromAccountNumber(account)
		for _, t := range list.Transactions {
			tx, ok := convert(t, bank, account, loc)
			switch {
			case !ok:
			case !banks.Keep(tx):
				filtered++
			default:
				tx.ID = id.FormatTransactionID(tx.Date, fileIndex, count)
				out = append(out, tx)
			}
			count++
		}
	}

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		add(stmt.BankTranList, bankAccount(stmt.BankAcctFrom))
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		add(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))
	}

	slog.Debug("Parsed OFX", "file_index", fileIndex, "transactions", len(out), "rows", count, "filtered", filtered)
	return out, nil
}

// bankAccount joins the NZ bank, branch and account parts of an OFX account.
func bankAccount(a ofxgo.BankAcct) string {
	var parts []string
	for _, p := range []ofxgo.String{a.BankID, a.BranchID, a.AcctID} {
		if s := strings.TrimSpace(string(p)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}

func convert(t ofxgo.Transaction, bank model.Bank, account string, loc *time.Location) (model.Transaction, bool) {
	amount, err := decimal.NewFromString(t.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return model.Transaction{}, false
	}

	desc := strings.TrimSpace(string(t.Name))
	if t.Payee != nil && strings.TrimSpace(string(t.Payee.Name)) != "" {
		desc = strings.TrimSpace(string(t.Payee.Name))
	}
	if memo := strings.TrimSpace(string(t.Memo)); utf8.RuneCountInString(memo) > utf8.RuneCountInString(desc) {
		desc = memo
	}
	if desc == "" {
		return model.Transaction{}, false
	}

	posted := t.DtPosted.In(loc)
	return model.Transaction{
		Description: desc,
		Direction:   model.DirectionOf(amount),
		Date:        time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, loc),
		Amount:      amount,
		Bank:        bank,
		Type:        fmt.Sprintf("%v", t.TrnType),
		AccountID:   account,
	}, true
}
