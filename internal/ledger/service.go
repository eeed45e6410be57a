package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/statementlens/statementlens/internal/model"
)

// Service appends imported transactions to the monthly ledger files.
type Service struct {
	root string
}

// NewService creates a ledger Service rooted at dir.
func NewService(dir string) *Service {
	return &Service{root: dir}
}

// AppendResult counts what Append did.
type AppendResult struct {
	Added      int
	Duplicates int
	Months     []string // "YYYY-MM" of every month written
}

type monthKey struct{ year, month int }

// Append writes txns into their months' files, skipping any transaction
// already recorded. Every month is checked and validated before any file is
// written, so a validation failure leaves the ledger untouched.
//
// Duplicates are counted per occurrence: a file holding two identical rows
// adds both the first time and reports both as duplicates when re-imported.
func (s *Service) Append(txns []model.Transaction) (AppendResult, error) {
	var res AppendResult

	byMonth := make(map[monthKey][]model.Transaction)
	var keys []monthKey
	for _, tx := range txns {
		k := monthKey{tx.Date.Year(), int(tx.Date.Month())}
		if _, ok := byMonth[k]; !ok {
			keys = append(keys, k)
		}
		byMonth[k] = append(byMonth[k], tx)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	plans := make([]monthPlan, 0, len(keys))
	for _, k := range keys {
		plan, err := s.planMonth(k, byMonth[k])
		if err != nil {
			return AppendResult{}, err
		}
		plans = append(plans, plan)
	}

	for _, plan := range plans {
		res.Duplicates += plan.dups
		if len(plan.fresh) == 0 {
			continue
		}
		if err := s.writeMonth(plan); err != nil {
			return res, err
		}
		res.Added += len(plan.fresh)
		res.Months = append(res.Months, fmt.Sprintf("%04d-%02d", plan.key.year, plan.key.month))
	}
	return res, nil
}

// monthPlan is what Append will write to one month's file.
type monthPlan struct {
	key   monthKey
	fresh []model.Transaction
	dups  int
}

func (s *Service) planMonth(k monthKey, txns []model.Transaction) (monthPlan, error) {
	plan := monthPlan{key: k}

	existing, err := s.ReadMonth(k.year, k.month)
	if err != nil {
		return plan, err
	}

	recorded := make(map[string]int, len(existing))
	for _, tx := range existing {
		recorded[tx.Hash()]++
	}
	for _, tx := range txns {
		h := tx.Hash()
		if recorded[h] > 0 {
			recorded[h]--
			plan.dups++
			continue
		}
		plan.fresh = append(plan.fresh, tx)
	}

	if verrs := Validate(plan.fresh, k.year, k.month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return plan, fmt.Errorf("validation failed for %04d-%02d: %s", k.year, k.month, strings.Join(msgs, "; "))
	}
	return plan, nil
}

func (s *Service) writeMonth(plan monthPlan) error {
	path := s.monthPath(plan.key.year, plan.key.month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendTransactions(f, plan.fresh); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

// ReadMonth reads all transactions recorded for year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "transactions.csv")
}
