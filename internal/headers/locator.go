package headers

import (
	"errors"
	"fmt"

	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
)

const (
	// MaxDepth bounds the number of rows tried as a header.
	MaxDepth = 10
	// maxBanners bounds how many banner rows are skipped for free.
	maxBanners = 10
)

// ErrHeaderNotFound is returned when no row within MaxDepth is a valid header.
var ErrHeaderNotFound = errors.New("header row not found")

// HeaderNotFoundError records how far Locate searched.
type HeaderNotFoundError struct {
	Attempts int // rows scanned as candidate headers
	Banners  int // banner rows skipped
	Account  string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("%s after %d attempts (%d banner rows skipped)", ErrHeaderNotFound, e.Attempts, e.Banners)
}

func (e *HeaderNotFoundError) Is(target error) bool {
	return target == ErrHeaderNotFound
}

// Locate walks down rows until one classifies as a valid header. Account
// number banner lines are skipped without using up an attempt, and the last
// banner's number becomes the AccountID when the header itself has none.
func (m *Matcher) Locate(rows []tabular.Row) (model.ParsingMeta, error) {
	var account string
	depth, banners := 0, 0

	for i := 0; i < len(rows) && depth < MaxDepth; i++ {
		if banners < maxBanners {
			if acct, ok := Banner(rows[i].Cells); ok {
				banners++
				account = acct
				continue
			}
		}

		meta := m.Scan(rows[i].Cells)
		if meta.Valid() {
			meta.Row = i
			if meta.AccountID == "" {
				meta.AccountID = account
			}
			return meta, nil
		}
		depth++
	}

	return model.ParsingMeta{}, &HeaderNotFoundError{Attempts: depth, Banners: banners, Account: account}
}
