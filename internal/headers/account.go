package headers

import (
	"regexp"
	"strings"

	"github.com/statementlens/statementlens/internal/tabular"
)

// NZ account numbers are bank-branch-account-suffix, e.g. 12-3456-7890123-00.
const accountPattern = `\d{2}[-\x{2013}\x{2014}._ ]\d{4}[-\x{2013}\x{2014}._ ]\d{7}[-\x{2013}\x{2014}._ ]\d{2,3}`

var (
	accountRe     = regexp.MustCompile(accountPattern)
	bareAccountRe = regexp.MustCompile(`^` + accountPattern + `$`)
)

// FindAccountNumber returns the first account number embedded in s.
func FindAccountNumber(s string) (string, bool) {
	m := accountRe.FindString(s)
	return m, m != ""
}

// IsAccountNumber reports whether s, trimmed, is exactly an account number.
func IsAccountNumber(s string) bool {
	return bareAccountRe.MatchString(strings.TrimSpace(s))
}

// Banner reports whether cells form an account-number banner line: exactly
// one non-empty cell holding a bare account number. It returns that number.
func Banner(cells []tabular.Cell) (string, bool) {
	var only string
	filled := 0
	for _, c := range cells {
		if c.Kind == tabular.KindEmpty {
			continue
		}
		filled++
		only = strings.TrimSpace(c.Text)
	}
	if filled != 1 || !IsAccountNumber(only) {
		return "", false
	}
	return only, true
}
