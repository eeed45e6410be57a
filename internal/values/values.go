// Package values parses the dates and money amounts found in bank exports.
package values

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// futureSlack absorbs time-zone skew between the bank and this machine.
const futureSlack = 24 * time.Hour

// ParseDate reads s day-first, the NZ convention. A date later than now is
// rejected, except that an ambiguous date whose day-first reading is in the
// future falls back to its month-first reading when that one is in the past.
func ParseDate(s string, now time.Time, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	limit := now.Add(futureSlack)

	t, err := dateparse.ParseIn(s, loc,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, false
	}
	if !t.After(limit) {
		return t, true
	}

	swapped, err := dateparse.ParseIn(s, loc, dateparse.PreferMonthFirst(true))
	if err != nil || swapped.After(limit) {
		return time.Time{}, false
	}
	return swapped, true
}

var amountNoise = strings.NewReplacer("$", "", "NZD", "", ",", "", " ", "", "+", "")

// ParseAmount reads a money value. It accepts currency symbols, thousands
// separators, parenthesised negatives and trailing CR/DR markers.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	switch {
	case strings.HasSuffix(s, "DR"):
		negative = true
		s = strings.TrimSuffix(s, "DR")
	case strings.HasSuffix(s, "CR"):
		s = strings.TrimSuffix(s, "CR")
	}

	s = amountNoise.Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Abs().Neg()
	}
	return d, true
}
