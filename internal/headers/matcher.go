package headers

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/schollz/closestmatch"

	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/textnorm"
)

const (
	// AcceptThreshold is the largest distance (exclusive) accepted as a match.
	AcceptThreshold = 0.5
	// minCandidates guards against single-candidate noise.
	minCandidates = 2
)

// Match is the role chosen for a header text.
type Match struct {
	Role       model.ColumnRole
	Confidence float64 // 0 is an exact match
	Phrase     string  // vocabulary variant that matched
	Account    string  // set for RoleAccountNumberData
}

// Matcher classifies header text against a vocabulary. It is immutable once
// built and safe for concurrent use.
type Matcher struct {
	index *closestmatch.ClosestMatch
	roles map[string]model.ColumnRole
	order map[string]int
}

// NewMatcher builds the fuzzy index for vocab.
func NewMatcher(vocab []Entry) *Matcher {
	m := &Matcher{
		roles: make(map[string]model.ColumnRole),
		order: make(map[string]int),
	}
	var corpus []string
	for _, e := range vocab {
		for _, p := range e.Phrases {
			for _, v := range variants(p) {
				if _, dup := m.roles[v]; dup {
					continue
				}
				m.roles[v] = e.Role
				m.order[v] = len(corpus)
				corpus = append(corpus, v)
			}
		}
	}
	m.index = closestmatch.New(corpus, []int{2, 3})
	return m
}

// Default returns a Matcher over DefaultVocabulary.
func Default() *Matcher {
	return NewMatcher(DefaultVocabulary())
}

// Classify returns the role for header text, or false when nothing matches
// closely enough.
func (m *Matcher) Classify(text string) (Match, bool) {
	if acct, ok := FindAccountNumber(text); ok {
		return Match{Role: model.RoleAccountNumberData, Confidence: 1, Account: acct}, true
	}

	query := textnorm.Normalize(text)
	if query == "" {
		return Match{}, false
	}

	// Ask for every candidate sharing a substring so ranking ties inside the
	// index cannot change the result.
	candidates := m.index.ClosestN(query, len(m.roles))
	if len(candidates) < minCandidates {
		return Match{}, false
	}

	best := ""
	bestScore := 2.0
	for _, c := range candidates {
		s := Distance(query, c)
		if s < bestScore || (s == bestScore && m.order[c] < m.order[best]) {
			best, bestScore = c, s
		}
	}
	if bestScore >= AcceptThreshold {
		return Match{}, false
	}
	return Match{Role: m.roles[best], Confidence: bestScore, Phrase: best}, true
}

// Distance is the edit distance between a and b scaled to 0..1.
func Distance(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
