package headers

import (
	"github.com/statementlens/statementlens/internal/model"
	"github.com/statementlens/statementlens/internal/tabular"
)

// Scan classifies every cell of a candidate header row.
func (m *Matcher) Scan(cells []tabular.Cell) model.ParsingMeta {
	var meta model.ParsingMeta
	meta.Headers = make([]model.HeaderClassification, 0, len(cells))

	for _, c := range cells {
		h := model.HeaderClassification{RawText: c.Text, Role: model.RoleUnknown}
		switch c.Kind {
		case tabular.KindEmpty:
			h.Role = model.RoleEmpty
		case tabular.KindNumber:
			// The decoder typed this cell, so it cannot be header text.
			h.Confidence = 1
		default:
			if match, ok := m.Classify(c.Text); ok {
				h.Role = match.Role
				h.Confidence = match.Confidence
				if match.Account != "" {
					meta.AccountID = match.Account
				}
			}
		}
		meta.Headers = append(meta.Headers, h)
	}
	return meta
}

// Valid reports whether meta satisfies the header validity predicate.
func Valid(meta model.ParsingMeta) bool {
	return meta.Valid()
}
