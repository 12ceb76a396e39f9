package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/vbonduro/staycheck/internal/domain"
)

// MatchBasis records how a checklist item was chosen.
type MatchBasis string

const (
	MatchNone      MatchBasis = "none"
	MatchExact     MatchBasis = "exact"
	MatchSubstring MatchBasis = "substring"
)

type Match struct {
	Item  *domain.ChecklistItem
	Basis MatchBasis
}

// MatchChecklistItem resolves a missing-item label against a room's checklist.
// A case-insensitive exact name wins; otherwise the longest item name that
// contains or is contained in the label, ties going to the lowest item id.
func MatchChecklistItem(label string, items []*domain.ChecklistItem) Match {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return Match{Basis: MatchNone}
	}

	var exact *domain.ChecklistItem
	for _, it := range items {
		if it == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(it.Name)) == needle {
			if exact == nil || it.ID < exact.ID {
				exact = it
			}
		}
	}
	if exact != nil {
		return Match{Item: exact, Basis: MatchExact}
	}

	var best *domain.ChecklistItem
	bestLen := 0
	for _, it := range items {
		if it == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(it.Name))
		if name == "" {
			continue
		}
		if !strings.Contains(needle, name) && !strings.Contains(name, needle) {
			continue
		}
		n := utf8.RuneCountInString(name)
		if best == nil || n > bestLen || (n == bestLen && it.ID < best.ID) {
			best = it
			bestLen = n
		}
	}
	if best != nil {
		return Match{Item: best, Basis: MatchSubstring}
	}
	return Match{Basis: MatchNone}
}
