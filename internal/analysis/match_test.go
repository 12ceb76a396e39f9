package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/staycheck/internal/domain"
)

func item(id int64, name string, cost int64) *domain.ChecklistItem {
	return &domain.ChecklistItem{ID: id, RoomID: 1, Name: name, ReplacementCost: decimal.NewFromInt(cost)}
}

func TestMatchChecklistItem(t *testing.T) {
	items := []*domain.ChecklistItem{
		item(1, "Towel", 15),
		item(2, "Bath Towel", 25),
		item(3, "Lamp", 40),
		item(4, "Desk Lamp", 60),
		item(5, "Reading Lamp", 70),
		item(6, "Table Lamp", 80),
		item(7, "Hair Dryer", 30),
	}

	tests := []struct {
		name      string
		label     string
		wantID    int64
		wantBasis MatchBasis
	}{
		{name: "exact case-insensitive", label: "towel", wantID: 1, wantBasis: MatchExact},
		{name: "exact beats longer substring", label: "LAMP", wantID: 3, wantBasis: MatchExact},
		{name: "label contains item name, longest wins", label: "large bath towel", wantID: 2, wantBasis: MatchSubstring},
		{name: "item name contains label", label: "dryer", wantID: 7, wantBasis: MatchSubstring},
		{name: "longest contained name wins", label: "the reading lamp and table lamp", wantID: 5, wantBasis: MatchSubstring},
		{name: "no match", label: "coffee maker", wantBasis: MatchNone},
		{name: "blank label", label: "   ", wantBasis: MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MatchChecklistItem(tt.label, items)
			assert.Equal(t, tt.wantBasis, m.Basis)
			if tt.wantID == 0 {
				assert.Nil(t, m.Item)
				return
			}
			if assert.NotNil(t, m.Item) {
				assert.Equal(t, tt.wantID, m.Item.ID)
			}
		})
	}
}

func TestMatchChecklistItemDeterministic(t *testing.T) {
	items := []*domain.ChecklistItem{
		item(9, "Wine Glass", 8),
		item(3, "Glass", 5),
		item(4, "Champagne Glass", 12),
	}

	first := MatchChecklistItem("broken champagne glass", items)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, MatchChecklistItem("broken champagne glass", items))
	}
	assert.Equal(t, int64(4), first.Item.ID)
}

func TestMatchChecklistItemExactTieLowestID(t *testing.T) {
	items := []*domain.ChecklistItem{item(8, "Pillow", 20), item(2, "pillow", 10)}

	m := MatchChecklistItem("Pillow", items)
	assert.Equal(t, MatchExact, m.Basis)
	assert.Equal(t, int64(2), m.Item.ID)
}

func TestMatchChecklistItemSubstringTieLowestID(t *testing.T) {
	items := []*domain.ChecklistItem{item(5, "Red Mug", 6), item(3, "Big Mug", 6)}

	m := MatchChecklistItem("red mug next to big mug", items)
	assert.Equal(t, MatchSubstring, m.Basis)
	assert.Equal(t, int64(3), m.Item.ID)
}

func TestMatchChecklistItemSkipsBlankNames(t *testing.T) {
	items := []*domain.ChecklistItem{item(1, "", 99)}

	m := MatchChecklistItem("remote", items)
	assert.Equal(t, MatchNone, m.Basis)
}
