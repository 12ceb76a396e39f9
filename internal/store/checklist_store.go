package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/staycheck/internal/domain"
)

type ChecklistStore struct {
	db *sql.DB
}

func NewChecklistStore(db *sql.DB) *ChecklistStore {
	return &ChecklistStore{db: db}
}

func (s *ChecklistStore) Create(ctx context.Context, roomID int64, name string, cost decimal.Decimal) (*domain.ChecklistItem, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (room_id, name, replacement_cost) VALUES (?, ?, ?)
	`, roomID, name, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to create checklist item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ChecklistStore) GetByID(ctx context.Context, id int64) (*domain.ChecklistItem, error) {
	it := &domain.ChecklistItem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, name, replacement_cost FROM checklist_items WHERE id = ?
	`, id).Scan(&it.ID, &it.RoomID, &it.Name, &it.ReplacementCost)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}

	return it, nil
}

// ListByRoomID returns a room's checklist ordered by id.
func (s *ChecklistStore) ListByRoomID(ctx context.Context, roomID int64) ([]*domain.ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, name, replacement_cost FROM checklist_items
		WHERE room_id = ? ORDER BY id ASC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	defer closeRows(rows)

	items := []*domain.ChecklistItem{}
	for rows.Next() {
		it := &domain.ChecklistItem{}
		if err := rows.Scan(&it.ID, &it.RoomID, &it.Name, &it.ReplacementCost); err != nil {
			return nil, fmt.Errorf("failed to scan checklist item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checklist items: %w", err)
	}

	return items, nil
}

func (s *ChecklistStore) Update(ctx context.Context, id int64, name string, cost decimal.Decimal) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE checklist_items SET name = ?, replacement_cost = ? WHERE id = ?
	`, name, cost, id)
	if err != nil {
		return fmt.Errorf("failed to update checklist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("checklist item %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
