package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/staycheck/internal/domain"
)

type CheckStore struct {
	db *sql.DB
}

func NewCheckStore(db *sql.DB) *CheckStore {
	return &CheckStore{db: db}
}

func (s *CheckStore) Create(ctx context.Context, propertyID int64, checkType domain.CheckType, guestName *string, createdAt time.Time) (*domain.Check, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO checks (property_id, check_type, guest_name, created_at) VALUES (?, ?, ?, ?)
	`, propertyID, string(checkType), guestName, createdAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create check: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *CheckStore) GetByID(ctx context.Context, id int64) (*domain.Check, error) {
	c := &domain.Check{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, property_id, check_type, guest_name, created_at FROM checks WHERE id = ?
	`, id).Scan(&c.ID, &c.PropertyID, &c.CheckType, &c.GuestName, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check: %w", err)
	}

	return c, nil
}

// ListByPropertyID returns a property's checks, newest first.
func (s *CheckStore) ListByPropertyID(ctx context.Context, propertyID int64) ([]*domain.Check, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, check_type, guest_name, created_at FROM checks
		WHERE property_id = ? ORDER BY created_at DESC, id DESC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer closeRows(rows)

	checks := []*domain.Check{}
	for rows.Next() {
		c := &domain.Check{}
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.CheckType, &c.GuestName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		checks = append(checks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checks: %w", err)
	}

	return checks, nil
}
