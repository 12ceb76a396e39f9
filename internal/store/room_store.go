package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/staycheck/internal/domain"
)

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) Create(ctx context.Context, propertyID int64, name string, roomType domain.RoomType) (*domain.Room, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (property_id, name, room_type) VALUES (?, ?, ?)
	`, propertyID, name, string(roomType))
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *RoomStore) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	r := &domain.Room{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, property_id, name, room_type FROM rooms WHERE id = ?
	`, id).Scan(&r.ID, &r.PropertyID, &r.Name, &r.RoomType)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return r, nil
}

func (s *RoomStore) ListByPropertyID(ctx context.Context, propertyID int64) ([]*domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, name, room_type FROM rooms
		WHERE property_id = ? ORDER BY id ASC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer closeRows(rows)

	rooms := []*domain.Room{}
	for rows.Next() {
		r := &domain.Room{}
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.Name, &r.RoomType); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}
