package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/staycheck/internal/domain"
)

type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) Create(ctx context.Context, name string, address *string) (*domain.Property, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (name, address, created_at) VALUES (?, ?, ?)
	`, name, address, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PropertyStore) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	p := &domain.Property{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, created_at FROM properties WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return p, nil
}

func (s *PropertyStore) List(ctx context.Context) ([]*domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, created_at FROM properties ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer closeRows(rows)

	properties := []*domain.Property{}
	for rows.Next() {
		p := &domain.Property{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	return properties, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
