package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/staycheck/internal/domain"
)

// PhotoStore reads photo records. Photos are written together with their
// issues by IssueStore.CreateBatch.
type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

const photoColumns = `id, check_id, room_id, storage_key, mime_type, analysis_result, created_at`

func scanPhoto(row interface{ Scan(...any) error }) (*domain.Photo, error) {
	p := &domain.Photo{}
	err := row.Scan(&p.ID, &p.CheckID, &p.RoomID, &p.StorageKey, &p.MimeType, &p.AnalysisResult, &p.CreatedAt)
	return p, err
}

func (s *PhotoStore) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	photo, err := scanPhoto(s.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

// ListByCheckID returns a check's photos ordered by id.
func (s *PhotoStore) ListByCheckID(ctx context.Context, checkID int64) ([]*domain.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE check_id = ? ORDER BY id ASC
	`, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer closeRows(rows)

	photos := []*domain.Photo{}
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}
