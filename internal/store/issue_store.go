package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/staycheck/internal/domain"
)

type IssueStore struct {
	db *sql.DB
}

func NewIssueStore(db *sql.DB) *IssueStore {
	return &IssueStore{db: db}
}

// IssueBatch is the unit of work for one analyzed photo.
type IssueBatch struct {
	CheckID int64
	// Photo is inserted first when set and its ID is attached to every issue.
	Photo  *domain.Photo
	Issues []*domain.Issue
}

// CreateBatch writes the photo (if any) and all issues in one transaction.
// Either everything is committed or nothing is. The returned photo and issues
// are copies carrying their new ids.
func (s *IssueStore) CreateBatch(ctx context.Context, b IssueBatch) (*domain.Photo, []*domain.Issue, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin issue batch: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to roll back issue batch", "check_id", b.CheckID, "error", err)
		}
	}()

	var photo *domain.Photo
	var photoID *int64
	if b.Photo != nil {
		p := *b.Photo
		p.CheckID = b.CheckID
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO photos (check_id, room_id, storage_key, mime_type, analysis_result, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.CheckID, p.RoomID, p.StorageKey, p.MimeType, p.AnalysisResult, p.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create photo: %w", err)
		}
		if p.ID, err = result.LastInsertId(); err != nil {
			return nil, nil, fmt.Errorf("failed to get last insert id: %w", err)
		}
		photo = &p
		photoID = &p.ID
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issues (check_id, photo_id, description, item_name, estimated_cost, severity)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("failed to close statement", "error", err)
		}
	}()

	created := make([]*domain.Issue, 0, len(b.Issues))
	for _, draft := range b.Issues {
		is := *draft
		is.CheckID = b.CheckID
		is.PhotoID = photoID
		result, err := stmt.ExecContext(ctx, is.CheckID, is.PhotoID, is.Description, is.ItemName, is.EstimatedCost, string(is.Severity))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create issue: %w", err)
		}
		if is.ID, err = result.LastInsertId(); err != nil {
			return nil, nil, fmt.Errorf("failed to get last insert id: %w", err)
		}
		created = append(created, &is)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit issue batch: %w", err)
	}

	return photo, created, nil
}

const issueColumns = `i.id, i.check_id, i.photo_id, i.description, i.item_name, i.estimated_cost, i.severity`

// ListByCheckID returns a check's issues ordered by id.
func (s *IssueStore) ListByCheckID(ctx context.Context, checkID int64) ([]*domain.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+issueColumns+` FROM issues i WHERE i.check_id = ? ORDER BY i.id ASC
	`, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer closeRows(rows)

	issues := []*domain.Issue{}
	for rows.Next() {
		is := &domain.Issue{}
		if err := rows.Scan(&is.ID, &is.CheckID, &is.PhotoID, &is.Description, &is.ItemName, &is.EstimatedCost, &is.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, is)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}

	return issues, nil
}

// ListCostHistory returns every issue raised against a property's checks,
// newest check first, then by issue id.
func (s *IssueStore) ListCostHistory(ctx context.Context, propertyID int64) ([]*domain.CostEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+issueColumns+`, c.created_at, c.guest_name
		FROM issues i JOIN checks c ON c.id = i.check_id
		WHERE c.property_id = ?
		ORDER BY c.created_at DESC, c.id DESC, i.id ASC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost history: %w", err)
	}
	defer closeRows(rows)

	entries := []*domain.CostEntry{}
	for rows.Next() {
		is := &domain.Issue{}
		e := &domain.CostEntry{Issue: is}
		if err := rows.Scan(&is.ID, &is.CheckID, &is.PhotoID, &is.Description, &is.ItemName, &is.EstimatedCost, &is.Severity, &e.CheckDate, &e.GuestName); err != nil {
			return nil, fmt.Errorf("failed to scan cost entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost history: %w", err)
	}

	return entries, nil
}
