package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/staycheck/internal/analysis"
	"github.com/vbonduro/staycheck/internal/domain"
	"github.com/vbonduro/staycheck/internal/photostore"
	"github.com/vbonduro/staycheck/internal/report"
	"github.com/vbonduro/staycheck/internal/store"
	"github.com/vbonduro/staycheck/internal/vision"
)

// propertyRepository is the subset of store.PropertyStore the services require.
type propertyRepository interface {
	Create(ctx context.Context, name string, address *string) (*domain.Property, error)
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	List(ctx context.Context) ([]*domain.Property, error)
}

type roomRepository interface {
	Create(ctx context.Context, propertyID int64, name string, roomType domain.RoomType) (*domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListByPropertyID(ctx context.Context, propertyID int64) ([]*domain.Room, error)
}

type checkRepository interface {
	Create(ctx context.Context, propertyID int64, checkType domain.CheckType, guestName *string, createdAt time.Time) (*domain.Check, error)
	GetByID(ctx context.Context, id int64) (*domain.Check, error)
	ListByPropertyID(ctx context.Context, propertyID int64) ([]*domain.Check, error)
}

type checklistRepository interface {
	Create(ctx context.Context, roomID int64, name string, cost decimal.Decimal) (*domain.ChecklistItem, error)
	GetByID(ctx context.Context, id int64) (*domain.ChecklistItem, error)
	ListByRoomID(ctx context.Context, roomID int64) ([]*domain.ChecklistItem, error)
	Update(ctx context.Context, id int64, name string, cost decimal.Decimal) error
}

type photoRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Photo, error)
	ListByCheckID(ctx context.Context, checkID int64) ([]*domain.Photo, error)
}

// issueRepository is the subset of store.IssueStore that InspectionService requires.
type issueRepository interface {
	CreateBatch(ctx context.Context, b store.IssueBatch) (*domain.Photo, []*domain.Issue, error)
	ListByCheckID(ctx context.Context, checkID int64) ([]*domain.Issue, error)
	ListCostHistory(ctx context.Context, propertyID int64) ([]*domain.CostEntry, error)
}

// InspectionService turns room photos into issues and reconciles them into
// damage reports.
type InspectionService struct {
	properties propertyRepository
	rooms      roomRepository
	checks     checkRepository
	checklist  checklistRepository
	photos     photoRepository
	issues     issueRepository
	visionAPI  vision.VisionAnalyzer
	photoStg   photostore.PhotoStore
	synth      *analysis.Synthesizer
	logger     *slog.Logger

	analysisTimeout time.Duration
}

func NewInspectionService(
	properties propertyRepository,
	rooms roomRepository,
	checks checkRepository,
	checklist checklistRepository,
	photos photoRepository,
	issues issueRepository,
	visionAPI vision.VisionAnalyzer,
	photoStg photostore.PhotoStore,
	synth *analysis.Synthesizer,
	logger *slog.Logger,
) *InspectionService {
	return &InspectionService{
		properties: properties,
		rooms:      rooms,
		checks:     checks,
		checklist:  checklist,
		photos:     photos,
		issues:     issues,
		visionAPI:  visionAPI,
		photoStg:   photoStg,
		synth:      synth,
		logger:     logger,
	}
}

// SetAnalysisTimeout bounds each vision call. Zero means no limit beyond the
// caller's context.
func (s *InspectionService) SetAnalysisTimeout(d time.Duration) {
	s.analysisTimeout = d
}

// SynthesisResult is what one photo's analysis produced.
type SynthesisResult struct {
	Photo         *domain.Photo
	Analysis      *analysis.Analysis
	IssuesCreated int
	Issues        []*domain.Issue
}

// SynthesizeIssuesFromPhoto turns a raw analysis payload for a check's room
// into persisted issues. All issues are written in one batch or none are.
func (s *InspectionService) SynthesizeIssuesFromPhoto(ctx context.Context, checkID, roomID int64, payload map[string]any) (*SynthesisResult, error) {
	s.logger.Info("synthesize issues started", "check_id", checkID, "room_id", roomID)

	check, _, err := s.resolveCheckRoom(ctx, checkID, roomID)
	if err != nil {
		return nil, err
	}

	a, err := analysis.Normalize(payload)
	if err != nil {
		s.logger.Warn("analysis payload rejected", "check_id", checkID, "room_id", roomID, "error", err)
		return nil, err
	}

	items, err := s.checklist.ListByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}

	drafts := s.synth.Synthesize(check.ID, a, items)
	_, issues, err := s.issues.CreateBatch(ctx, store.IssueBatch{CheckID: check.ID, Issues: drafts})
	if err != nil {
		return nil, fmt.Errorf("failed to store issues: %w", err)
	}

	s.logger.Info("synthesize issues complete", "check_id", checkID, "room_id", roomID, "issues_created", len(issues))
	return &SynthesisResult{Analysis: a, IssuesCreated: len(issues), Issues: issues}, nil
}

// UploadPhoto stores the image, analyzes it once, and records the photo with
// its issues. Any failure before the batch commits leaves no photo row, no
// issues and no stored file.
func (s *InspectionService) UploadPhoto(ctx context.Context, checkID, roomID int64, imageData []byte, mimeType string) (*SynthesisResult, error) {
	s.logger.Info("upload photo started", "check_id", checkID, "room_id", roomID, "mime_type", mimeType, "bytes", len(imageData))

	check, room, err := s.resolveCheckRoom(ctx, checkID, roomID)
	if err != nil {
		return nil, err
	}
	if s.visionAPI == nil {
		return nil, fmt.Errorf("%w: no vision backend configured", domain.ErrAnalysisUnavailable)
	}

	items, err := s.checklist.ListByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}

	storageKey, err := s.photoStg.Save(ctx, fmt.Sprintf("check_%d/room_%d", checkID, roomID), mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	s.logger.Debug("photo saved", "check_id", checkID, "room_id", roomID, "storage_key", storageKey)

	result, err := s.analyze(ctx, room, items, imageData, mimeType)
	if err != nil {
		s.discard(ctx, storageKey)
		return nil, err
	}

	a, err := analysis.Normalize(result.Payload)
	if err != nil {
		s.logger.Warn("analysis payload rejected", "check_id", checkID, "room_id", roomID, "error", err)
		s.discard(ctx, storageKey)
		return nil, err
	}

	raw, err := json.Marshal(result.Payload)
	if err != nil {
		s.discard(ctx, storageKey)
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	rawText := string(raw)

	drafts := s.synth.Synthesize(check.ID, a, items)
	photo, issues, err := s.issues.CreateBatch(ctx, store.IssueBatch{
		CheckID: check.ID,
		Photo: &domain.Photo{
			RoomID:         room.ID,
			StorageKey:     storageKey,
			MimeType:       mimeType,
			AnalysisResult: &rawText,
		},
		Issues: drafts,
	})
	if err != nil {
		s.discard(ctx, storageKey)
		return nil, fmt.Errorf("failed to store photo analysis: %w", err)
	}

	s.logger.Info("upload photo complete", "check_id", checkID, "room_id", roomID, "photo_id", photo.ID, "issues_created", len(issues))
	return &SynthesisResult{Photo: photo, Analysis: a, IssuesCreated: len(issues), Issues: issues}, nil
}

func (s *InspectionService) analyze(ctx context.Context, room *domain.Room, items []*domain.ChecklistItem, imageData []byte, mimeType string) (*vision.AnalysisResult, error) {
	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	req := vision.Request{RoomName: room.Name, ExpectedItems: make([]string, 0, len(items))}
	for _, it := range items {
		req.ExpectedItems = append(req.ExpectedItems, it.Name)
	}

	s.logger.Info("vision analysis started", "room_id", room.ID)
	result, err := s.visionAPI.Analyze(ctx, bytes.NewReader(imageData), mimeType, req)
	if err != nil {
		s.logger.Error("vision analysis failed", "room_id", room.ID, "error", err)
		if errors.Is(err, vision.ErrMalformedResponse) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAnalysisPayload, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty analysis result", domain.ErrInvalidAnalysisPayload)
	}
	s.logger.Info("vision analysis complete", "room_id", room.ID)
	return result, nil
}

// discard removes a stored file whose photo never made it into the database.
func (s *InspectionService) discard(ctx context.Context, storageKey string) {
	if err := s.photoStg.Delete(context.WithoutCancel(ctx), storageKey); err != nil {
		s.logger.Error("failed to remove orphaned photo file", "storage_key", storageKey, "error", err)
	}
}

// resolveCheckRoom loads the check and room and verifies they share a property.
func (s *InspectionService) resolveCheckRoom(ctx context.Context, checkID, roomID int64) (*domain.Check, *domain.Room, error) {
	check, err := s.checks.GetByID(ctx, checkID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get check: %w", err)
	}
	if check == nil {
		return nil, nil, fmt.Errorf("%w: check %d does not exist", domain.ErrUnknownRoomOrCheck, checkID)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, nil, fmt.Errorf("%w: room %d does not exist", domain.ErrUnknownRoomOrCheck, roomID)
	}
	if room.PropertyID != check.PropertyID {
		return nil, nil, fmt.Errorf("%w: room %d is not part of check %d's property", domain.ErrUnknownRoomOrCheck, roomID, checkID)
	}
	return check, room, nil
}

// CompileDamageReport reconciles a check-in/check-out pair. It only reads.
func (s *InspectionService) CompileDamageReport(ctx context.Context, propertyID, checkinID, checkoutID int64) (*domain.DamageReport, error) {
	in := report.Input{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.properties.GetByID(gctx, propertyID)
		if err != nil {
			return fmt.Errorf("failed to get property: %w", err)
		}
		in.Property = p
		return nil
	})
	g.Go(func() error {
		c, err := s.checks.GetByID(gctx, checkinID)
		if err != nil {
			return fmt.Errorf("failed to get checkin: %w", err)
		}
		in.Checkin = c
		return nil
	})
	g.Go(func() error {
		c, err := s.checks.GetByID(gctx, checkoutID)
		if err != nil {
			return fmt.Errorf("failed to get checkout: %w", err)
		}
		in.Checkout = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if in.Property == nil {
		return nil, fmt.Errorf("%w: property %d", domain.ErrNotFound, propertyID)
	}
	if err := report.ValidatePairing(propertyID, in.Checkin, in.Checkout); err != nil {
		return nil, err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		issues, err := s.issues.ListByCheckID(gctx, checkoutID)
		if err != nil {
			return fmt.Errorf("failed to list checkout issues: %w", err)
		}
		in.CheckoutIssues = issues
		return nil
	})
	g.Go(func() error {
		photos, err := s.photos.ListByCheckID(gctx, checkinID)
		if err != nil {
			return fmt.Errorf("failed to list checkin photos: %w", err)
		}
		in.CheckinPhotos = photos
		return nil
	})
	g.Go(func() error {
		photos, err := s.photos.ListByCheckID(gctx, checkoutID)
		if err != nil {
			return fmt.Errorf("failed to list checkout photos: %w", err)
		}
		in.CheckoutPhotos = photos
		return nil
	})
	g.Go(func() error {
		rooms, err := s.rooms.ListByPropertyID(gctx, propertyID)
		if err != nil {
			return fmt.Errorf("failed to list rooms: %w", err)
		}
		in.Rooms = make(map[int64]*domain.Room, len(rooms))
		for _, r := range rooms {
			in.Rooms[r.ID] = r
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep, err := report.Compile(in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("damage report compiled", "property_id", propertyID, "checkin_id", checkinID, "checkout_id", checkoutID,
		"issues", len(rep.Issues), "total", rep.TotalEstimatedCost.StringFixed(2))
	return rep, nil
}

// CostHistory is a property's issues across all checks with their sum.
type CostHistory struct {
	Entries []*domain.CostEntry
	Total   decimal.Decimal
}

func (s *InspectionService) CostHistory(ctx context.Context, propertyID int64) (*CostHistory, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: property %d", domain.ErrNotFound, propertyID)
	}

	entries, err := s.issues.ListCostHistory(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Issue.EstimatedCost)
	}
	return &CostHistory{Entries: entries, Total: total}, nil
}

func (s *InspectionService) ListIssues(ctx context.Context, checkID int64) ([]*domain.Issue, error) {
	check, err := s.checks.GetByID(ctx, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get check: %w", err)
	}
	if check == nil {
		return nil, fmt.Errorf("%w: check %d", domain.ErrNotFound, checkID)
	}
	return s.issues.ListByCheckID(ctx, checkID)
}

// PhotoImage is an open handle on a stored photo. The caller closes Body.
type PhotoImage struct {
	Body     io.ReadCloser
	MimeType string
}

func (s *InspectionService) GetPhotoImage(ctx context.Context, photoID int64) (*PhotoImage, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: photo %d", domain.ErrNotFound, photoID)
	}

	body, _, err := s.photoStg.Get(ctx, photo.StorageKey)
	if err != nil {
		if errors.Is(err, photostore.ErrNotFound) {
			return nil, fmt.Errorf("%w: image for photo %d", domain.ErrNotFound, photoID)
		}
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	return &PhotoImage{Body: body, MimeType: photo.MimeType}, nil
}
