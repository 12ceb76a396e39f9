package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/staycheck/internal/domain"
)

// PropertyService manages the records a check is taken against: properties,
// their rooms and checklists, and the checks themselves.
type PropertyService struct {
	properties propertyRepository
	rooms      roomRepository
	checklist  checklistRepository
	checks     checkRepository
	logger     *slog.Logger

	now func() time.Time
}

func NewPropertyService(
	properties propertyRepository,
	rooms roomRepository,
	checklist checklistRepository,
	checks checkRepository,
	logger *slog.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		rooms:      rooms,
		checklist:  checklist,
		checks:     checks,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *PropertyService) CreateProperty(ctx context.Context, name string, address *string) (*domain.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: property name is required", domain.ErrInvalidInput)
	}
	p, err := s.properties.Create(ctx, name, address)
	if err != nil {
		return nil, err
	}
	s.logger.Info("property created", "property_id", p.ID)
	return p, nil
}

func (s *PropertyService) ListProperties(ctx context.Context) ([]*domain.Property, error) {
	return s.properties.List(ctx)
}

func (s *PropertyService) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: property %d", domain.ErrNotFound, id)
	}
	return p, nil
}

// CreateRoom adds a room to a property. An empty room type means "other".
func (s *PropertyService) CreateRoom(ctx context.Context, propertyID int64, name string, roomType domain.RoomType) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", domain.ErrInvalidInput)
	}
	if roomType == "" {
		roomType = domain.RoomOther
	}
	if !roomType.Valid() {
		return nil, fmt.Errorf("%w: unknown room type %q", domain.ErrInvalidInput, roomType)
	}
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Create(ctx, propertyID, name, roomType)
	if err != nil {
		return nil, err
	}
	s.logger.Info("room created", "property_id", propertyID, "room_id", room.ID)
	return room, nil
}

func (s *PropertyService) ListRooms(ctx context.Context, propertyID int64) ([]*domain.Room, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.rooms.ListByPropertyID(ctx, propertyID)
}

func (s *PropertyService) getRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, roomID)
	}
	return room, nil
}

func validateItem(name string, cost decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: item name is required", domain.ErrInvalidInput)
	}
	if cost.IsNegative() {
		return "", fmt.Errorf("%w: replacement cost must not be negative", domain.ErrInvalidInput)
	}
	return name, nil
}

func (s *PropertyService) CreateChecklistItem(ctx context.Context, roomID int64, name string, cost decimal.Decimal) (*domain.ChecklistItem, error) {
	name, err := validateItem(name, cost)
	if err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.checklist.Create(ctx, roomID, name, cost)
}

func (s *PropertyService) ListChecklistItems(ctx context.Context, roomID int64) ([]*domain.ChecklistItem, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.checklist.ListByRoomID(ctx, roomID)
}

func (s *PropertyService) UpdateChecklistItem(ctx context.Context, itemID int64, name string, cost decimal.Decimal) (*domain.ChecklistItem, error) {
	name, err := validateItem(name, cost)
	if err != nil {
		return nil, err
	}
	if err := s.checklist.Update(ctx, itemID, name, cost); err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}
	return s.checklist.GetByID(ctx, itemID)
}

// CreateCheck records a check-in or check-out event stamped with the current time.
func (s *PropertyService) CreateCheck(ctx context.Context, propertyID int64, checkType domain.CheckType, guestName *string) (*domain.Check, error) {
	if !checkType.Valid() {
		return nil, fmt.Errorf("%w: check type must be checkin or checkout", domain.ErrInvalidInput)
	}
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	check, err := s.checks.Create(ctx, propertyID, checkType, guestName, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("check created", "property_id", propertyID, "check_id", check.ID, "check_type", checkType)
	return check, nil
}

func (s *PropertyService) ListChecks(ctx context.Context, propertyID int64) ([]*domain.Check, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.checks.ListByPropertyID(ctx, propertyID)
}
