package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomBedroom    RoomType = "bedroom"
	RoomBathroom   RoomType = "bathroom"
	RoomKitchen    RoomType = "kitchen"
	RoomLivingRoom RoomType = "living_room"
	RoomOther      RoomType = "other"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomBedroom, RoomBathroom, RoomKitchen, RoomLivingRoom, RoomOther:
		return true
	}
	return false
}

type CheckType string

const (
	CheckIn  CheckType = "checkin"
	CheckOut CheckType = "checkout"
)

func (t CheckType) Valid() bool {
	return t == CheckIn || t == CheckOut
}

// Severity orders issues in a damage report; Rank is higher for worse issues.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

type Property struct {
	ID        int64
	Name      string
	Address   *string
	CreatedAt time.Time
}

type Room struct {
	ID         int64
	PropertyID int64
	Name       string
	RoomType   RoomType
}

type ChecklistItem struct {
	ID              int64
	RoomID          int64
	Name            string
	ReplacementCost decimal.Decimal
}

type Check struct {
	ID         int64
	PropertyID int64
	CheckType  CheckType
	GuestName  *string
	CreatedAt  time.Time
}

type Photo struct {
	ID             int64
	CheckID        int64
	RoomID         int64
	StorageKey     string
	MimeType       string
	AnalysisResult *string
	CreatedAt      time.Time
}

type Issue struct {
	ID            int64
	CheckID       int64
	PhotoID       *int64
	Description   string
	ItemName      *string
	EstimatedCost decimal.Decimal
	Severity      Severity
}

// ComparisonPhoto pairs the latest check-in and check-out photo of one room.
type ComparisonPhoto struct {
	RoomID      int64
	RoomName    string
	BeforePhoto int64
	AfterPhoto  int64
}

type DamageReport struct {
	PropertyName       string
	GuestName          *string
	CheckinDate        time.Time
	CheckoutDate       time.Time
	Issues             []*Issue
	TotalEstimatedCost decimal.Decimal
	ComparisonPhotos   []ComparisonPhoto
}

// CostEntry is one issue in a property's cost history with the check it came from.
type CostEntry struct {
	Issue     *Issue
	CheckDate time.Time
	GuestName *string
}
