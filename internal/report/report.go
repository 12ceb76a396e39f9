// Package report reconciles a check-in/check-out pair into a damage report.
package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/staycheck/internal/domain"
)

// ValidatePairing checks that checkin and checkout can be reconciled for propertyID.
func ValidatePairing(propertyID int64, checkin, checkout *domain.Check) error {
	if checkin == nil || checkout == nil {
		return fmt.Errorf("%w: check-in or check-out not found", domain.ErrInvalidCheckPairing)
	}
	if checkin.CheckType != domain.CheckIn {
		return fmt.Errorf("%w: check %d is a %s, not a checkin", domain.ErrInvalidCheckPairing, checkin.ID, checkin.CheckType)
	}
	if checkout.CheckType != domain.CheckOut {
		return fmt.Errorf("%w: check %d is a %s, not a checkout", domain.ErrInvalidCheckPairing, checkout.ID, checkout.CheckType)
	}
	if checkin.PropertyID != propertyID || checkout.PropertyID != propertyID {
		return fmt.Errorf("%w: checks %d and %d do not both belong to property %d",
			domain.ErrInvalidCheckPairing, checkin.ID, checkout.ID, propertyID)
	}
	if checkin.CreatedAt.After(checkout.CreatedAt) {
		return fmt.Errorf("%w: checkin %d was created after checkout %d",
			domain.ErrInvalidCheckPairing, checkin.ID, checkout.ID)
	}
	return nil
}

// SortIssues orders issues high to low severity, then by ascending id.
func SortIssues(issues []*domain.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		ri, rj := issues[i].Severity.Rank(), issues[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return issues[i].ID < issues[j].ID
	})
}

// Total sums estimated costs exactly.
func Total(issues []*domain.Issue) decimal.Decimal {
	total := decimal.Zero
	for _, is := range issues {
		total = total.Add(is.EstimatedCost)
	}
	return total
}

// Input is everything the compiler reads for one report.
type Input struct {
	Property       *domain.Property
	Checkin        *domain.Check
	Checkout       *domain.Check
	CheckoutIssues []*domain.Issue
	CheckinPhotos  []*domain.Photo
	CheckoutPhotos []*domain.Photo
	Rooms          map[int64]*domain.Room
}

// Compile validates the pairing and builds the report. Input slices are not modified.
func Compile(in Input) (*domain.DamageReport, error) {
	if in.Property == nil {
		return nil, fmt.Errorf("%w: property not found", domain.ErrNotFound)
	}
	if err := ValidatePairing(in.Property.ID, in.Checkin, in.Checkout); err != nil {
		return nil, err
	}

	issues := make([]*domain.Issue, 0, len(in.CheckoutIssues))
	for _, is := range in.CheckoutIssues {
		if is.CheckID == in.Checkout.ID {
			issues = append(issues, is)
		}
	}
	SortIssues(issues)

	return &domain.DamageReport{
		PropertyName:       in.Property.Name,
		GuestName:          in.Checkout.GuestName,
		CheckinDate:        in.Checkin.CreatedAt,
		CheckoutDate:       in.Checkout.CreatedAt,
		Issues:             issues,
		TotalEstimatedCost: Total(issues),
		ComparisonPhotos:   comparisons(in.CheckinPhotos, in.CheckoutPhotos, in.Rooms),
	}, nil
}

// comparisons pairs the latest photo of each room present in both checks.
func comparisons(before, after []*domain.Photo, rooms map[int64]*domain.Room) []domain.ComparisonPhoto {
	latestBefore := latestByRoom(before)
	latestAfter := latestByRoom(after)

	roomIDs := make([]int64, 0, len(latestAfter))
	for id := range latestAfter {
		if _, ok := latestBefore[id]; ok {
			roomIDs = append(roomIDs, id)
		}
	}
	sort.Slice(roomIDs, func(i, j int) bool { return roomIDs[i] < roomIDs[j] })

	out := make([]domain.ComparisonPhoto, 0, len(roomIDs))
	for _, id := range roomIDs {
		cp := domain.ComparisonPhoto{
			RoomID:      id,
			BeforePhoto: latestBefore[id].ID,
			AfterPhoto:  latestAfter[id].ID,
		}
		if r, ok := rooms[id]; ok {
			cp.RoomName = r.Name
		}
		out = append(out, cp)
	}
	return out
}

func latestByRoom(photos []*domain.Photo) map[int64]*domain.Photo {
	m := make(map[int64]*domain.Photo, len(photos))
	for _, p := range photos {
		if cur, ok := m[p.RoomID]; !ok || p.ID > cur.ID {
			m[p.RoomID] = p
		}
	}
	return m
}
