package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/staycheck/internal/domain"
)

var (
	t0 = time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	t1 = time.Date(2026, 7, 5, 11, 0, 0, 0, time.UTC)
)

func checks() (*domain.Check, *domain.Check) {
	guest := "Ada"
	return &domain.Check{ID: 1, PropertyID: 7, CheckType: domain.CheckIn, GuestName: &guest, CreatedAt: t0},
		&domain.Check{ID: 2, PropertyID: 7, CheckType: domain.CheckOut, GuestName: &guest, CreatedAt: t1}
}

func issue(id int64, checkID int64, cost string, sev domain.Severity) *domain.Issue {
	return &domain.Issue{ID: id, CheckID: checkID, Description: "x", EstimatedCost: decimal.RequireFromString(cost), Severity: sev}
}

func TestValidatePairing(t *testing.T) {
	in, out := checks()
	assert.NoError(t, ValidatePairing(7, in, out))

	sameTime := *out
	sameTime.CreatedAt = t0
	assert.NoError(t, ValidatePairing(7, in, &sameTime))

	tests := []struct {
		name     string
		mutate   func(in, out *domain.Check)
		property int64
	}{
		{name: "checkin after checkout", property: 7, mutate: func(in, out *domain.Check) { in.CreatedAt = t1.Add(time.Hour) }},
		{name: "cross property", property: 7, mutate: func(in, out *domain.Check) { out.PropertyID = 8 }},
		{name: "wrong property requested", property: 9, mutate: func(in, out *domain.Check) {}},
		{name: "checkin is a checkout", property: 7, mutate: func(in, out *domain.Check) { in.CheckType = domain.CheckOut }},
		{name: "checkout is a checkin", property: 7, mutate: func(in, out *domain.Check) { out.CheckType = domain.CheckIn }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := checks()
			tt.mutate(in, out)
			err := ValidatePairing(tt.property, in, out)
			assert.ErrorIs(t, err, domain.ErrInvalidCheckPairing)
		})
	}

	assert.ErrorIs(t, ValidatePairing(7, nil, out), domain.ErrInvalidCheckPairing)
}

func TestCompileOrderingAndTotal(t *testing.T) {
	in, out := checks()
	report, err := Compile(Input{
		Property: &domain.Property{ID: 7, Name: "Beach House"},
		Checkin:  in,
		Checkout: out,
		CheckoutIssues: []*domain.Issue{
			issue(10, 2, "50", domain.SeverityMedium),
			issue(11, 2, "0", domain.SeverityMedium),
			issue(12, 2, "120", domain.SeverityHigh),
		},
	})
	require.NoError(t, err)

	ids := make([]int64, 0, len(report.Issues))
	for _, is := range report.Issues {
		ids = append(ids, is.ID)
	}
	assert.Equal(t, []int64{12, 10, 11}, ids)
	assert.Equal(t, "170.00", report.TotalEstimatedCost.StringFixed(2))
	assert.Equal(t, "Beach House", report.PropertyName)
	assert.Equal(t, t0, report.CheckinDate)
	assert.Equal(t, t1, report.CheckoutDate)
	require.NotNil(t, report.GuestName)
	assert.Equal(t, "Ada", *report.GuestName)
}

func TestCompileEmptyIsValid(t *testing.T) {
	in, out := checks()
	report, err := Compile(Input{Property: &domain.Property{ID: 7, Name: "Cabin"}, Checkin: in, Checkout: out})
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.True(t, report.TotalEstimatedCost.IsZero())
	assert.NotNil(t, report.ComparisonPhotos)
}

func TestCompileIgnoresOtherChecks(t *testing.T) {
	in, out := checks()
	report, err := Compile(Input{
		Property: &domain.Property{ID: 7},
		Checkin:  in,
		Checkout: out,
		CheckoutIssues: []*domain.Issue{
			issue(1, 1, "30", domain.SeverityHigh),
			issue(2, 2, "5", domain.SeverityLow),
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, int64(2), report.Issues[0].ID)
}

func TestTotalIsExact(t *testing.T) {
	issues := make([]*domain.Issue, 0, 10)
	for i := 0; i < 10; i++ {
		issues = append(issues, issue(int64(i), 2, "0.10", domain.SeverityLow))
	}
	assert.True(t, Total(issues).Equal(decimal.NewFromInt(1)))
}

func TestComparisonPhotosLatestPerRoom(t *testing.T) {
	in, out := checks()
	rooms := map[int64]*domain.Room{
		3: {ID: 3, Name: "Kitchen"},
		4: {ID: 4, Name: "Bedroom"},
	}
	report, err := Compile(Input{
		Property: &domain.Property{ID: 7},
		Checkin:  in,
		Checkout: out,
		CheckinPhotos: []*domain.Photo{
			{ID: 1, CheckID: 1, RoomID: 4},
			{ID: 2, CheckID: 1, RoomID: 3},
			{ID: 5, CheckID: 1, RoomID: 4},
		},
		CheckoutPhotos: []*domain.Photo{
			{ID: 8, CheckID: 2, RoomID: 4},
			{ID: 9, CheckID: 2, RoomID: 6},
		},
		Rooms: rooms,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ComparisonPhoto{
		{RoomID: 4, RoomName: "Bedroom", BeforePhoto: 5, AfterPhoto: 8},
	}, report.ComparisonPhotos)
}

func TestCompileIdempotent(t *testing.T) {
	in, out := checks()
	input := Input{
		Property: &domain.Property{ID: 7, Name: "Loft"},
		Checkin:  in,
		Checkout: out,
		CheckoutIssues: []*domain.Issue{
			issue(3, 2, "1", domain.SeverityLow),
			issue(1, 2, "2", domain.SeverityHigh),
		},
	}
	first, err := Compile(input)
	require.NoError(t, err)
	second, err := Compile(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Input order untouched.
	assert.Equal(t, int64(3), input.CheckoutIssues[0].ID)
}
