package web

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/staycheck/internal/analysis"
	"github.com/vbonduro/staycheck/internal/domain"
	"github.com/vbonduro/staycheck/internal/service"
)

type createPropertyRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type createRoomRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	RoomType string `json:"room_type" validate:"omitempty,oneof=bedroom bathroom kitchen living_room other"`
}

type checklistItemRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	ReplacementCost decimal.Decimal `json:"replacement_cost" validate:"gte=0"`
}

type createCheckRequest struct {
	CheckType string  `json:"check_type" validate:"required,oneof=checkin checkout"`
	GuestName *string `json:"guest_name" validate:"omitempty,max=200"`
}

// money renders an amount with two decimal places as a JSON number.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type propertyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func toProperty(p *domain.Property) propertyResponse {
	return propertyResponse{ID: p.ID, Name: p.Name, Address: p.Address, CreatedAt: p.CreatedAt}
}

type roomResponse struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
	RoomType   string `json:"room_type"`
}

func toRoom(r *domain.Room) roomResponse {
	return roomResponse{ID: r.ID, PropertyID: r.PropertyID, Name: r.Name, RoomType: string(r.RoomType)}
}

type itemResponse struct {
	ID              int64       `json:"id"`
	RoomID          int64       `json:"room_id"`
	Name            string      `json:"name"`
	ReplacementCost json.Number `json:"replacement_cost"`
}

func toItem(it *domain.ChecklistItem) itemResponse {
	return itemResponse{ID: it.ID, RoomID: it.RoomID, Name: it.Name, ReplacementCost: money(it.ReplacementCost)}
}

type checkResponse struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	CheckType  string    `json:"check_type"`
	GuestName  *string   `json:"guest_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCheck(c *domain.Check) checkResponse {
	return checkResponse{ID: c.ID, PropertyID: c.PropertyID, CheckType: string(c.CheckType), GuestName: c.GuestName, CreatedAt: c.CreatedAt}
}

type issueResponse struct {
	ID            int64       `json:"id"`
	CheckID       int64       `json:"check_id"`
	PhotoID       *int64      `json:"photo_id"`
	Description   string      `json:"description"`
	ItemName      *string     `json:"item_name"`
	EstimatedCost json.Number `json:"estimated_cost"`
	Severity      string      `json:"severity"`
}

func toIssues(issues []*domain.Issue) []issueResponse {
	out := make([]issueResponse, 0, len(issues))
	for _, is := range issues {
		out = append(out, issueResponse{
			ID:            is.ID,
			CheckID:       is.CheckID,
			PhotoID:       is.PhotoID,
			Description:   is.Description,
			ItemName:      is.ItemName,
			EstimatedCost: money(is.EstimatedCost),
			Severity:      string(is.Severity),
		})
	}
	return out
}

type findingResponse struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

type analysisResponse struct {
	Findings       []findingResponse `json:"findings"`
	ConditionScore *float64          `json:"condition_score"`
}

func toAnalysis(a *analysis.Analysis) *analysisResponse {
	if a == nil {
		return nil
	}
	out := &analysisResponse{Findings: make([]findingResponse, 0, len(a.Findings)), ConditionScore: a.ConditionScore}
	for _, f := range a.Findings {
		out.Findings = append(out.Findings, findingResponse{Kind: string(f.Kind), Label: f.Label})
	}
	return out
}

type synthesisResponse struct {
	IssuesCreated int             `json:"issues_created"`
	Issues        []issueResponse `json:"issues"`
}

type uploadResponse struct {
	PhotoID       int64             `json:"photo_id"`
	Analysis      *analysisResponse `json:"analysis"`
	IssuesCreated int               `json:"issues_created"`
	Issues        []issueResponse   `json:"issues"`
}

func toUpload(res *service.SynthesisResult) uploadResponse {
	return uploadResponse{
		PhotoID:       res.Photo.ID,
		Analysis:      toAnalysis(res.Analysis),
		IssuesCreated: res.IssuesCreated,
		Issues:        toIssues(res.Issues),
	}
}

type comparisonResponse struct {
	RoomID      int64  `json:"room_id"`
	RoomName    string `json:"room_name"`
	BeforePhoto int64  `json:"before_photo"`
	AfterPhoto  int64  `json:"after_photo"`
}

type damageReportResponse struct {
	PropertyName       string               `json:"property_name"`
	GuestName          *string              `json:"guest_name"`
	CheckinDate        time.Time            `json:"checkin_date"`
	CheckoutDate       time.Time            `json:"checkout_date"`
	Issues             []issueResponse      `json:"issues"`
	TotalEstimatedCost json.Number          `json:"total_estimated_cost"`
	ComparisonPhotos   []comparisonResponse `json:"comparison_photos"`
}

func toDamageReport(rep *domain.DamageReport) damageReportResponse {
	out := damageReportResponse{
		PropertyName:       rep.PropertyName,
		GuestName:          rep.GuestName,
		CheckinDate:        rep.CheckinDate,
		CheckoutDate:       rep.CheckoutDate,
		Issues:             toIssues(rep.Issues),
		TotalEstimatedCost: money(rep.TotalEstimatedCost),
		ComparisonPhotos:   make([]comparisonResponse, 0, len(rep.ComparisonPhotos)),
	}
	for _, c := range rep.ComparisonPhotos {
		out.ComparisonPhotos = append(out.ComparisonPhotos, comparisonResponse(c))
	}
	return out
}

type costEntryResponse struct {
	issueResponse
	CheckDate time.Time `json:"check_date"`
	GuestName *string   `json:"guest_name"`
}

type costHistoryResponse struct {
	Entries []costEntryResponse `json:"entries"`
	Total   json.Number         `json:"total"`
}

func toCostHistory(h *service.CostHistory) costHistoryResponse {
	out := costHistoryResponse{Entries: make([]costEntryResponse, 0, len(h.Entries)), Total: money(h.Total)}
	for _, e := range h.Entries {
		out.Entries = append(out.Entries, costEntryResponse{
			issueResponse: toIssues([]*domain.Issue{e.Issue})[0],
			CheckDate:     e.CheckDate,
			GuestName:     e.GuestName,
		})
	}
	return out
}
