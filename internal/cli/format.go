package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vbonduro/staycheck/internal/domain"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type issueOutput struct {
	ID            int64       `json:"id"`
	PhotoID       *int64      `json:"photo_id"`
	Description   string      `json:"description"`
	ItemName      *string     `json:"item_name"`
	EstimatedCost json.Number `json:"estimated_cost"`
	Severity      string      `json:"severity"`
}

func toIssueOutputs(issues []*domain.Issue) []issueOutput {
	out := make([]issueOutput, 0, len(issues))
	for _, is := range issues {
		out = append(out, issueOutput{
			ID:            is.ID,
			PhotoID:       is.PhotoID,
			Description:   is.Description,
			ItemName:      is.ItemName,
			EstimatedCost: json.Number(is.EstimatedCost.StringFixed(2)),
			Severity:      string(is.Severity),
		})
	}
	return out
}

type synthesisOutput struct {
	IssuesCreated int           `json:"issues_created"`
	Issues        []issueOutput `json:"issues"`
}

type reportOutput struct {
	PropertyName       string             `json:"property_name"`
	GuestName          *string            `json:"guest_name"`
	CheckinDate        time.Time          `json:"checkin_date"`
	CheckoutDate       time.Time          `json:"checkout_date"`
	Issues             []issueOutput      `json:"issues"`
	TotalEstimatedCost json.Number        `json:"total_estimated_cost"`
	ComparisonPhotos   []comparisonOutput `json:"comparison_photos"`
}

type comparisonOutput struct {
	RoomID      int64  `json:"room_id"`
	RoomName    string `json:"room_name"`
	BeforePhoto int64  `json:"before_photo"`
	AfterPhoto  int64  `json:"after_photo"`
}

func toReportOutput(rep *domain.DamageReport) reportOutput {
	out := reportOutput{
		PropertyName:       rep.PropertyName,
		GuestName:          rep.GuestName,
		CheckinDate:        rep.CheckinDate,
		CheckoutDate:       rep.CheckoutDate,
		Issues:             toIssueOutputs(rep.Issues),
		TotalEstimatedCost: json.Number(rep.TotalEstimatedCost.StringFixed(2)),
		ComparisonPhotos:   make([]comparisonOutput, 0, len(rep.ComparisonPhotos)),
	}
	for _, c := range rep.ComparisonPhotos {
		out.ComparisonPhotos = append(out.ComparisonPhotos, comparisonOutput(c))
	}
	return out
}

// printIssues prints issues as an aligned table.
func printIssues(w io.Writer, issues []*domain.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tCOST\tDESCRIPTION")
	for _, is := range issues {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", is.ID, is.Severity, is.EstimatedCost.StringFixed(2), is.Description)
	}
	_ = tw.Flush()
}

func printReport(w io.Writer, rep *domain.DamageReport) {
	fmt.Fprintf(w, "Damage report for %s\n", rep.PropertyName)
	if rep.GuestName != nil {
		fmt.Fprintf(w, "  Guest:     %s\n", *rep.GuestName)
	}
	fmt.Fprintf(w, "  Check-in:  %s\n", rep.CheckinDate.Format(time.DateTime))
	fmt.Fprintf(w, "  Check-out: %s\n", rep.CheckoutDate.Format(time.DateTime))
	fmt.Fprintln(w)
	printIssues(w, rep.Issues)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total estimated cost: %s\n", rep.TotalEstimatedCost.StringFixed(2))
	if len(rep.ComparisonPhotos) > 0 {
		fmt.Fprintf(w, "Comparison photos: %d room(s)\n", len(rep.ComparisonPhotos))
	}
}
