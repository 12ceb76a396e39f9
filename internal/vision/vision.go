package vision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lithammer/dedent"
)

// ErrMalformedResponse means the backend answered but not with a JSON object.
var ErrMalformedResponse = errors.New("malformed vision response")

// Request describes the room a photo was taken in.
type Request struct {
	RoomName      string
	ExpectedItems []string
}

// VisionAnalyzer inspects one room photo. Implementations call their backend
// exactly once per Analyze and never retry.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string, req Request) (*AnalysisResult, error)
}

// AnalysisResult is the decoded JSON object returned by the backend. The
// payload is untrusted and is validated by analysis.Normalize.
type AnalysisResult struct {
	Payload     map[string]any
	RawResponse string
}

var promptTemplate = dedent.Dedent(`
	Analyze this photo of a %s from a short-term rental property.

	Expected items in this room:
	%s

	Please identify:
	1. Which items from the checklist appear to be MISSING
	2. Any visible DAMAGE to furniture, walls, floors, or items
	3. Overall cleanliness issues

	Respond ONLY with a JSON object, no markdown or other text:
	{"missing_items": ["item1"], "damage_detected": ["description of damage"], "cleanliness_issues": ["issue"], "condition_score": 7}
	condition_score is a number from 1 (very poor) to 10 (perfect).
`)

// BuildPrompt renders the analysis prompt shared by all adapters.
func BuildPrompt(req Request) string {
	room := strings.TrimSpace(req.RoomName)
	if room == "" {
		room = "room"
	}

	var b strings.Builder
	for _, it := range req.ExpectedItems {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	list := strings.TrimRight(b.String(), "\n")
	if list == "" {
		list = "(no checklist items recorded)"
	}

	return strings.TrimSpace(fmt.Sprintf(promptTemplate, room, list))
}
