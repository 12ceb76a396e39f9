package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsePayload extracts the JSON object from a model reply, tolerating
// markdown fences or prose around it.
func ParsePayload(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response: %q", ErrMalformedResponse, truncate(text, 200))
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload, nil
}

// NewResult parses text into an AnalysisResult.
func NewResult(text string) (*AnalysisResult, error) {
	payload, err := ParsePayload(text)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Payload: payload, RawResponse: text}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
