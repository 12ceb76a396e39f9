// Package analysis turns one photo's raw vision payload into issue drafts.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/vbonduro/staycheck/internal/domain"
)

type FindingKind string

const (
	KindMissingItem FindingKind = "missing_item"
	KindDamage      FindingKind = "damage"
	KindCleanliness FindingKind = "cleanliness"
)

// Finding is one normalized observation from a photo analysis.
type Finding struct {
	Kind       FindingKind
	Label      string
	Confidence *float64
}

// Analysis is the normalized form of one raw payload.
type Analysis struct {
	Findings       []Finding
	ConditionScore *float64
}

const (
	fieldMissingItems      = "missing_items"
	fieldDamageDetected    = "damage_detected"
	fieldCleanlinessIssues = "cleanliness_issues"
	fieldConditionScore    = "condition_score"
)

// Normalize validates a decoded payload and flattens it into findings:
// missing items first, then damage, then cleanliness, each in payload order.
// Labels are trimmed; duplicates are kept.
func Normalize(payload map[string]any) (*Analysis, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is empty", domain.ErrInvalidAnalysisPayload)
	}

	missing, err := stringList(payload, fieldMissingItems, true)
	if err != nil {
		return nil, err
	}
	damage, err := stringList(payload, fieldDamageDetected, true)
	if err != nil {
		return nil, err
	}
	cleanliness, err := stringList(payload, fieldCleanlinessIssues, false)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Findings: make([]Finding, 0, len(missing)+len(damage)+len(cleanliness)),
	}
	for _, l := range missing {
		a.Findings = append(a.Findings, Finding{Kind: KindMissingItem, Label: l})
	}
	for _, l := range damage {
		a.Findings = append(a.Findings, Finding{Kind: KindDamage, Label: l})
	}
	for _, l := range cleanliness {
		a.Findings = append(a.Findings, Finding{Kind: KindCleanliness, Label: l})
	}

	if raw, ok := payload[fieldConditionScore]; ok && raw != nil {
		score, ok := number(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be numeric, got %T", domain.ErrInvalidAnalysisPayload, fieldConditionScore, raw)
		}
		a.ConditionScore = &score
	}

	return a, nil
}

// NormalizeJSON decodes a raw JSON object and normalizes it.
func NormalizeJSON(data []byte) (*Analysis, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAnalysisPayload, err)
	}
	return Normalize(payload)
}

func stringList(payload map[string]any, field string, required bool) ([]string, error) {
	raw, ok := payload[field]
	if !ok || raw == nil {
		if required {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidAnalysisPayload, field)
		}
		return nil, nil
	}

	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = strings.TrimSpace(s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list, got %T", domain.ErrInvalidAnalysisPayload, field, raw)
	}

	out := make([]string, 0, len(entries))
	for i, e := range entries {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string, got %T", domain.ErrInvalidAnalysisPayload, field, i, e)
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
