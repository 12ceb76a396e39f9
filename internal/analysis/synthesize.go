package analysis

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/staycheck/internal/domain"
)

// Config holds the tunables of issue synthesis.
type Config struct {
	// A matched missing item costing more than this is high severity.
	HighCostThreshold decimal.Decimal
	// A condition score below this adds a "poor overall condition" issue.
	LowConditionThreshold float64
}

func DefaultConfig() Config {
	return Config{
		HighCostThreshold:     decimal.NewFromInt(100),
		LowConditionThreshold: 5,
	}
}

// CostEstimator prices a damage finding.
type CostEstimator interface {
	EstimateDamage(label string) decimal.Decimal
}

// ZeroCostEstimator prices all damage at zero.
type ZeroCostEstimator struct{}

func (ZeroCostEstimator) EstimateDamage(string) decimal.Decimal { return decimal.Zero }

type Synthesizer struct {
	cfg       Config
	estimator CostEstimator
}

// NewSynthesizer builds a Synthesizer. A nil estimator prices damage at zero.
func NewSynthesizer(cfg Config, estimator CostEstimator) *Synthesizer {
	if estimator == nil {
		estimator = ZeroCostEstimator{}
	}
	return &Synthesizer{cfg: cfg, estimator: estimator}
}

func (s *Synthesizer) Config() Config { return s.cfg }

// Synthesize converts normalized findings into unsaved issues for checkID.
// It returns exactly one issue per finding plus at most one condition issue.
func (s *Synthesizer) Synthesize(checkID int64, a *Analysis, items []*domain.ChecklistItem) []*domain.Issue {
	if a == nil {
		return []*domain.Issue{}
	}

	issues := make([]*domain.Issue, 0, len(a.Findings)+1)
	for _, f := range a.Findings {
		issues = append(issues, s.issueFor(checkID, f, items))
	}

	if a.ConditionScore != nil && *a.ConditionScore < s.cfg.LowConditionThreshold {
		issues = append(issues, &domain.Issue{
			CheckID:       checkID,
			Description:   fmt.Sprintf("Poor overall condition (score %s/10)", strconv.FormatFloat(*a.ConditionScore, 'f', -1, 64)),
			EstimatedCost: decimal.Zero,
			Severity:      domain.SeverityMedium,
		})
	}

	return issues
}

func (s *Synthesizer) issueFor(checkID int64, f Finding, items []*domain.ChecklistItem) *domain.Issue {
	switch f.Kind {
	case KindMissingItem:
		issue := &domain.Issue{
			CheckID:       checkID,
			Description:   "Missing: " + f.Label,
			EstimatedCost: decimal.Zero,
			Severity:      domain.SeverityMedium,
		}
		if m := MatchChecklistItem(f.Label, items); m.Item != nil {
			name := m.Item.Name
			issue.ItemName = &name
			issue.EstimatedCost = nonNegative(m.Item.ReplacementCost)
		}
		if issue.EstimatedCost.GreaterThan(s.cfg.HighCostThreshold) {
			issue.Severity = domain.SeverityHigh
		}
		return issue
	case KindDamage:
		return &domain.Issue{
			CheckID:       checkID,
			Description:   "Damage: " + f.Label,
			EstimatedCost: nonNegative(s.estimator.EstimateDamage(f.Label)),
			Severity:      domain.SeverityHigh,
		}
	default:
		return &domain.Issue{
			CheckID:       checkID,
			Description:   "Cleanliness: " + f.Label,
			EstimatedCost: decimal.Zero,
			Severity:      domain.SeverityLow,
		}
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
