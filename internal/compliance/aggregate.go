// Package compliance turns register state into per-standard compliance
// percentages and the cross-standard IMS score.
package compliance

import (
	"fmt"
	"math"
	"time"

	"ims/internal/domain"
	"ims/internal/scoring"
)

// ExposureWeights maps a risk level to its contribution to exposure. Levels
// not present weigh nothing.
type ExposureWeights map[string]float64

// DefaultExposureWeights counts a CRITICAL risk fully and a HIGH risk by half.
func DefaultExposureWeights() ExposureWeights {
	return ExposureWeights{scoring.LevelHigh: 0.5, scoring.LevelCritical: 1.0}
}

func (w ExposureWeights) Validate() error {
	for level, v := range w {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("exposure weight for %s must be within [0,1], got %v", level, v)
		}
	}
	return nil
}

// Register is the read-only slice of register state the aggregator consumes.
type Register struct {
	Risks     []domain.Risk
	Incidents []domain.Incident
	Actions   []domain.Action
	Legal     []domain.LegalRequirement
}

// Tally holds the per-standard counts the sub-rates are computed from.
type Tally struct {
	TotalIncidents        int     `json:"totalIncidents"`
	ClosedIncidents       int     `json:"closedIncidents"`
	TotalActions          int     `json:"totalActions"`
	OverdueActions        int     `json:"overdueActions"`
	TotalRequirements     int     `json:"totalRequirements"`
	CompliantRequirements int     `json:"compliantRequirements"`
	ActiveRisks           int     `json:"activeRisks"`
	WeightedExposure      float64 `json:"weightedExposure"`
}

// Empty reports whether nothing was recorded for the standard.
func (t Tally) Empty() bool {
	return t.TotalIncidents == 0 && t.TotalActions == 0 && t.TotalRequirements == 0 && t.ActiveRisks == 0
}

// Aggregator classifies risks with the configured risk scorer so levels always
// follow the current thresholds rather than whatever was stored.
type Aggregator struct {
	risk    *scoring.OrdinalScorer
	weights ExposureWeights
}

func NewAggregator(risk *scoring.OrdinalScorer, weights ExposureWeights) *Aggregator {
	if weights == nil {
		weights = DefaultExposureWeights()
	}
	return &Aggregator{risk: risk, weights: weights}
}

// Tally counts the entities tagged with std at time now.
func (a *Aggregator) Tally(std domain.Standard, now time.Time, reg Register) Tally {
	var t Tally
	for _, r := range reg.Risks {
		if r.Standard != std || !r.Active() {
			continue
		}
		t.ActiveRisks++
		t.WeightedExposure += a.weights[a.risk.Level(r.Score)]
	}
	for _, i := range reg.Incidents {
		if i.Standard != std {
			continue
		}
		t.TotalIncidents++
		if i.Status == domain.IncidentClosed {
			t.ClosedIncidents++
		}
	}
	for _, ac := range reg.Actions {
		if ac.Standard != std {
			continue
		}
		t.TotalActions++
		if ac.Overdue(now) {
			t.OverdueActions++
		}
	}
	for _, l := range reg.Legal {
		if l.Standard != std {
			continue
		}
		t.TotalRequirements++
		if l.ComplianceStatus == domain.Compliant {
			t.CompliantRequirements++
		}
	}
	return t
}

// Aggregate scores one standard.
func (a *Aggregator) Aggregate(std domain.Standard, now time.Time, reg Register) domain.ComplianceScore {
	return Score(std, a.Tally(std, now, reg))
}

// StableUntil returns the earliest due date among open actions of std that
// are not overdue at now. Until then the score of std cannot change without a
// write; nil means time alone never changes it.
func StableUntil(std domain.Standard, now time.Time, reg Register) *time.Time {
	var until *time.Time
	for _, ac := range reg.Actions {
		if ac.Standard != std || !ac.Status.IsOpen() || ac.Overdue(now) {
			continue
		}
		if until == nil || ac.DueDate.Before(*until) {
			due := ac.DueDate
			until = &due
		}
	}
	return until
}

// AggregateAll scores every tracked standard in domain.Standards order.
func (a *Aggregator) AggregateAll(now time.Time, reg Register) []domain.ComplianceScore {
	out := make([]domain.ComplianceScore, 0, len(domain.Standards))
	for _, std := range domain.Standards {
		out = append(out, a.Aggregate(std, now, reg))
	}
	return out
}

// Score applies the sub-rate formulas to a tally. A zero denominator means
// nothing is outstanding and the sub-rate is 100.
func Score(std domain.Standard, t Tally) domain.ComplianceScore {
	s := domain.ComplianceScore{
		Standard:            std,
		IncidentClosureRate: ratio(t.ClosedIncidents, t.TotalIncidents),
		ActionOnTimeRate:    ratio(t.TotalActions-t.OverdueActions, t.TotalActions),
		LegalComplianceRate: ratio(t.CompliantRequirements, t.TotalRequirements),
		RiskExposureRate:    100,
		HasData:             !t.Empty(),
	}
	if t.ActiveRisks > 0 {
		s.RiskExposureRate = clamp(100 - t.WeightedExposure/float64(t.ActiveRisks)*100)
	}
	mean := (s.IncidentClosureRate + s.ActionOnTimeRate + s.LegalComplianceRate + s.RiskExposureRate) / 4
	s.Overall = int(math.Round(mean))
	return s
}

// Overall is the rounded mean of the per-standard scores that have data.
// With no data anywhere it follows the zero-count convention and is 100.
func Overall(scores []domain.ComplianceScore) int {
	var sum, n int
	for _, s := range scores {
		if !s.HasData {
			continue
		}
		sum += s.Overall
		n++
	}
	if n == 0 {
		return 100
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 100
	}
	return clamp(float64(num) / float64(den) * 100)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
