package domain

import "time"

type EntityKind string

const (
	KindRisk         EntityKind = "risk"
	KindAspect       EntityKind = "aspect"
	KindIncident     EntityKind = "incident"
	KindAction       EntityKind = "action"
	KindLegal        EntityKind = "legal_requirement"
	KindSafetyMetric EntityKind = "safety_metric"
	KindAnalysis     EntityKind = "analysis"
)

// EntityChanged is emitted after every write that can move a compliance
// score. Standard is empty for entities not tied to one.
type EntityChanged struct {
	Kind       EntityKind `json:"kind"`
	ID         string     `json:"id"`
	Standard   Standard   `json:"standard,omitempty"`
	Operation  string     `json:"operation"`
	OccurredAt time.Time  `json:"occurredAt"`
}
