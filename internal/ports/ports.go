package ports

import (
	"context"
	"time"

	"ims/internal/dashboard"
	"ims/internal/domain"
	"ims/internal/scoring"
)

// Risks manages the risk register. Score and level are derived on write.
type Risks interface {
	Create(ctx context.Context, in domain.RiskInput) (domain.Risk, error)
	Get(ctx context.Context, id string) (domain.Risk, error)
	List(ctx context.Context, f domain.RiskFilter) (domain.ListResult[domain.Risk], error)
	Update(ctx context.Context, id string, in domain.RiskPatch) (domain.Risk, error)
	Delete(ctx context.Context, id string) error
}

// Aspects manages the environmental aspect register.
type Aspects interface {
	Create(ctx context.Context, in domain.AspectInput) (domain.EnvironmentalAspect, error)
	Get(ctx context.Context, id string) (domain.EnvironmentalAspect, error)
	List(ctx context.Context, f domain.AspectFilter) (domain.ListResult[domain.EnvironmentalAspect], error)
	Update(ctx context.Context, id string, in domain.AspectPatch) (domain.EnvironmentalAspect, error)
}

// Safety records monthly safety tallies.
type Safety interface {
	Upsert(ctx context.Context, in domain.SafetyInput) (domain.SafetyMetricPeriod, error)
	List(ctx context.Context, year int) ([]domain.SafetyMetricPeriod, error)
	YearToDate(ctx context.Context, year int) (scoring.Summary, error)
}

// Registers covers incidents, actions, legal requirements and analyses.
type Registers interface {
	CreateIncident(ctx context.Context, in domain.IncidentInput) (domain.Incident, error)
	ListIncidents(ctx context.Context, f domain.IncidentFilter) (domain.ListResult[domain.Incident], error)
	SetIncidentStatus(ctx context.Context, id string, status domain.IncidentStatus) (domain.Incident, error)

	CreateAction(ctx context.Context, in domain.ActionInput) (domain.Action, error)
	ListActions(ctx context.Context, f domain.ActionFilter) (domain.ListResult[domain.Action], error)
	SetActionStatus(ctx context.Context, id string, status domain.ActionStatus) (domain.Action, error)

	CreateLegalRequirement(ctx context.Context, in domain.LegalInput) (domain.LegalRequirement, error)
	ListLegalRequirements(ctx context.Context, f domain.LegalFilter) (domain.ListResult[domain.LegalRequirement], error)
	SetLegalStatus(ctx context.Context, id string, status domain.ComplianceStatus) (domain.LegalRequirement, error)

	CreateAnalysis(ctx context.Context, in domain.AnalysisInput) (domain.AIAnalysis, error)
	ListAnalyses(ctx context.Context, f domain.AnalysisFilter) (domain.ListResult[domain.AIAnalysis], error)
}

// Compliance serves scores and their recorded history.
type Compliance interface {
	Score(ctx context.Context, std domain.Standard) (domain.ComplianceScore, error)
	All(ctx context.Context) ([]domain.ComplianceScore, int, error)
	History(ctx context.Context, std domain.Standard, since time.Time) ([]domain.ComplianceSnapshot, error)
}

// Dashboard builds a fresh snapshot per call.
type Dashboard interface {
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
}
