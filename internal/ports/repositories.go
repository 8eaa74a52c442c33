package ports

import (
	"context"
	"time"

	"ims/internal/domain"
)

// Repositories are implemented by the postgres adapter. Get/Update/Delete
// return domain.ErrNotFound for unknown ids. All* readers take an optional
// standard; nil means every standard.

type RiskRepository interface {
	CreateRisk(ctx context.Context, r *domain.Risk) error
	GetRisk(ctx context.Context, id string) (domain.Risk, error)
	UpdateRisk(ctx context.Context, r *domain.Risk) error
	DeleteRisk(ctx context.Context, id string) error
	ListRisks(ctx context.Context, f domain.RiskFilter) ([]domain.Risk, int, error)
	AllRisks(ctx context.Context, std *domain.Standard) ([]domain.Risk, error)
}

type AspectRepository interface {
	CreateAspect(ctx context.Context, a *domain.EnvironmentalAspect) error
	GetAspect(ctx context.Context, id string) (domain.EnvironmentalAspect, error)
	UpdateAspect(ctx context.Context, a *domain.EnvironmentalAspect) error
	ListAspects(ctx context.Context, f domain.AspectFilter) ([]domain.EnvironmentalAspect, int, error)
}

type IncidentRepository interface {
	CreateIncident(ctx context.Context, i *domain.Incident) error
	GetIncident(ctx context.Context, id string) (domain.Incident, error)
	UpdateIncident(ctx context.Context, i *domain.Incident) error
	ListIncidents(ctx context.Context, f domain.IncidentFilter) ([]domain.Incident, int, error)
	AllIncidents(ctx context.Context, std *domain.Standard) ([]domain.Incident, error)
}

type ActionRepository interface {
	CreateAction(ctx context.Context, a *domain.Action) error
	GetAction(ctx context.Context, id string) (domain.Action, error)
	UpdateAction(ctx context.Context, a *domain.Action) error
	ListActions(ctx context.Context, f domain.ActionFilter, now time.Time) ([]domain.Action, int, error)
	AllActions(ctx context.Context, std *domain.Standard) ([]domain.Action, error)
}

type LegalRepository interface {
	CreateLegalRequirement(ctx context.Context, l *domain.LegalRequirement) error
	GetLegalRequirement(ctx context.Context, id string) (domain.LegalRequirement, error)
	UpdateLegalRequirement(ctx context.Context, l *domain.LegalRequirement) error
	ListLegalRequirements(ctx context.Context, f domain.LegalFilter) ([]domain.LegalRequirement, int, error)
	AllLegalRequirements(ctx context.Context, std *domain.Standard) ([]domain.LegalRequirement, error)
}

// SafetyMetricRepository keeps one row per (year, month).
type SafetyMetricRepository interface {
	UpsertSafetyMetric(ctx context.Context, p *domain.SafetyMetricPeriod) error
	ListSafetyMetrics(ctx context.Context, year int) ([]domain.SafetyMetricPeriod, error)
}

type AnalysisRepository interface {
	CreateAnalysis(ctx context.Context, a *domain.AIAnalysis) error
	ListAnalyses(ctx context.Context, f domain.AnalysisFilter) ([]domain.AIAnalysis, int, error)
	RecentAnalyses(ctx context.Context, status domain.AnalysisStatus, limit int) ([]domain.AIAnalysis, error)
}

// SnapshotRepository stores the compliance score history.
type SnapshotRepository interface {
	RecordSnapshots(ctx context.Context, snaps []domain.ComplianceSnapshot) error
	LatestSnapshots(ctx context.Context) ([]domain.ComplianceSnapshot, error)
	SnapshotHistory(ctx context.Context, std domain.Standard, since time.Time) ([]domain.ComplianceSnapshot, error)
}

// Store is a full backing store; the postgres and memory adapters both
// satisfy it.
type Store interface {
	RiskRepository
	AspectRepository
	IncidentRepository
	ActionRepository
	LegalRepository
	SafetyMetricRepository
	AnalysisRepository
	SnapshotRepository
}
