// Package registers manages the unscored registers that feed compliance:
// incidents, corrective actions, legal requirements and analyses.
package registers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"ims/internal/domain"
	"ims/internal/ports"
)

type Repos struct {
	Incidents ports.IncidentRepository
	Actions   ports.ActionRepository
	Legal     ports.LegalRepository
	Analyses  ports.AnalysisRepository
}

type Service struct {
	repos   Repos
	changes ports.ChangeNotifier
	now     func() time.Time
}

func New(repos Repos, changes ports.ChangeNotifier) *Service {
	return &Service{repos: repos, changes: changes, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Incidents

func (s *Service) CreateIncident(ctx context.Context, in domain.IncidentInput) (domain.Incident, error) {
	now := s.now().UTC()
	i := domain.Incident{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Standard:     in.Standard,
		Severity:     in.Severity,
		Status:       domain.IncidentOpen,
		DateOccurred: in.DateOccurred.UTC(),
		CreatedAt:    now,
	}
	if in.Status != nil {
		i.Status = *in.Status
	}
	if i.DateOccurred.IsZero() {
		i.DateOccurred = now
	}
	if i.Status == domain.IncidentClosed {
		i.ClosedAt = &now
	}
	var v domain.Validator
	v.Check(i.Title != "", "title", "is required")
	v.Check(i.Standard.Valid(), "standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
	v.Check(i.Status.Valid(), "status", "is not a known incident status")
	v.Check(!i.DateOccurred.After(now), "dateOccurred", "cannot be in the future")
	if err := v.Err(); err != nil {
		return domain.Incident{}, err
	}
	if err := s.repos.Incidents.CreateIncident(ctx, &i); err != nil {
		return domain.Incident{}, err
	}
	s.notify(ctx, domain.KindIncident, i.ID, i.Standard, "created")
	return i, nil
}

func (s *Service) ListIncidents(ctx context.Context, f domain.IncidentFilter) (domain.ListResult[domain.Incident], error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.repos.Incidents.ListIncidents(ctx, f)
	if err != nil {
		return domain.ListResult[domain.Incident]{}, err
	}
	return domain.ListResult[domain.Incident]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

// SetIncidentStatus moves an incident; closing stamps ClosedAt, reopening
// clears it.
func (s *Service) SetIncidentStatus(ctx context.Context, id string, status domain.IncidentStatus) (domain.Incident, error) {
	if !status.Valid() {
		return domain.Incident{}, invalid("status", "is not a known incident status")
	}
	i, err := s.repos.Incidents.GetIncident(ctx, id)
	if err != nil {
		return domain.Incident{}, err
	}
	i.Status = status
	if status == domain.IncidentClosed {
		if i.ClosedAt == nil {
			now := s.now().UTC()
			i.ClosedAt = &now
		}
	} else {
		i.ClosedAt = nil
	}
	if err := s.repos.Incidents.UpdateIncident(ctx, &i); err != nil {
		return domain.Incident{}, err
	}
	s.notify(ctx, domain.KindIncident, i.ID, i.Standard, "status")
	return i, nil
}

// Actions

func (s *Service) CreateAction(ctx context.Context, in domain.ActionInput) (domain.Action, error) {
	now := s.now().UTC()
	a := domain.Action{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Standard:  in.Standard,
		Status:    domain.ActionOpen,
		DueDate:   in.DueDate.UTC(),
		CreatedAt: now,
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if a.Status == domain.ActionCompleted {
		a.CompletedAt = &now
	}
	var v domain.Validator
	v.Check(a.Title != "", "title", "is required")
	v.Check(a.Standard.Valid(), "standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
	v.Check(a.Status.Valid(), "status", "is not a known action status")
	v.Check(!a.DueDate.IsZero(), "dueDate", "is required")
	if err := v.Err(); err != nil {
		return domain.Action{}, err
	}
	if err := s.repos.Actions.CreateAction(ctx, &a); err != nil {
		return domain.Action{}, err
	}
	s.notify(ctx, domain.KindAction, a.ID, a.Standard, "created")
	return a, nil
}

func (s *Service) ListActions(ctx context.Context, f domain.ActionFilter) (domain.ListResult[domain.Action], error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.repos.Actions.ListActions(ctx, f, s.now().UTC())
	if err != nil {
		return domain.ListResult[domain.Action]{}, err
	}
	return domain.ListResult[domain.Action]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

func (s *Service) SetActionStatus(ctx context.Context, id string, status domain.ActionStatus) (domain.Action, error) {
	if !status.Valid() {
		return domain.Action{}, invalid("status", "is not a known action status")
	}
	a, err := s.repos.Actions.GetAction(ctx, id)
	if err != nil {
		return domain.Action{}, err
	}
	a.Status = status
	if status == domain.ActionCompleted {
		if a.CompletedAt == nil {
			now := s.now().UTC()
			a.CompletedAt = &now
		}
	} else {
		a.CompletedAt = nil
	}
	if err := s.repos.Actions.UpdateAction(ctx, &a); err != nil {
		return domain.Action{}, err
	}
	s.notify(ctx, domain.KindAction, a.ID, a.Standard, "status")
	return a, nil
}

// Legal requirements

func (s *Service) CreateLegalRequirement(ctx context.Context, in domain.LegalInput) (domain.LegalRequirement, error) {
	l := domain.LegalRequirement{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(in.Title),
		Jurisdiction:     in.Jurisdiction,
		Standard:         in.Standard,
		ComplianceStatus: domain.NotAssessed,
		ReviewDate:       in.ReviewDate,
		CreatedAt:        s.now().UTC(),
	}
	if in.ComplianceStatus != nil {
		l.ComplianceStatus = *in.ComplianceStatus
	}
	var v domain.Validator
	v.Check(l.Title != "", "title", "is required")
	v.Check(l.Standard.Valid(), "standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
	v.Check(l.ComplianceStatus.Valid(), "complianceStatus", "is not a known compliance status")
	if err := v.Err(); err != nil {
		return domain.LegalRequirement{}, err
	}
	if err := s.repos.Legal.CreateLegalRequirement(ctx, &l); err != nil {
		return domain.LegalRequirement{}, err
	}
	s.notify(ctx, domain.KindLegal, l.ID, l.Standard, "created")
	return l, nil
}

func (s *Service) ListLegalRequirements(ctx context.Context, f domain.LegalFilter) (domain.ListResult[domain.LegalRequirement], error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.repos.Legal.ListLegalRequirements(ctx, f)
	if err != nil {
		return domain.ListResult[domain.LegalRequirement]{}, err
	}
	return domain.ListResult[domain.LegalRequirement]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

func (s *Service) SetLegalStatus(ctx context.Context, id string, status domain.ComplianceStatus) (domain.LegalRequirement, error) {
	if !status.Valid() {
		return domain.LegalRequirement{}, invalid("complianceStatus", "is not a known compliance status")
	}
	l, err := s.repos.Legal.GetLegalRequirement(ctx, id)
	if err != nil {
		return domain.LegalRequirement{}, err
	}
	l.ComplianceStatus = status
	if err := s.repos.Legal.UpdateLegalRequirement(ctx, &l); err != nil {
		return domain.LegalRequirement{}, err
	}
	s.notify(ctx, domain.KindLegal, l.ID, l.Standard, "status")
	return l, nil
}

// Analyses

func (s *Service) CreateAnalysis(ctx context.Context, in domain.AnalysisInput) (domain.AIAnalysis, error) {
	a := domain.AIAnalysis{
		ID:        uuid.NewString(),
		Subject:   strings.TrimSpace(in.Subject),
		Standard:  in.Standard,
		Status:    domain.AnalysisPending,
		Summary:   in.Summary,
		CreatedAt: s.now().UTC(),
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	var v domain.Validator
	v.Check(a.Subject != "", "subject", "is required")
	v.Check(a.Standard == nil || a.Standard.Valid(), "standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
	v.Check(a.Status.Valid(), "status", "is not a known analysis status")
	if err := v.Err(); err != nil {
		return domain.AIAnalysis{}, err
	}
	if err := s.repos.Analyses.CreateAnalysis(ctx, &a); err != nil {
		return domain.AIAnalysis{}, err
	}
	var std domain.Standard
	if a.Standard != nil {
		std = *a.Standard
	}
	s.notify(ctx, domain.KindAnalysis, a.ID, std, "created")
	return a, nil
}

func (s *Service) ListAnalyses(ctx context.Context, f domain.AnalysisFilter) (domain.ListResult[domain.AIAnalysis], error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.repos.Analyses.ListAnalyses(ctx, f)
	if err != nil {
		return domain.ListResult[domain.AIAnalysis]{}, err
	}
	return domain.ListResult[domain.AIAnalysis]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

func (s *Service) notify(ctx context.Context, kind domain.EntityKind, id string, std domain.Standard, op string) {
	s.changes.Changed(ctx, domain.EntityChanged{Kind: kind, ID: id, Standard: std, Operation: op, OccurredAt: s.now().UTC()})
}

func invalid(field, msg string) error {
	var v domain.Validator
	v.Add(field, msg)
	return v.Err()
}
