package risks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/ports"
)

// DefaultFactor is used for any factor omitted at creation.
const DefaultFactor = 3

type Service struct {
	repo    ports.RiskRepository
	engine  *engine.Holder
	changes ports.ChangeNotifier
	now     func() time.Time
}

func New(repo ports.RiskRepository, eng *engine.Holder, changes ports.ChangeNotifier) *Service {
	return &Service{repo: repo, engine: eng, changes: changes, now: time.Now}
}

// WithClock overrides the clock for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, in domain.RiskInput) (domain.Risk, error) {
	now := s.now().UTC()
	r := domain.Risk{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Standard:      in.Standard,
		Likelihood:    valueOr(in.Likelihood, DefaultFactor),
		Severity:      valueOr(in.Severity, DefaultFactor),
		Detectability: valueOr(in.Detectability, DefaultFactor),
		Status:        valueOr(in.Status, domain.RiskIdentified),
		Owner:         in.Owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validate(r); err != nil {
		return domain.Risk{}, err
	}
	s.rescore(&r)
	if err := s.repo.CreateRisk(ctx, &r); err != nil {
		return domain.Risk{}, err
	}
	s.changes.Changed(ctx, changed(r, "created", now))
	return r, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Risk, error) {
	return s.repo.GetRisk(ctx, id)
}

func (s *Service) List(ctx context.Context, f domain.RiskFilter) (domain.ListResult[domain.Risk], error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.repo.ListRisks(ctx, f)
	if err != nil {
		return domain.ListResult[domain.Risk]{}, err
	}
	return domain.ListResult[domain.Risk]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

// Update applies a partial update. Score and level are recomputed on every
// update so they always match the stored factors.
func (s *Service) Update(ctx context.Context, id string, in domain.RiskPatch) (domain.Risk, error) {
	r, err := s.repo.GetRisk(ctx, id)
	if err != nil {
		return domain.Risk{}, err
	}
	prevStandard := r.Standard
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Standard != nil {
		r.Standard = *in.Standard
	}
	if in.Likelihood != nil {
		r.Likelihood = *in.Likelihood
	}
	if in.Severity != nil {
		r.Severity = *in.Severity
	}
	if in.Detectability != nil {
		r.Detectability = *in.Detectability
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
	if in.Owner != nil {
		r.Owner = *in.Owner
	}
	if err := validate(r); err != nil {
		return domain.Risk{}, err
	}
	s.rescore(&r)
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateRisk(ctx, &r); err != nil {
		return domain.Risk{}, err
	}
	if prevStandard != r.Standard {
		s.changes.Changed(ctx, domain.EntityChanged{Kind: domain.KindRisk, ID: r.ID, Standard: prevStandard, Operation: "moved", OccurredAt: r.UpdatedAt})
	}
	s.changes.Changed(ctx, changed(r, "updated", r.UpdatedAt))
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	r, err := s.repo.GetRisk(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRisk(ctx, id); err != nil {
		return err
	}
	s.changes.Changed(ctx, changed(r, "deleted", s.now().UTC()))
	return nil
}

func (s *Service) rescore(r *domain.Risk) {
	res := s.engine.Current().Scorers.Risk.Score(r.Likelihood, r.Severity, r.Detectability)
	r.Score, r.Level = res.Score, res.Level
}

func validate(r domain.Risk) error {
	var v domain.Validator
	v.Check(r.Title != "", "title", "is required")
	v.Check(r.Standard.Valid(), "standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
	v.Check(r.Status.Valid(), "status", "is not a known risk status")
	v.Factor("likelihood", r.Likelihood)
	v.Factor("severity", r.Severity)
	v.Factor("detectability", r.Detectability)
	return v.Err()
}

func changed(r domain.Risk, op string, at time.Time) domain.EntityChanged {
	return domain.EntityChanged{Kind: domain.KindRisk, ID: r.ID, Standard: r.Standard, Operation: op, OccurredAt: at}
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
