package aspects

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/ports"
)

const DefaultFactor = 3

// Service manages environmental aspects. Aspects always belong to ISO 14001.
type Service struct {
	repo    ports.AspectRepository
	engine  *engine.Holder
	changes ports.ChangeNotifier
	now     func() time.Time
}

func New(repo ports.AspectRepository, eng *engine.Holder, changes ports.ChangeNotifier) *Service {
	return &Service{repo: repo, engine: eng, changes: changes, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, in domain.AspectInput) (domain.EnvironmentalAspect, error) {
	now := s.now().UTC()
	a := domain.EnvironmentalAspect{
		ID:         uuid.NewString(),
		Activity:   strings.TrimSpace(in.Activity),
		Aspect:     strings.TrimSpace(in.Aspect),
		Impact:     in.Impact,
		Likelihood: factorOr(in.Likelihood),
		Severity:   factorOr(in.Severity),
		Frequency:  factorOr(in.Frequency),
		Status:     domain.RiskIdentified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if err := validate(a); err != nil {
		return domain.EnvironmentalAspect{}, err
	}
	s.rescore(&a)
	if err := s.repo.CreateAspect(ctx, &a); err != nil {
		return domain.EnvironmentalAspect{}, err
	}
	s.notify(ctx, a, "created")
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.EnvironmentalAspect, error) {
	return s.repo.GetAspect(ctx, id)
}

func (s *Service) List(ctx context.Context, f domain.AspectFilter) (domain.ListResult[domain.EnvironmentalAspect], error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.repo.ListAspects(ctx, f)
	if err != nil {
		return domain.ListResult[domain.EnvironmentalAspect]{}, err
	}
	return domain.ListResult[domain.EnvironmentalAspect]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

// Update applies a partial update and always recomputes significance.
func (s *Service) Update(ctx context.Context, id string, in domain.AspectPatch) (domain.EnvironmentalAspect, error) {
	a, err := s.repo.GetAspect(ctx, id)
	if err != nil {
		return domain.EnvironmentalAspect{}, err
	}
	if in.Activity != nil {
		a.Activity = strings.TrimSpace(*in.Activity)
	}
	if in.Aspect != nil {
		a.Aspect = strings.TrimSpace(*in.Aspect)
	}
	if in.Impact != nil {
		a.Impact = *in.Impact
	}
	if in.Likelihood != nil {
		a.Likelihood = *in.Likelihood
	}
	if in.Severity != nil {
		a.Severity = *in.Severity
	}
	if in.Frequency != nil {
		a.Frequency = *in.Frequency
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if err := validate(a); err != nil {
		return domain.EnvironmentalAspect{}, err
	}
	s.rescore(&a)
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateAspect(ctx, &a); err != nil {
		return domain.EnvironmentalAspect{}, err
	}
	s.notify(ctx, a, "updated")
	return a, nil
}

func (s *Service) rescore(a *domain.EnvironmentalAspect) {
	res := s.engine.Current().Scorers.Aspect.Score(a.Likelihood, a.Severity, a.Frequency)
	a.Score, a.Level = res.Score, res.Level
}

func (s *Service) notify(ctx context.Context, a domain.EnvironmentalAspect, op string) {
	s.changes.Changed(ctx, domain.EntityChanged{
		Kind: domain.KindAspect, ID: a.ID, Standard: domain.ISO14001, Operation: op, OccurredAt: a.UpdatedAt,
	})
}

func validate(a domain.EnvironmentalAspect) error {
	var v domain.Validator
	v.Check(a.Activity != "", "activity", "is required")
	v.Check(a.Aspect != "", "aspect", "is required")
	v.Check(a.Status.Valid(), "status", "is not a known status")
	v.Factor("likelihood", a.Likelihood)
	v.Factor("severity", a.Severity)
	v.Factor("frequency", a.Frequency)
	return v.Err()
}

func factorOr(p *int) int {
	if p == nil {
		return DefaultFactor
	}
	return *p
}
