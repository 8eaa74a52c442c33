// Package compliance serves per-standard compliance scores. Scores are cached
// per standard and dropped whenever a write touches that standard.
package compliance

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	core "ims/internal/compliance"
	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/ports"
)

type Repos struct {
	Risks     ports.RiskRepository
	Incidents ports.IncidentRepository
	Actions   ports.ActionRepository
	Legal     ports.LegalRepository
	Snapshots ports.SnapshotRepository
}

type Service struct {
	repos     Repos
	engine    *engine.Holder
	cache     ports.ScoreCache
	publisher ports.EventPublisher
	log       *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func New(repos Repos, eng *engine.Holder, cache ports.ScoreCache, publisher ports.EventPublisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repos:     repos,
		engine:    eng,
		cache:     cache,
		publisher: publisher,
		log:       log.With("component", "compliance"),
		tracer:    otel.Tracer("ims-compliance"),
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Changed drops cached scores for the affected standard and publishes the
// event. Failures are logged; the write has already committed.
func (s *Service) Changed(ctx context.Context, ev domain.EntityChanged) {
	stds := domain.Standards
	if ev.Standard != "" {
		stds = []domain.Standard{ev.Standard}
	}
	if err := s.cache.Invalidate(ctx, stds...); err != nil {
		s.log.Warn("cache invalidate failed", "kind", ev.Kind, "id", ev.ID, "err", err)
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publish failed", "kind", ev.Kind, "id", ev.ID, "err", err)
	}
}

// Score returns the compliance score of one standard. A cached entry is used
// only while it still equals a recomputation: same scoring tables and no open
// action has fallen overdue since.
func (s *Service) Score(ctx context.Context, std domain.Standard) (domain.ComplianceScore, error) {
	if !std.Valid() {
		var v domain.Validator
		v.Add("standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
		return domain.ComplianceScore{}, v.Err()
	}
	ctx, span := s.tracer.Start(ctx, "compliance.score", trace.WithAttributes(attribute.String("standard", string(std))))
	defer span.End()

	eng := s.engine.Current()
	now := s.now()
	if c, ok, err := s.cache.Get(ctx, std); err != nil {
		s.log.Warn("cache read failed", "standard", std, "err", err)
	} else if ok && c.Fresh(eng.Fingerprint, now) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return c.Score, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	reg, err := s.register(ctx, &std)
	if err != nil {
		span.RecordError(err)
		return domain.ComplianceScore{}, err
	}
	score := eng.Aggregator.Aggregate(std, now, reg)
	entry := domain.CachedScore{
		Score:      score,
		Tables:     eng.Fingerprint,
		ValidUntil: core.StableUntil(std, now, reg),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.log.Warn("cache write failed", "standard", std, "err", err)
	}
	return score, nil
}

// All scores every standard and the IMS overall.
func (s *Service) All(ctx context.Context) ([]domain.ComplianceScore, int, error) {
	scores := make([]domain.ComplianceScore, 0, len(domain.Standards))
	for _, std := range domain.Standards {
		score, err := s.Score(ctx, std)
		if err != nil {
			return nil, 0, err
		}
		scores = append(scores, score)
	}
	return scores, core.Overall(scores), nil
}

// RecordSnapshots computes fresh scores, bypassing the cache, and stores
// them as one history point.
func (s *Service) RecordSnapshots(ctx context.Context) ([]domain.ComplianceSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.snapshot")
	defer span.End()

	reg, err := s.register(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	now := s.now().UTC()
	scores := s.engine.Current().Aggregator.AggregateAll(now, reg)
	snaps := make([]domain.ComplianceSnapshot, len(scores))
	for i, sc := range scores {
		snaps[i] = domain.ComplianceSnapshot{ComplianceScore: sc, RecordedAt: now}
	}
	if err := s.repos.Snapshots.RecordSnapshots(ctx, snaps); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return snaps, nil
}

func (s *Service) History(ctx context.Context, std domain.Standard, since time.Time) ([]domain.ComplianceSnapshot, error) {
	if !std.Valid() {
		var v domain.Validator
		v.Add("standard", "must be one of ISO_45001, ISO_14001, ISO_9001")
		return nil, v.Err()
	}
	return s.repos.Snapshots.SnapshotHistory(ctx, std, since)
}

func (s *Service) register(ctx context.Context, std *domain.Standard) (core.Register, error) {
	var (
		reg core.Register
		err error
	)
	if reg.Risks, err = s.repos.Risks.AllRisks(ctx, std); err != nil {
		return reg, err
	}
	if reg.Incidents, err = s.repos.Incidents.AllIncidents(ctx, std); err != nil {
		return reg, err
	}
	if reg.Actions, err = s.repos.Actions.AllActions(ctx, std); err != nil {
		return reg, err
	}
	if reg.Legal, err = s.repos.Legal.AllLegalRequirements(ctx, std); err != nil {
		return reg, err
	}
	return reg, nil
}
