package dashboard

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	core "ims/internal/dashboard"
	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/ports"
)

type Repos struct {
	Risks     ports.RiskRepository
	Incidents ports.IncidentRepository
	Actions   ports.ActionRepository
	Legal     ports.LegalRepository
	Analyses  ports.AnalysisRepository
	Safety    ports.SafetyMetricRepository
}

// Service loads the registers concurrently and hands them to the composer.
type Service struct {
	repos  Repos
	engine *engine.Holder
	tracer trace.Tracer
	now    func() time.Time
}

func New(repos Repos, eng *engine.Holder) *Service {
	return &Service{repos: repos, engine: eng, tracer: otel.Tracer("ims-dashboard"), now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Snapshot(ctx context.Context) (core.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.snapshot")
	defer span.End()

	now := s.now()
	var v core.View
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		v.Risks, err = s.repos.Risks.AllRisks(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		v.Incidents, err = s.repos.Incidents.AllIncidents(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		v.Actions, err = s.repos.Actions.AllActions(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		v.Legal, err = s.repos.Legal.AllLegalRequirements(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		v.Analyses, err = s.repos.Analyses.RecentAnalyses(gctx, domain.AnalysisCompleted, core.TopN)
		return err
	})
	g.Go(func() (err error) {
		v.SafetyPeriods, err = s.repos.Safety.ListSafetyMetrics(gctx, now.Year())
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return core.Snapshot{}, err
	}
	return s.engine.Current().Composer.Compose(now, v), nil
}
