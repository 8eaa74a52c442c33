// Package memory is a process-local implementation of every repository port.
// It backs the test suites and the STORE=memory serve mode.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ims/internal/domain"
)

type Store struct {
	mu        sync.RWMutex
	risks     map[string]domain.Risk
	aspects   map[string]domain.EnvironmentalAspect
	incidents map[string]domain.Incident
	actions   map[string]domain.Action
	legal     map[string]domain.LegalRequirement
	safety    map[[2]int]domain.SafetyMetricPeriod
	analyses  map[string]domain.AIAnalysis
	snapshots []domain.ComplianceSnapshot
}

func New() *Store {
	return &Store{
		risks:     map[string]domain.Risk{},
		aspects:   map[string]domain.EnvironmentalAspect{},
		incidents: map[string]domain.Incident{},
		actions:   map[string]domain.Action{},
		legal:     map[string]domain.LegalRequirement{},
		safety:    map[[2]int]domain.SafetyMetricPeriod{},
		analyses:  map[string]domain.AIAnalysis{},
	}
}

// Risks

func (s *Store) CreateRisk(_ context.Context, r *domain.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.risks, r.ID, *r)
}

func (s *Store) GetRisk(_ context.Context, id string) (domain.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.risks, id)
}

func (s *Store) UpdateRisk(_ context.Context, r *domain.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(s.risks, r.ID, *r)
}

func (s *Store) DeleteRisk(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.risks, id)
	return nil
}

func (s *Store) ListRisks(_ context.Context, f domain.RiskFilter) ([]domain.Risk, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.risks, func(r domain.Risk) bool {
		return eq(f.Standard, r.Standard) && eq(f.Status, r.Status) && eq(f.Level, r.Level) &&
			(f.MinScore == nil || r.Score >= *f.MinScore) &&
			(f.Search == nil || contains(*f.Search, r.Title, r.Description))
	})
	slices.SortFunc(out, func(a, b domain.Risk) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return paginate(out, f.Page)
}

func (s *Store) AllRisks(_ context.Context, std *domain.Standard) ([]domain.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.risks, func(r domain.Risk) bool { return eq(std, r.Standard) }), nil
}

// Aspects

func (s *Store) CreateAspect(_ context.Context, a *domain.EnvironmentalAspect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.aspects, a.ID, *a)
}

func (s *Store) GetAspect(_ context.Context, id string) (domain.EnvironmentalAspect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.aspects, id)
}

func (s *Store) UpdateAspect(_ context.Context, a *domain.EnvironmentalAspect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(s.aspects, a.ID, *a)
}

func (s *Store) ListAspects(_ context.Context, f domain.AspectFilter) ([]domain.EnvironmentalAspect, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.aspects, func(a domain.EnvironmentalAspect) bool {
		return eq(f.Status, a.Status) && eq(f.Level, a.Level) &&
			(f.Search == nil || contains(*f.Search, a.Activity, a.Aspect))
	})
	slices.SortFunc(out, func(a, b domain.EnvironmentalAspect) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return paginate(out, f.Page)
}

// Incidents

func (s *Store) CreateIncident(_ context.Context, i *domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.incidents, i.ID, *i)
}

func (s *Store) GetIncident(_ context.Context, id string) (domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.incidents, id)
}

func (s *Store) UpdateIncident(_ context.Context, i *domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(s.incidents, i.ID, *i)
}

func (s *Store) ListIncidents(_ context.Context, f domain.IncidentFilter) ([]domain.Incident, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.incidents, func(i domain.Incident) bool {
		return eq(f.Standard, i.Standard) && eq(f.Status, i.Status)
	})
	slices.SortFunc(out, func(a, b domain.Incident) int {
		return cmp.Or(b.DateOccurred.Compare(a.DateOccurred), cmp.Compare(a.ID, b.ID))
	})
	return paginate(out, f.Page)
}

func (s *Store) AllIncidents(_ context.Context, std *domain.Standard) ([]domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.incidents, func(i domain.Incident) bool { return eq(std, i.Standard) }), nil
}

// Actions

func (s *Store) CreateAction(_ context.Context, a *domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.actions, a.ID, *a)
}

func (s *Store) GetAction(_ context.Context, id string) (domain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.actions, id)
}

func (s *Store) UpdateAction(_ context.Context, a *domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(s.actions, a.ID, *a)
}

func (s *Store) ListActions(_ context.Context, f domain.ActionFilter, now time.Time) ([]domain.Action, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.actions, func(a domain.Action) bool {
		return eq(f.Standard, a.Standard) && eq(f.Status, a.Status) && (!f.OverdueOnly || a.Overdue(now))
	})
	slices.SortFunc(out, func(a, b domain.Action) int {
		return cmp.Or(a.DueDate.Compare(b.DueDate), cmp.Compare(a.ID, b.ID))
	})
	return paginate(out, f.Page)
}

func (s *Store) AllActions(_ context.Context, std *domain.Standard) ([]domain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.actions, func(a domain.Action) bool { return eq(std, a.Standard) }), nil
}

// Legal requirements

func (s *Store) CreateLegalRequirement(_ context.Context, l *domain.LegalRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.legal, l.ID, *l)
}

func (s *Store) GetLegalRequirement(_ context.Context, id string) (domain.LegalRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.legal, id)
}

func (s *Store) UpdateLegalRequirement(_ context.Context, l *domain.LegalRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(s.legal, l.ID, *l)
}

func (s *Store) ListLegalRequirements(_ context.Context, f domain.LegalFilter) ([]domain.LegalRequirement, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.legal, func(l domain.LegalRequirement) bool {
		return eq(f.Standard, l.Standard) && eq(f.ComplianceStatus, l.ComplianceStatus)
	})
	slices.SortFunc(out, func(a, b domain.LegalRequirement) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return paginate(out, f.Page)
}

func (s *Store) AllLegalRequirements(_ context.Context, std *domain.Standard) ([]domain.LegalRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.legal, func(l domain.LegalRequirement) bool { return eq(std, l.Standard) }), nil
}

// Safety metrics

// UpsertSafetyMetric keeps the id of an existing (year, month) row.
func (s *Store) UpsertSafetyMetric(_ context.Context, p *domain.SafetyMetricPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{p.Year, p.Month}
	if prev, ok := s.safety[key]; ok {
		p.ID = prev.ID
	} else if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.safety[key] = *p
	return nil
}

func (s *Store) ListSafetyMetrics(_ context.Context, year int) ([]domain.SafetyMetricPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SafetyMetricPeriod
	for _, p := range s.safety {
		if p.Year == year {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.SafetyMetricPeriod) int { return cmp.Compare(a.Month, b.Month) })
	return out, nil
}

// Analyses

func (s *Store) CreateAnalysis(_ context.Context, a *domain.AIAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.analyses, a.ID, *a)
}

func (s *Store) ListAnalyses(_ context.Context, f domain.AnalysisFilter) ([]domain.AIAnalysis, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.analyses, func(a domain.AIAnalysis) bool { return eq(f.Status, a.Status) })
	sortAnalyses(out)
	return paginate(out, f.Page)
}

func (s *Store) RecentAnalyses(_ context.Context, status domain.AnalysisStatus, limit int) ([]domain.AIAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.analyses, func(a domain.AIAnalysis) bool { return a.Status == status })
	sortAnalyses(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortAnalyses(out []domain.AIAnalysis) {
	slices.SortFunc(out, func(a, b domain.AIAnalysis) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
}

// Snapshots

func (s *Store) RecordSnapshots(_ context.Context, snaps []domain.ComplianceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snaps...)
	return nil
}

// LatestSnapshots returns the most recent snapshot of each standard.
func (s *Store) LatestSnapshots(_ context.Context) ([]domain.ComplianceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ComplianceSnapshot
	for _, std := range domain.Standards {
		var latest *domain.ComplianceSnapshot
		for i := range s.snapshots {
			sn := &s.snapshots[i]
			if sn.Standard == std && (latest == nil || !sn.RecordedAt.Before(latest.RecordedAt)) {
				latest = sn
			}
		}
		if latest != nil {
			out = append(out, *latest)
		}
	}
	return out, nil
}

func (s *Store) SnapshotHistory(_ context.Context, std domain.Standard, since time.Time) ([]domain.ComplianceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ComplianceSnapshot
	for _, sn := range s.snapshots {
		if sn.Standard == std && !sn.RecordedAt.Before(since) {
			out = append(out, sn)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ComplianceSnapshot) int { return a.RecordedAt.Compare(b.RecordedAt) })
	return out, nil
}

func insert[T any](m map[string]T, id string, v T) error {
	if id == "" {
		return domain.ErrConflict
	}
	if _, ok := m[id]; ok {
		return domain.ErrConflict
	}
	m[id] = v
	return nil
}

func get[T any](m map[string]T, id string) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return v, nil
}

func update[T any](m map[string]T, id string, v T) error {
	if _, ok := m[id]; !ok {
		return domain.ErrNotFound
	}
	m[id] = v
	return nil
}

func filter[T any](m map[string]T, keep func(T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func paginate[T any](items []T, p domain.Page) ([]T, int, error) {
	p = p.Normalize()
	total := len(items)
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return items[start:end], total, nil
}

func eq[T comparable](want *T, got T) bool {
	return want == nil || *want == got
}

func contains(needle string, haystack ...string) bool {
	needle = strings.ToLower(needle)
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
