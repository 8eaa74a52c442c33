// Package dashboard composes the request-scoped dashboard snapshot from
// already-fetched register collections. It performs no I/O.
package dashboard

import (
	"cmp"
	"slices"
	"time"

	"ims/internal/compliance"
	"ims/internal/domain"
	"ims/internal/scoring"
)

// TopN bounds every list in a snapshot.
const TopN = 5

// DueSoonWindow is the look-ahead for "due this week"; both ends inclusive.
const DueSoonWindow = 7 * 24 * time.Hour

// View is the collection set a snapshot is built from.
type View struct {
	compliance.Register
	Analyses      []domain.AIAnalysis
	SafetyPeriods []domain.SafetyMetricPeriod
}

type RiskCounts struct {
	Total    int `json:"total"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

type IncidentCounts struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	ThisMonth int `json:"thisMonth"`
}

type ActionCounts struct {
	Total       int `json:"total"`
	Open        int `json:"open"`
	Overdue     int `json:"overdue"`
	DueThisWeek int `json:"dueThisWeek"`
}

// Snapshot is never persisted or shared between requests.
type Snapshot struct {
	GeneratedAt    time.Time                `json:"generatedAt"`
	Compliance     []domain.ComplianceScore `json:"compliance"`
	OverallScore   int                      `json:"overallScore"`
	Risks          RiskCounts               `json:"risks"`
	Incidents      IncidentCounts           `json:"incidents"`
	Actions        ActionCounts             `json:"actions"`
	Safety         scoring.Summary          `json:"safety"`
	TopRisks       []domain.Risk            `json:"topRisks"`
	OverdueActions []domain.Action          `json:"overdueActions"`
	RecentAnalyses []domain.AIAnalysis      `json:"recentAnalyses"`
}

// Composer binds the configured scorers and aggregator.
type Composer struct {
	risk       *scoring.OrdinalScorer
	aggregator *compliance.Aggregator
}

func NewComposer(risk *scoring.OrdinalScorer, aggregator *compliance.Aggregator) *Composer {
	return &Composer{risk: risk, aggregator: aggregator}
}

// Compose builds the snapshot for time now. Safety figures cover the calendar
// year of now.
func (c *Composer) Compose(now time.Time, v View) Snapshot {
	scores := c.aggregator.AggregateAll(now, v.Register)
	return Snapshot{
		GeneratedAt:    now,
		Compliance:     scores,
		OverallScore:   compliance.Overall(scores),
		Risks:          c.riskCounts(v.Risks),
		Incidents:      incidentCounts(now, v.Incidents),
		Actions:        actionCounts(now, v.Actions),
		Safety:         safetySummary(now.Year(), v.SafetyPeriods),
		TopRisks:       TopRisks(v.Risks, TopN),
		OverdueActions: OverdueActions(now, v.Actions, TopN),
		RecentAnalyses: RecentAnalyses(v.Analyses, TopN),
	}
}

func (c *Composer) riskCounts(risks []domain.Risk) RiskCounts {
	var out RiskCounts
	for _, r := range risks {
		if !r.Active() {
			continue
		}
		out.Total++
		switch c.risk.Level(r.Score) {
		case scoring.LevelHigh:
			out.High++
		case scoring.LevelCritical:
			out.Critical++
		}
	}
	return out
}

func incidentCounts(now time.Time, incidents []domain.Incident) IncidentCounts {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)
	var out IncidentCounts
	for _, i := range incidents {
		out.Total++
		if i.Status != domain.IncidentClosed {
			out.Open++
		}
		occurred := i.DateOccurred.In(now.Location())
		if !occurred.Before(monthStart) && occurred.Before(nextMonth) {
			out.ThisMonth++
		}
	}
	return out
}

func actionCounts(now time.Time, actions []domain.Action) ActionCounts {
	horizon := now.Add(DueSoonWindow)
	var out ActionCounts
	for _, a := range actions {
		out.Total++
		if !a.Status.IsOpen() {
			continue
		}
		out.Open++
		if a.Overdue(now) {
			out.Overdue++
		}
		if !a.DueDate.Before(now) && !a.DueDate.After(horizon) {
			out.DueThisWeek++
		}
	}
	return out
}

func safetySummary(year int, periods []domain.SafetyMetricPeriod) scoring.Summary {
	counts := make([]scoring.Counts, 0, len(periods))
	for _, p := range periods {
		if p.Year != year {
			continue
		}
		counts = append(counts, scoring.Counts{
			HoursWorked:             p.HoursWorked,
			LostTimeInjuries:        p.LostTimeInjuries,
			TotalRecordableInjuries: p.TotalRecordableInjuries,
			DaysLost:                p.DaysLost,
			NearMisses:              p.NearMisses,
		})
	}
	return scoring.YearToDate(year, counts)
}

// TopRisks returns up to n active risks by score descending. Equal scores put
// the most recently created first, then order by ID.
func TopRisks(risks []domain.Risk, n int) []domain.Risk {
	active := make([]domain.Risk, 0, len(risks))
	for _, r := range risks {
		if r.Active() {
			active = append(active, r)
		}
	}
	slices.SortFunc(active, func(a, b domain.Risk) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return head(active, n)
}

// OverdueActions returns up to n overdue open actions, earliest due first.
func OverdueActions(now time.Time, actions []domain.Action, n int) []domain.Action {
	overdue := make([]domain.Action, 0)
	for _, a := range actions {
		if a.Overdue(now) {
			overdue = append(overdue, a)
		}
	}
	slices.SortFunc(overdue, func(a, b domain.Action) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return head(overdue, n)
}

// RecentAnalyses returns up to n completed analyses, newest first.
func RecentAnalyses(analyses []domain.AIAnalysis, n int) []domain.AIAnalysis {
	done := make([]domain.AIAnalysis, 0)
	for _, a := range analyses {
		if a.Status == domain.AnalysisCompleted {
			done = append(done, a)
		}
	}
	slices.SortFunc(done, func(a, b domain.AIAnalysis) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return head(done, n)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n:n]
	}
	return s
}
