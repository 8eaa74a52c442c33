package dashboard

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ims/internal/compliance"
	"ims/internal/domain"
	"ims/internal/scoring"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newComposer() *Composer {
	risk := scoring.DefaultScorers().Risk
	return NewComposer(risk, compliance.NewAggregator(risk, nil))
}

func risk(id string, score int, created time.Time) domain.Risk {
	return domain.Risk{ID: id, Standard: domain.ISO45001, Score: score, Status: domain.RiskAssessed, CreatedAt: created}
}

func TestTopRisksOrderingAndTieBreak(t *testing.T) {
	base := now.Add(-72 * time.Hour)
	risks := []domain.Risk{
		risk("a", 60, base),
		risk("b", 100, base),
		risk("c", 60, base.Add(time.Hour)),
		risk("d", 12, base),
		risk("e", 60, base.Add(2*time.Hour)),
		risk("f", 27, base),
		risk("g", 125, base),
	}
	risks = append(risks, domain.Risk{ID: "closed", Score: 125, Status: domain.RiskClosed})

	top := TopRisks(risks, TopN)
	ids := make([]string, len(top))
	for i, r := range top {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"g", "b", "e", "c", "a"}, ids)
}

func TestTopRisksProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 100; round++ {
		n := rng.Intn(20)
		risks := make([]domain.Risk, n)
		for i := range risks {
			score := (rng.Intn(5) + 1) * (rng.Intn(5) + 1)
			risks[i] = risk(fmt.Sprintf("r%02d", i), score, now.Add(-time.Duration(rng.Intn(5))*time.Hour))
		}

		top := TopRisks(risks, TopN)
		require.LessOrEqual(t, len(top), TopN)
		require.Equal(t, min(n, TopN), len(top))
		for i := 1; i < len(top); i++ {
			prev, cur := top[i-1], top[i]
			require.GreaterOrEqual(t, prev.Score, cur.Score)
			if prev.Score == cur.Score {
				require.False(t, prev.CreatedAt.Before(cur.CreatedAt), "later createdAt must come first")
			}
		}
	}
}

func TestTopRisksDoesNotReorderInput(t *testing.T) {
	risks := []domain.Risk{risk("a", 1, now), risk("b", 125, now)}
	_ = TopRisks(risks, TopN)
	assert.Equal(t, "a", risks[0].ID)
}

func TestOverdueActions(t *testing.T) {
	actions := []domain.Action{
		{ID: "late-1", Status: domain.ActionOpen, DueDate: now.Add(-24 * time.Hour)},
		{ID: "late-5", Status: domain.ActionInProgress, DueDate: now.Add(-120 * time.Hour)},
		{ID: "done", Status: domain.ActionCompleted, DueDate: now.Add(-500 * time.Hour)},
		{ID: "future", Status: domain.ActionOpen, DueDate: now.Add(24 * time.Hour)},
		{ID: "late-3", Status: domain.ActionOpen, DueDate: now.Add(-72 * time.Hour)},
		{ID: "late-2", Status: domain.ActionOpen, DueDate: now.Add(-48 * time.Hour)},
		{ID: "late-4", Status: domain.ActionOpen, DueDate: now.Add(-96 * time.Hour)},
		{ID: "late-6", Status: domain.ActionOpen, DueDate: now.Add(-144 * time.Hour)},
	}
	got := OverdueActions(now, actions, TopN)
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"late-6", "late-5", "late-4", "late-3", "late-2"}, ids)
}

func TestRecentAnalyses(t *testing.T) {
	var analyses []domain.AIAnalysis
	for i := 0; i < 7; i++ {
		analyses = append(analyses, domain.AIAnalysis{
			ID:        fmt.Sprintf("a%d", i),
			Status:    domain.AnalysisCompleted,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	analyses = append(analyses, domain.AIAnalysis{ID: "pending", Status: domain.AnalysisPending, CreatedAt: now.Add(time.Hour)})

	got := RecentAnalyses(analyses, TopN)
	require.Len(t, got, TopN)
	assert.Equal(t, "a6", got[0].ID)
	assert.Equal(t, "a2", got[4].ID)
}

func TestComposeCounts(t *testing.T) {
	view := View{
		Register: compliance.Register{
			Risks: []domain.Risk{
				risk("crit", 100, now),
				risk("high", 48, now),
				risk("low", 4, now),
				{ID: "closed", Score: 125, Status: domain.RiskClosed},
			},
			Incidents: []domain.Incident{
				{Standard: domain.ISO45001, Status: domain.IncidentOpen, DateOccurred: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
				{Standard: domain.ISO45001, Status: domain.IncidentClosed, DateOccurred: time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)},
				{Standard: domain.ISO9001, Status: domain.IncidentInvestigating, DateOccurred: time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC)},
				{Standard: domain.ISO9001, Status: domain.IncidentClosed, DateOccurred: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
			},
			Actions: []domain.Action{
				{ID: "overdue", Standard: domain.ISO45001, Status: domain.ActionOpen, DueDate: now.Add(-time.Hour)},
				{ID: "now", Standard: domain.ISO45001, Status: domain.ActionOpen, DueDate: now},
				{ID: "edge", Standard: domain.ISO45001, Status: domain.ActionInProgress, DueDate: now.Add(DueSoonWindow)},
				{ID: "past-edge", Standard: domain.ISO45001, Status: domain.ActionOpen, DueDate: now.Add(DueSoonWindow + time.Second)},
				{ID: "done", Standard: domain.ISO45001, Status: domain.ActionCompleted, DueDate: now.Add(time.Hour)},
			},
		},
		SafetyPeriods: []domain.SafetyMetricPeriod{
			{Year: 2025, Month: 1, HoursWorked: 100000, LostTimeInjuries: 1},
			{Year: 2025, Month: 2, HoursWorked: 100000, LostTimeInjuries: 1},
			{Year: 2024, Month: 12, HoursWorked: 100000, LostTimeInjuries: 9},
		},
	}

	snap := newComposer().Compose(now, view)

	assert.Equal(t, now, snap.GeneratedAt)
	assert.Equal(t, RiskCounts{Total: 3, High: 1, Critical: 1}, snap.Risks)
	assert.Equal(t, IncidentCounts{Total: 4, Open: 2, ThisMonth: 2}, snap.Incidents)
	assert.Equal(t, ActionCounts{Total: 5, Open: 4, Overdue: 1, DueThisWeek: 2}, snap.Actions)
	assert.Equal(t, 2.0, snap.Safety.Rates.LTIFR)
	assert.Equal(t, 2, snap.Safety.Months)
	require.Len(t, snap.OverdueActions, 1)
	assert.Equal(t, "overdue", snap.OverdueActions[0].ID)
	require.Len(t, snap.TopRisks, 3)
	assert.Equal(t, "crit", snap.TopRisks[0].ID)
	require.Len(t, snap.Compliance, len(domain.Standards))
	assert.Equal(t, compliance.Overall(snap.Compliance), snap.OverallScore)
	assert.Empty(t, snap.RecentAnalyses)
}

func TestComposeEmptyView(t *testing.T) {
	snap := newComposer().Compose(now, View{})
	assert.Equal(t, 100, snap.OverallScore)
	assert.Empty(t, snap.TopRisks)
	assert.Empty(t, snap.OverdueActions)
	assert.Equal(t, ActionCounts{}, snap.Actions)
}
