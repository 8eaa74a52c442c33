package registers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ims/internal/adapters/memory"
	"ims/internal/domain"
)

var now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func newService() (*Service, *memory.Recorder) {
	store := memory.New()
	rec := &memory.Recorder{}
	svc := New(Repos{Incidents: store, Actions: store, Legal: store, Analyses: store}, rec).
		WithClock(func() time.Time { return now })
	return svc, rec
}

func TestIncidentLifecycle(t *testing.T) {
	svc, rec := newService()
	ctx := context.Background()

	i, err := svc.CreateIncident(ctx, domain.IncidentInput{Title: "Slip", Standard: domain.ISO45001, DateOccurred: now.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentOpen, i.Status)
	assert.Nil(t, i.ClosedAt)

	i, err = svc.SetIncidentStatus(ctx, i.ID, domain.IncidentClosed)
	require.NoError(t, err)
	require.NotNil(t, i.ClosedAt)
	assert.Equal(t, now, *i.ClosedAt)

	i, err = svc.SetIncidentStatus(ctx, i.ID, domain.IncidentInvestigating)
	require.NoError(t, err)
	assert.Nil(t, i.ClosedAt)

	assert.Len(t, rec.Events(), 3)
}

func TestIncidentValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateIncident(ctx, domain.IncidentInput{Title: "Later", Standard: domain.ISO45001, DateOccurred: now.Add(time.Hour)})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "dateOccurred")

	_, err = svc.SetIncidentStatus(ctx, "missing", "DONE")
	assert.True(t, domain.IsValidation(err))
	_, err = svc.SetIncidentStatus(ctx, "missing", domain.IncidentClosed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActionCompletionStampsCompletedAt(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, err := svc.CreateAction(ctx, domain.ActionInput{Title: "Guard rail", Standard: domain.ISO45001, DueDate: now.Add(-24 * time.Hour)})
	require.NoError(t, err)

	overdue, err := svc.ListActions(ctx, domain.ActionFilter{OverdueOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, overdue.Total)

	a, err = svc.SetActionStatus(ctx, a.ID, domain.ActionCompleted)
	require.NoError(t, err)
	require.NotNil(t, a.CompletedAt)

	overdue, err = svc.ListActions(ctx, domain.ActionFilter{OverdueOnly: true})
	require.NoError(t, err)
	assert.Zero(t, overdue.Total)
}

func TestActionRequiresDueDate(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreateAction(context.Background(), domain.ActionInput{Title: "x", Standard: domain.ISO9001})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "dueDate")
}

func TestLegalRequirementStatus(t *testing.T) {
	svc, rec := newService()
	ctx := context.Background()

	l, err := svc.CreateLegalRequirement(ctx, domain.LegalInput{Title: "Permit", Standard: domain.ISO14001})
	require.NoError(t, err)
	assert.Equal(t, domain.NotAssessed, l.ComplianceStatus)

	l, err = svc.SetLegalStatus(ctx, l.ID, domain.Compliant)
	require.NoError(t, err)
	assert.Equal(t, domain.Compliant, l.ComplianceStatus)

	std := domain.ISO14001
	status := domain.Compliant
	res, err := svc.ListLegalRequirements(ctx, domain.LegalFilter{Standard: &std, ComplianceStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	for _, ev := range rec.Events() {
		assert.Equal(t, domain.KindLegal, ev.Kind)
		assert.Equal(t, domain.ISO14001, ev.Standard)
	}
}

func TestAnalyses(t *testing.T) {
	svc, rec := newService()
	ctx := context.Background()

	done := domain.AnalysisCompleted
	_, err := svc.CreateAnalysis(ctx, domain.AnalysisInput{Subject: "Trend review", Status: &done})
	require.NoError(t, err)
	_, err = svc.CreateAnalysis(ctx, domain.AnalysisInput{Subject: "Queued"})
	require.NoError(t, err)

	res, err := svc.ListAnalyses(ctx, domain.AnalysisFilter{Status: &done})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Trend review", res.Items[0].Subject)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Empty(t, events[0].Standard)

	bad := domain.Standard("ISO_50001")
	_, err = svc.CreateAnalysis(ctx, domain.AnalysisInput{Subject: "x", Standard: &bad})
	assert.True(t, domain.IsValidation(err))
}
