package risks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ims/internal/adapters/memory"
	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/scoring"
)

var fixedNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *memory.Recorder) {
	t.Helper()
	rec := &memory.Recorder{}
	svc := New(memory.New(), engine.NewHolder(engine.Default()), rec).WithClock(func() time.Time { return fixedNow })
	return svc, rec
}

func ptr[T any](v T) *T { return &v }

func TestCreateDefaultsFactorsAndScores(t *testing.T) {
	svc, rec := newService(t)
	r, err := svc.Create(context.Background(), domain.RiskInput{Title: " Working at height ", Standard: domain.ISO45001})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Working at height", r.Title)
	assert.Equal(t, 27, r.Score)
	assert.Equal(t, scoring.LevelMedium, r.Level)
	assert.Equal(t, domain.RiskIdentified, r.Status)
	assert.Equal(t, fixedNow, r.CreatedAt)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.KindRisk, events[0].Kind)
	assert.Equal(t, domain.ISO45001, events[0].Standard)
	assert.Equal(t, "created", events[0].Operation)
}

func TestCreateValidation(t *testing.T) {
	svc, rec := newService(t)
	_, err := svc.Create(context.Background(), domain.RiskInput{
		Title:      "",
		Standard:   "ISO_27001",
		Likelihood: ptr(0),
		Severity:   ptr(6),
	})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "standard")
	assert.Contains(t, ve.Fields, "likelihood")
	assert.Contains(t, ve.Fields, "severity")
	assert.NotContains(t, ve.Fields, "detectability")
	assert.Empty(t, rec.Events())
}

func TestUpdateRescores(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	r, err := svc.Create(ctx, domain.RiskInput{Title: "Press", Standard: domain.ISO45001, Likelihood: ptr(4), Severity: ptr(5), Detectability: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 60, r.Score)
	assert.Equal(t, scoring.LevelHigh, r.Level)

	r, err = svc.Update(ctx, r.ID, domain.RiskPatch{Detectability: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, scoring.LevelCritical, r.Level)

	stored, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Score)
	assert.Equal(t, scoring.LevelCritical, stored.Level)
}

func TestUpdateRejectsInvalidPatchWithoutWriting(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	r, err := svc.Create(ctx, domain.RiskInput{Title: "Press", Standard: domain.ISO45001})
	require.NoError(t, err)

	_, err = svc.Update(ctx, r.ID, domain.RiskPatch{Severity: ptr(9)})
	assert.True(t, domain.IsValidation(err))

	stored, _ := svc.Get(ctx, r.ID)
	assert.Equal(t, 3, stored.Severity)
}

func TestUpdateStandardNotifiesBothStandards(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	r, err := svc.Create(ctx, domain.RiskInput{Title: "Supplier", Standard: domain.ISO9001})
	require.NoError(t, err)

	_, err = svc.Update(ctx, r.ID, domain.RiskPatch{Standard: ptr(domain.ISO14001)})
	require.NoError(t, err)

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, domain.ISO9001, events[1].Standard)
	assert.Equal(t, "moved", events[1].Operation)
	assert.Equal(t, domain.ISO14001, events[2].Standard)
}

func TestUnknownIDs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Update(ctx, "missing", domain.RiskPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestListNormalizesPage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, domain.RiskInput{Title: title, Standard: domain.ISO45001})
		require.NoError(t, err)
	}
	res, err := svc.List(ctx, domain.RiskFilter{Page: domain.Page{Limit: 500}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, domain.MaxLimit, res.Limit)
	assert.Len(t, res.Items, 3)
}

func TestRescoreFollowsReloadedTables(t *testing.T) {
	rec := &memory.Recorder{}
	holder := engine.NewHolder(engine.Default())
	svc := New(memory.New(), holder, rec)
	ctx := context.Background()

	tables := engine.DefaultTables()
	tables.Risk.Bands = []scoring.Band{
		{Level: scoring.LevelLow, Min: 1, Max: 30},
		{Level: scoring.LevelCritical, Min: 31, Max: 125},
	}
	e, err := engine.New(tables)
	require.NoError(t, err)
	holder.Swap(e)

	r, err := svc.Create(ctx, domain.RiskInput{Title: "Kiln", Standard: domain.ISO45001, Likelihood: ptr(2), Severity: ptr(4), Detectability: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, scoring.LevelCritical, r.Level)
}
