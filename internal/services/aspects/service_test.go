package aspects

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

func TestCreateAndUpdateAspect(t *testing.T) {
	rec := &memory.Recorder{}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := New(memory.New(), engine.NewHolder(engine.Default()), rec).WithClock(func() time.Time { return now })
	ctx := context.Background()

	four, five := 4, 5
	a, err := svc.Create(ctx, domain.AspectInput{Activity: "Painting", Aspect: "VOC emissions", Likelihood: &four, Severity: &five})
	require.NoError(t, err)
	assert.Equal(t, 60, a.Score)
	assert.Equal(t, scoring.SignificanceModerate, a.Level)

	a, err = svc.Update(ctx, a.ID, domain.AspectPatch{Frequency: &five})
	require.NoError(t, err)
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, scoring.SignificanceSignificant, a.Level)

	for _, ev := range rec.Events() {
		assert.Equal(t, domain.ISO14001, ev.Standard)
		assert.Equal(t, domain.KindAspect, ev.Kind)
	}
	assert.Len(t, rec.Events(), 2)
}

func TestAspectValidation(t *testing.T) {
	svc := New(memory.New(), engine.NewHolder(engine.Default()), &memory.Recorder{})
	zero := 0
	_, err := svc.Create(context.Background(), domain.AspectInput{Activity: "Boiler", Frequency: &zero})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "aspect")
	assert.Contains(t, ve.Fields, "frequency")
	assert.NotContains(t, ve.Fields, "activity")
}

func TestListAspectsByLevel(t *testing.T) {
	svc := New(memory.New(), engine.NewHolder(engine.Default()), &memory.Recorder{})
	ctx := context.Background()
	one, five := 1, 5
	_, err := svc.Create(ctx, domain.AspectInput{Activity: "Office", Aspect: "Paper", Likelihood: &one, Severity: &one, Frequency: &one})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.AspectInput{Activity: "Plant", Aspect: "Effluent", Likelihood: &five, Severity: &five, Frequency: &five})
	require.NoError(t, err)

	level := scoring.SignificanceSignificant
	res, err := svc.List(ctx, domain.AspectFilter{Level: &level})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Effluent", res.Items[0].Aspect)
}
