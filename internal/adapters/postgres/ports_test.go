package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"ims/internal/domain"
	"ims/internal/ports"
)

var (
	_ ports.RiskRepository         = (*DB)(nil)
	_ ports.AspectRepository       = (*DB)(nil)
	_ ports.IncidentRepository     = (*DB)(nil)
	_ ports.ActionRepository       = (*DB)(nil)
	_ ports.LegalRepository        = (*DB)(nil)
	_ ports.SafetyMetricRepository = (*DB)(nil)
	_ ports.AnalysisRepository     = (*DB)(nil)
	_ ports.SnapshotRepository     = (*DB)(nil)
	_ ports.Store                  = (*DB)(nil)
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "safety_metrics_year_month_key"}
	err := mapErr(dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "safety_metrics_year_month_key")

	other := errors.New("connection reset")
	assert.Equal(t, other, mapErr(other))
}

func TestAffected(t *testing.T) {
	assert.ErrorIs(t, affected(pgconn.NewCommandTag("UPDATE 0"), nil), domain.ErrNotFound)
	assert.NoError(t, affected(pgconn.NewCommandTag("UPDATE 1"), nil))
	assert.ErrorIs(t, affected(pgconn.CommandTag{}, pgx.ErrNoRows), domain.ErrNotFound)
}
