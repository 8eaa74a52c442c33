package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"ims/internal/domain"
)

const snapshotColumns = `standard, incident_closure_rate, action_on_time_rate, legal_compliance_rate, risk_exposure_rate, overall, has_data, recorded_at`

func scanSnapshot(row pgx.Row) (domain.ComplianceSnapshot, error) {
	var s domain.ComplianceSnapshot
	err := row.Scan(&s.Standard, &s.IncidentClosureRate, &s.ActionOnTimeRate, &s.LegalComplianceRate,
		&s.RiskExposureRate, &s.Overall, &s.HasData, &s.RecordedAt)
	return s, err
}

// RecordSnapshots stores one history point per standard atomically.
func (db *DB) RecordSnapshots(ctx context.Context, snaps []domain.ComplianceSnapshot) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	for _, s := range snaps {
		if _, err = tx.Exec(ctx, `
			INSERT INTO compliance_snapshots (`+snapshotColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.Standard, s.IncidentClosureRate, s.ActionOnTimeRate, s.LegalComplianceRate,
			s.RiskExposureRate, s.Overall, s.HasData, s.RecordedAt); err != nil {
			return err
		}
	}
	return nil
}

// LatestSnapshots returns the newest snapshot of each standard.
func (db *DB) LatestSnapshots(ctx context.Context) ([]domain.ComplianceSnapshot, error) {
	return queryAll(ctx, db, `
		SELECT DISTINCT ON (standard) `+snapshotColumns+`
		FROM compliance_snapshots
		ORDER BY standard, recorded_at DESC
	`, nil, scanSnapshot)
}

func (db *DB) SnapshotHistory(ctx context.Context, std domain.Standard, since time.Time) ([]domain.ComplianceSnapshot, error) {
	return queryAll(ctx, db, `
		SELECT `+snapshotColumns+` FROM compliance_snapshots
		WHERE standard = $1 AND recorded_at >= $2
		ORDER BY recorded_at
	`, []any{std, since}, scanSnapshot)
}
