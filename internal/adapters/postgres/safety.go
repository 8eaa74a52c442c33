package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"ims/internal/domain"
)

const safetyColumns = `id, year, month, hours_worked, lost_time_injuries, total_recordable_injuries, days_lost, near_misses, ltifr, trir, severity_rate`

func scanSafety(row pgx.Row) (domain.SafetyMetricPeriod, error) {
	var p domain.SafetyMetricPeriod
	err := row.Scan(&p.ID, &p.Year, &p.Month, &p.HoursWorked, &p.LostTimeInjuries, &p.TotalRecordableInjuries,
		&p.DaysLost, &p.NearMisses, &p.LTIFR, &p.TRIR, &p.SeverityRate)
	return p, err
}

// UpsertSafetyMetric writes the (year, month) row. An existing row keeps its
// id, which is written back into p.
func (db *DB) UpsertSafetyMetric(ctx context.Context, p *domain.SafetyMetricPeriod) error {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO safety_metrics (`+safetyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (year, month) DO UPDATE SET
			hours_worked = EXCLUDED.hours_worked,
			lost_time_injuries = EXCLUDED.lost_time_injuries,
			total_recordable_injuries = EXCLUDED.total_recordable_injuries,
			days_lost = EXCLUDED.days_lost,
			near_misses = EXCLUDED.near_misses,
			ltifr = EXCLUDED.ltifr,
			trir = EXCLUDED.trir,
			severity_rate = EXCLUDED.severity_rate
		RETURNING id
	`, p.ID, p.Year, p.Month, p.HoursWorked, p.LostTimeInjuries, p.TotalRecordableInjuries,
		p.DaysLost, p.NearMisses, p.LTIFR, p.TRIR, p.SeverityRate).Scan(&p.ID)
	return mapErr(err)
}

func (db *DB) ListSafetyMetrics(ctx context.Context, year int) ([]domain.SafetyMetricPeriod, error) {
	return queryAll(ctx, db, `SELECT `+safetyColumns+` FROM safety_metrics WHERE year = $1 ORDER BY month`, []any{year}, scanSafety)
}
