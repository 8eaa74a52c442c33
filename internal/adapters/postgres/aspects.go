package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"ims/internal/domain"
)

const aspectColumns = `id, activity, aspect, impact, likelihood, severity, frequency, score, level, status, created_at, updated_at`

func scanAspect(row pgx.Row) (domain.EnvironmentalAspect, error) {
	var a domain.EnvironmentalAspect
	err := row.Scan(&a.ID, &a.Activity, &a.Aspect, &a.Impact, &a.Likelihood, &a.Severity, &a.Frequency,
		&a.Score, &a.Level, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (db *DB) CreateAspect(ctx context.Context, a *domain.EnvironmentalAspect) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO environmental_aspects (`+aspectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.ID, a.Activity, a.Aspect, a.Impact, a.Likelihood, a.Severity, a.Frequency,
		a.Score, a.Level, a.Status, a.CreatedAt, a.UpdatedAt)
	return mapErr(err)
}

func (db *DB) GetAspect(ctx context.Context, id string) (domain.EnvironmentalAspect, error) {
	a, err := scanAspect(db.Pool.QueryRow(ctx, `SELECT `+aspectColumns+` FROM environmental_aspects WHERE id = $1`, id))
	return a, mapErr(err)
}

func (db *DB) UpdateAspect(ctx context.Context, a *domain.EnvironmentalAspect) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE environmental_aspects SET activity=$2, aspect=$3, impact=$4, likelihood=$5, severity=$6, frequency=$7,
			score=$8, level=$9, status=$10, updated_at=$11
		WHERE id=$1
	`, a.ID, a.Activity, a.Aspect, a.Impact, a.Likelihood, a.Severity, a.Frequency,
		a.Score, a.Level, a.Status, a.UpdatedAt))
}

func (db *DB) ListAspects(ctx context.Context, f domain.AspectFilter) ([]domain.EnvironmentalAspect, int, error) {
	var w where
	eq(&w, "status", f.Status)
	eq(&w, "level", f.Level)
	search(&w, f.Search, "activity", "aspect")

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM environmental_aspects`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + aspectColumns + ` FROM environmental_aspects` + w.String() + ` ORDER BY score DESC, created_at DESC, id`
	q += w.page(f.Page)
	items, err := queryAll(ctx, db, q, w.args, scanAspect)
	return items, total, err
}
