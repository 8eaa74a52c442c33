package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"ims/internal/domain"
)

const riskColumns = `id, title, description, standard, likelihood, severity, detectability, score, level, status, owner, created_at, updated_at`

func scanRisk(row pgx.Row) (domain.Risk, error) {
	var r domain.Risk
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Standard, &r.Likelihood, &r.Severity, &r.Detectability,
		&r.Score, &r.Level, &r.Status, &r.Owner, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (db *DB) CreateRisk(ctx context.Context, r *domain.Risk) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO risks (`+riskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.ID, r.Title, r.Description, r.Standard, r.Likelihood, r.Severity, r.Detectability,
		r.Score, r.Level, r.Status, r.Owner, r.CreatedAt, r.UpdatedAt)
	return mapErr(err)
}

func (db *DB) GetRisk(ctx context.Context, id string) (domain.Risk, error) {
	r, err := scanRisk(db.Pool.QueryRow(ctx, `SELECT `+riskColumns+` FROM risks WHERE id = $1`, id))
	return r, mapErr(err)
}

func (db *DB) UpdateRisk(ctx context.Context, r *domain.Risk) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE risks SET title=$2, description=$3, standard=$4, likelihood=$5, severity=$6, detectability=$7,
			score=$8, level=$9, status=$10, owner=$11, updated_at=$12
		WHERE id=$1
	`, r.ID, r.Title, r.Description, r.Standard, r.Likelihood, r.Severity, r.Detectability,
		r.Score, r.Level, r.Status, r.Owner, r.UpdatedAt))
}

func (db *DB) DeleteRisk(ctx context.Context, id string) error {
	return affected(db.Pool.Exec(ctx, `DELETE FROM risks WHERE id = $1`, id))
}

func (db *DB) ListRisks(ctx context.Context, f domain.RiskFilter) ([]domain.Risk, int, error) {
	var w where
	eq(&w, "standard", f.Standard)
	eq(&w, "status", f.Status)
	eq(&w, "level", f.Level)
	if f.MinScore != nil {
		w.add("score >= ?", *f.MinScore)
	}
	search(&w, f.Search, "title", "description")

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM risks`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + riskColumns + ` FROM risks` + w.String() + ` ORDER BY score DESC, created_at DESC, id`
	q += w.page(f.Page)
	items, err := queryAll(ctx, db, q, w.args, scanRisk)
	return items, total, err
}

func (db *DB) AllRisks(ctx context.Context, std *domain.Standard) ([]domain.Risk, error) {
	var w where
	standardFilter(&w, std)
	return queryAll(ctx, db, `SELECT `+riskColumns+` FROM risks`+w.String(), w.args, scanRisk)
}

// queryAll runs q and scans every row with scan.
func queryAll[T any](ctx context.Context, db *DB, q string, args []any, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) { return scan(row) })
}
