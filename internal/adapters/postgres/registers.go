package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"ims/internal/domain"
)

// IncidentRepository

const incidentColumns = `id, title, standard, severity, status, date_occurred, created_at, closed_at`

func scanIncident(row pgx.Row) (domain.Incident, error) {
	var i domain.Incident
	err := row.Scan(&i.ID, &i.Title, &i.Standard, &i.Severity, &i.Status, &i.DateOccurred, &i.CreatedAt, &i.ClosedAt)
	return i, err
}

func (db *DB) CreateIncident(ctx context.Context, i *domain.Incident) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO incidents (`+incidentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, i.ID, i.Title, i.Standard, i.Severity, i.Status, i.DateOccurred, i.CreatedAt, i.ClosedAt)
	return mapErr(err)
}

func (db *DB) GetIncident(ctx context.Context, id string) (domain.Incident, error) {
	i, err := scanIncident(db.Pool.QueryRow(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = $1`, id))
	return i, mapErr(err)
}

func (db *DB) UpdateIncident(ctx context.Context, i *domain.Incident) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE incidents SET title=$2, standard=$3, severity=$4, status=$5, date_occurred=$6, closed_at=$7 WHERE id=$1
	`, i.ID, i.Title, i.Standard, i.Severity, i.Status, i.DateOccurred, i.ClosedAt))
}

func (db *DB) ListIncidents(ctx context.Context, f domain.IncidentFilter) ([]domain.Incident, int, error) {
	var w where
	standardFilter(&w, f.Standard)
	eq(&w, "status", f.Status)
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM incidents`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + incidentColumns + ` FROM incidents` + w.String() + ` ORDER BY date_occurred DESC, id`
	q += w.page(f.Page)
	items, err := queryAll(ctx, db, q, w.args, scanIncident)
	return items, total, err
}

func (db *DB) AllIncidents(ctx context.Context, std *domain.Standard) ([]domain.Incident, error) {
	var w where
	standardFilter(&w, std)
	return queryAll(ctx, db, `SELECT `+incidentColumns+` FROM incidents`+w.String(), w.args, scanIncident)
}

// ActionRepository

const actionColumns = `id, title, standard, status, due_date, completed_at, created_at`

func scanAction(row pgx.Row) (domain.Action, error) {
	var a domain.Action
	err := row.Scan(&a.ID, &a.Title, &a.Standard, &a.Status, &a.DueDate, &a.CompletedAt, &a.CreatedAt)
	return a, err
}

func (db *DB) CreateAction(ctx context.Context, a *domain.Action) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO actions (`+actionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.Title, a.Standard, a.Status, a.DueDate, a.CompletedAt, a.CreatedAt)
	return mapErr(err)
}

func (db *DB) GetAction(ctx context.Context, id string) (domain.Action, error) {
	a, err := scanAction(db.Pool.QueryRow(ctx, `SELECT `+actionColumns+` FROM actions WHERE id = $1`, id))
	return a, mapErr(err)
}

func (db *DB) UpdateAction(ctx context.Context, a *domain.Action) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE actions SET title=$2, standard=$3, status=$4, due_date=$5, completed_at=$6 WHERE id=$1
	`, a.ID, a.Title, a.Standard, a.Status, a.DueDate, a.CompletedAt))
}

func (db *DB) ListActions(ctx context.Context, f domain.ActionFilter, now time.Time) ([]domain.Action, int, error) {
	var w where
	standardFilter(&w, f.Standard)
	eq(&w, "status", f.Status)
	if f.OverdueOnly {
		w.raw("status IN ('" + string(domain.ActionOpen) + "', '" + string(domain.ActionInProgress) + "')")
		w.add("due_date < ?", now)
	}
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM actions`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + actionColumns + ` FROM actions` + w.String() + ` ORDER BY due_date, id`
	q += w.page(f.Page)
	items, err := queryAll(ctx, db, q, w.args, scanAction)
	return items, total, err
}

func (db *DB) AllActions(ctx context.Context, std *domain.Standard) ([]domain.Action, error) {
	var w where
	standardFilter(&w, std)
	return queryAll(ctx, db, `SELECT `+actionColumns+` FROM actions`+w.String(), w.args, scanAction)
}

// LegalRepository

const legalColumns = `id, title, jurisdiction, standard, compliance_status, review_date, created_at`

func scanLegal(row pgx.Row) (domain.LegalRequirement, error) {
	var l domain.LegalRequirement
	err := row.Scan(&l.ID, &l.Title, &l.Jurisdiction, &l.Standard, &l.ComplianceStatus, &l.ReviewDate, &l.CreatedAt)
	return l, err
}

func (db *DB) CreateLegalRequirement(ctx context.Context, l *domain.LegalRequirement) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO legal_requirements (`+legalColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ID, l.Title, l.Jurisdiction, l.Standard, l.ComplianceStatus, l.ReviewDate, l.CreatedAt)
	return mapErr(err)
}

func (db *DB) GetLegalRequirement(ctx context.Context, id string) (domain.LegalRequirement, error) {
	l, err := scanLegal(db.Pool.QueryRow(ctx, `SELECT `+legalColumns+` FROM legal_requirements WHERE id = $1`, id))
	return l, mapErr(err)
}

func (db *DB) UpdateLegalRequirement(ctx context.Context, l *domain.LegalRequirement) error {
	return affected(db.Pool.Exec(ctx, `
		UPDATE legal_requirements SET title=$2, jurisdiction=$3, standard=$4, compliance_status=$5, review_date=$6 WHERE id=$1
	`, l.ID, l.Title, l.Jurisdiction, l.Standard, l.ComplianceStatus, l.ReviewDate))
}

func (db *DB) ListLegalRequirements(ctx context.Context, f domain.LegalFilter) ([]domain.LegalRequirement, int, error) {
	var w where
	standardFilter(&w, f.Standard)
	eq(&w, "compliance_status", f.ComplianceStatus)
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM legal_requirements`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + legalColumns + ` FROM legal_requirements` + w.String() + ` ORDER BY created_at DESC, id`
	q += w.page(f.Page)
	items, err := queryAll(ctx, db, q, w.args, scanLegal)
	return items, total, err
}

func (db *DB) AllLegalRequirements(ctx context.Context, std *domain.Standard) ([]domain.LegalRequirement, error) {
	var w where
	standardFilter(&w, std)
	return queryAll(ctx, db, `SELECT `+legalColumns+` FROM legal_requirements`+w.String(), w.args, scanLegal)
}

// AnalysisRepository

const analysisColumns = `id, subject, standard, status, summary, created_at`

func scanAnalysis(row pgx.Row) (domain.AIAnalysis, error) {
	var a domain.AIAnalysis
	err := row.Scan(&a.ID, &a.Subject, &a.Standard, &a.Status, &a.Summary, &a.CreatedAt)
	return a, err
}

func (db *DB) CreateAnalysis(ctx context.Context, a *domain.AIAnalysis) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO ai_analyses (`+analysisColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Subject, a.Standard, a.Status, a.Summary, a.CreatedAt)
	return mapErr(err)
}

func (db *DB) ListAnalyses(ctx context.Context, f domain.AnalysisFilter) ([]domain.AIAnalysis, int, error) {
	var w where
	eq(&w, "status", f.Status)
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM ai_analyses`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + analysisColumns + ` FROM ai_analyses` + w.String() + ` ORDER BY created_at DESC, id`
	q += w.page(f.Page)
	items, err := queryAll(ctx, db, q, w.args, scanAnalysis)
	return items, total, err
}

func (db *DB) RecentAnalyses(ctx context.Context, status domain.AnalysisStatus, limit int) ([]domain.AIAnalysis, error) {
	return queryAll(ctx, db, `
		SELECT `+analysisColumns+` FROM ai_analyses
		WHERE status = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, []any{status, limit}, scanAnalysis)
}
