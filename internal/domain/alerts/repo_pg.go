package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renalcare/renalcare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const alertCols = `id, patient_id, summary, source, resolved, raised_at, resolved_at, created_at, updated_at`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.PatientID, &a.Summary, &a.Source, &a.Resolved,
		&a.RaisedAt, &a.ResolvedAt, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_alert (id, patient_id, summary, source, raised_at)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.PatientID, a.Summary, a.Source, a.RaisedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return scanAlert(r.conn(ctx).QueryRow(ctx, `SELECT `+alertCols+` FROM patient_alert WHERE id = $1`, id))
}

func (r *repoPG) Resolve(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_alert SET resolved = TRUE, resolved_at = $2, updated_at = NOW()
		WHERE id = $1 AND NOT resolved`, id, at)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Alert, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patient_alert WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+alertCols+` FROM patient_alert WHERE patient_id = $1 ORDER BY raised_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CountUnresolved(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient_alert WHERE patient_id = $1 AND NOT resolved`, patientID).Scan(&count)
	return count, err
}

func (r *repoPG) AddAcknowledgement(ctx context.Context, ack *Acknowledgement) error {
	ack.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alert_acknowledgement (id, alert_id, acknowledged_by, note)
		VALUES ($1,$2,$3,$4)`,
		ack.ID, ack.AlertID, ack.AcknowledgedBy, ack.Note)
	return err
}

func (r *repoPG) ListAcknowledgements(ctx context.Context, alertID uuid.UUID) ([]*Acknowledgement, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, alert_id, acknowledged_by, note, acknowledged_at
		FROM alert_acknowledgement WHERE alert_id = $1 ORDER BY acknowledged_at ASC`, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Acknowledgement
	for rows.Next() {
		var ack Acknowledgement
		if err := rows.Scan(&ack.ID, &ack.AlertID, &ack.AcknowledgedBy, &ack.Note, &ack.AcknowledgedAt); err != nil {
			return nil, err
		}
		items = append(items, &ack)
	}
	return items, rows.Err()
}
