package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renalcare/renalcare/internal/engine"
	"github.com/renalcare/renalcare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Chart Repository ===========

type chartRepoPG struct{ pool *pgxpool.Pool }

func NewChartRepoPG(pool *pgxpool.Pool) ChartRepository { return &chartRepoPG{pool: pool} }

func (r *chartRepoPG) LatestLabs(ctx context.Context, patientID uuid.UUID, asOf time.Time) (map[string]engine.LabResult, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT DISTINCT ON (lab_type) lab_type, value, COALESCE(unit, ''), COALESCE(ref_min, 0), COALESCE(ref_max, 0), collected_at
		FROM lab_result
		WHERE patient_id = $1 AND collected_at <= $2
		ORDER BY lab_type, collected_at DESC`, patientID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]engine.LabResult)
	for rows.Next() {
		var lab engine.LabResult
		if err := rows.Scan(&lab.TestType, &lab.Value, &lab.Unit, &lab.RefMin, &lab.RefMax, &lab.TestDate); err != nil {
			return nil, err
		}
		latest[lab.TestType] = lab
	}
	return latest, rows.Err()
}

func (r *chartRepoPG) LabSeries(ctx context.Context, patientID uuid.UUID, labType string, since, asOf time.Time) ([]ChartSeries, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT collected_at, value FROM lab_result
		WHERE patient_id = $1 AND lab_type = $2 AND collected_at >= $3 AND collected_at <= $4
		ORDER BY collected_at ASC`, patientID, labType, since, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []ChartSeries
	for rows.Next() {
		var p ChartSeries
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

func (r *chartRepoPG) LatestVitals(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*ChartVitals, error) {
	var bp *string
	var hr, temp *float64
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT blood_pressure, heart_rate, temperature FROM vitals_reading
		WHERE patient_id = $1 AND recorded_at <= $2
		ORDER BY recorded_at DESC LIMIT 1`, patientID, asOf).Scan(&bp, &hr, &temp)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	v := &ChartVitals{}
	if bp != nil {
		v.BloodPressure = *bp
	}
	if hr != nil {
		v.HeartRate = *hr
	}
	if temp != nil {
		v.Temperature = *temp
	}
	return v, nil
}

func (r *chartRepoPG) ActiveMedications(ctx context.Context, patientID uuid.UUID) ([]engine.MedicationRecord, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT name, active FROM medication_record
		WHERE patient_id = $1 AND active ORDER BY name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []engine.MedicationRecord
	for rows.Next() {
		var m engine.MedicationRecord
		if err := rows.Scan(&m.Name, &m.Active); err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func (r *chartRepoPG) Messages(ctx context.Context, patientID uuid.UUID, asOf time.Time) ([]engine.PatientMessage, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT body, urgent, read_at IS NOT NULL, sent_at FROM patient_message
		WHERE patient_id = $1 AND sent_at <= $2
		ORDER BY sent_at DESC`, patientID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []engine.PatientMessage
	for rows.Next() {
		var m engine.PatientMessage
		if err := rows.Scan(&m.Text, &m.Urgent, &m.Read, &m.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *chartRepoPG) UnresolvedAlertCount(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient_alert WHERE patient_id = $1 AND NOT resolved`, patientID).Scan(&count)
	return count, err
}

func (r *chartRepoPG) HistoryTags(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT tag FROM history_tag WHERE patient_id = $1 ORDER BY created_at ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *chartRepoPG) LastReview(ctx context.Context, patientID uuid.UUID) (*time.Time, error) {
	var at time.Time
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT reviewed_at FROM patient_review WHERE patient_id = $1
		ORDER BY reviewed_at DESC LIMIT 1`, patientID).Scan(&at)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *chartRepoPG) IntervalOverride(ctx context.Context, patientID uuid.UUID) (*int, error) {
	var days int
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT interval_days FROM lab_schedule_override WHERE patient_id = $1`, patientID).Scan(&days)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &days, nil
}

// =========== Review Repository ===========

type reviewRepoPG struct{ pool *pgxpool.Pool }

func NewReviewRepoPG(pool *pgxpool.Pool) ReviewRepository { return &reviewRepoPG{pool: pool} }

func (r *reviewRepoPG) Create(ctx context.Context, rev *Review) error {
	rev.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patient_review (id, patient_id, reviewed_by, note, reviewed_at)
		VALUES ($1,$2,$3,$4,$5)`,
		rev.ID, rev.PatientID, rev.ReviewedBy, rev.Note, rev.ReviewedAt)
	return err
}

func (r *reviewRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patient_review WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `
		SELECT id, patient_id, reviewed_by, note, reviewed_at, created_at
		FROM patient_review WHERE patient_id = $1 ORDER BY reviewed_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.PatientID, &rev.ReviewedBy, &rev.Note, &rev.ReviewedAt, &rev.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &rev)
	}
	return items, total, rows.Err()
}

// =========== History Tag Repository ===========

type tagRepoPG struct{ pool *pgxpool.Pool }

func NewTagRepoPG(pool *pgxpool.Pool) TagRepository { return &tagRepoPG{pool: pool} }

func (r *tagRepoPG) Add(ctx context.Context, t *HistoryTag) error {
	t.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO history_tag (id, patient_id, tag, created_by)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (patient_id, tag) DO NOTHING`,
		t.ID, t.PatientID, t.Tag, t.CreatedBy)
	return err
}

func (r *tagRepoPG) Remove(ctx context.Context, patientID uuid.UUID, tag string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM history_tag WHERE patient_id = $1 AND tag = $2`, patientID, tag)
	return err
}

func (r *tagRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*HistoryTag, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, patient_id, tag, created_by, created_at
		FROM history_tag WHERE patient_id = $1 ORDER BY created_at ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*HistoryTag
	for rows.Next() {
		var t HistoryTag
		if err := rows.Scan(&t.ID, &t.PatientID, &t.Tag, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}
