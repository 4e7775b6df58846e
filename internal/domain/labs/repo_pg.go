package labs

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Lab Result Repository ===========

type labResultRepoPG struct{ pool *pgxpool.Pool }

func NewLabResultRepoPG(pool *pgxpool.Pool) LabResultRepository { return &labResultRepoPG{pool: pool} }

const labCols = `id, patient_id, lab_type, value, unit, ref_min, ref_max, collected_at, created_at`

func scanLab(row pgx.Row) (*LabResult, error) {
	var r LabResult
	err := row.Scan(&r.ID, &r.PatientID, &r.LabType, &r.Value, &r.Unit, &r.RefMin, &r.RefMax, &r.CollectedAt, &r.CreatedAt)
	return &r, err
}

func (r *labResultRepoPG) Create(ctx context.Context, lab *LabResult) error {
	lab.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO lab_result (id, patient_id, lab_type, value, unit, ref_min, ref_max, collected_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		lab.ID, lab.PatientID, lab.LabType, lab.Value, lab.Unit, lab.RefMin, lab.RefMax, lab.CollectedAt)
	return err
}

func (r *labResultRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return scanLab(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+labCols+` FROM lab_result WHERE id = $1`, id))
}

func (r *labResultRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM lab_result WHERE id = $1`, id)
	return err
}

func (r *labResultRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, labType string, limit, offset int) ([]*LabResult, int, error) {
	q := conn(ctx, r.pool)

	var total int
	var rows pgx.Rows
	var err error
	if labType != "" {
		if err = q.QueryRow(ctx, `SELECT COUNT(*) FROM lab_result WHERE patient_id = $1 AND lab_type = $2`, patientID, labType).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = q.Query(ctx, `SELECT `+labCols+` FROM lab_result WHERE patient_id = $1 AND lab_type = $2 ORDER BY collected_at DESC LIMIT $3 OFFSET $4`,
			patientID, labType, limit, offset)
	} else {
		if err = q.QueryRow(ctx, `SELECT COUNT(*) FROM lab_result WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = q.Query(ctx, `SELECT `+labCols+` FROM lab_result WHERE patient_id = $1 ORDER BY collected_at DESC LIMIT $2 OFFSET $3`,
			patientID, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*LabResult
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lab)
	}
	return items, total, rows.Err()
}

func (r *labResultRepoPG) Latest(ctx context.Context, patientID uuid.UUID) (map[string]*LabResult, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT DISTINCT ON (lab_type) `+labCols+`
		FROM lab_result WHERE patient_id = $1
		ORDER BY lab_type, collected_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]*LabResult)
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, err
		}
		latest[lab.LabType] = lab
	}
	return latest, rows.Err()
}

func (r *labResultRepoPG) Series(ctx context.Context, patientID uuid.UUID, labType string, since time.Time) ([]*LabResult, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+labCols+` FROM lab_result
		WHERE patient_id = $1 AND lab_type = $2 AND collected_at >= $3
		ORDER BY collected_at ASC`, patientID, labType, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LabResult
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lab)
	}
	return items, rows.Err()
}

// =========== Vitals Repository ===========

type vitalsRepoPG struct{ pool *pgxpool.Pool }

func NewVitalsRepoPG(pool *pgxpool.Pool) VitalsRepository { return &vitalsRepoPG{pool: pool} }

const vitalsCols = `id, patient_id, blood_pressure, heart_rate, temperature, recorded_at, created_at`

func scanVitals(row pgx.Row) (*VitalsReading, error) {
	var v VitalsReading
	err := row.Scan(&v.ID, &v.PatientID, &v.BloodPressure, &v.HeartRate, &v.Temperature, &v.RecordedAt, &v.CreatedAt)
	return &v, err
}

func (r *vitalsRepoPG) Create(ctx context.Context, v *VitalsReading) error {
	v.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO vitals_reading (id, patient_id, blood_pressure, heart_rate, temperature, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.PatientID, v.BloodPressure, v.HeartRate, v.Temperature, v.RecordedAt)
	return err
}

func (r *vitalsRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsReading, int, error) {
	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM vitals_reading WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+vitalsCols+` FROM vitals_reading WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*VitalsReading
	for rows.Next() {
		v, err := scanVitals(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *vitalsRepoPG) Latest(ctx context.Context, patientID uuid.UUID) (*VitalsReading, error) {
	v, err := scanVitals(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+vitalsCols+` FROM vitals_reading WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT 1`, patientID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// =========== Schedule Override Repository ===========

type overrideRepoPG struct{ pool *pgxpool.Pool }

func NewOverrideRepoPG(pool *pgxpool.Pool) OverrideRepository { return &overrideRepoPG{pool: pool} }

const overrideCols = `id, patient_id, interval_days, reason, created_by, created_at, updated_at`

func scanOverride(row pgx.Row) (*ScheduleOverride, error) {
	var o ScheduleOverride
	err := row.Scan(&o.ID, &o.PatientID, &o.IntervalDays, &o.Reason, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *overrideRepoPG) Upsert(ctx context.Context, o *ScheduleOverride) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO lab_schedule_override (id, patient_id, interval_days, reason, created_by)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (patient_id) DO UPDATE
		SET interval_days = EXCLUDED.interval_days, reason = EXCLUDED.reason,
		    created_by = EXCLUDED.created_by, updated_at = NOW()`,
		o.ID, o.PatientID, o.IntervalDays, o.Reason, o.CreatedBy)
	return err
}

func (r *overrideRepoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*ScheduleOverride, error) {
	o, err := scanOverride(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+overrideCols+` FROM lab_schedule_override WHERE patient_id = $1`, patientID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *overrideRepoPG) Delete(ctx context.Context, patientID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM lab_schedule_override WHERE patient_id = $1`, patientID)
	return err
}
