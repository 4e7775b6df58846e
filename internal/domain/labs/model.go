package labs

import (
	"time"

	"github.com/google/uuid"
)

// LabResult maps to the lab_result table.
type LabResult struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	LabType     string    `db:"lab_type" json:"lab_type"`
	Value       float64   `db:"value" json:"value"`
	Unit        *string   `db:"unit" json:"unit,omitempty"`
	RefMin      *float64  `db:"ref_min" json:"ref_min,omitempty"`
	RefMax      *float64  `db:"ref_max" json:"ref_max,omitempty"`
	CollectedAt time.Time `db:"collected_at" json:"collected_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// VitalsReading maps to the vitals_reading table.
type VitalsReading struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	BloodPressure *string   `db:"blood_pressure" json:"blood_pressure,omitempty"`
	HeartRate     *float64  `db:"heart_rate" json:"heart_rate,omitempty"`
	Temperature   *float64  `db:"temperature" json:"temperature,omitempty"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ScheduleOverride maps to the lab_schedule_override table. At most one
// override exists per patient; it replaces the stage-derived recheck interval.
type ScheduleOverride struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	IntervalDays int       `db:"interval_days" json:"interval_days"`
	Reason       *string   `db:"reason" json:"reason,omitempty"`
	CreatedBy    *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
