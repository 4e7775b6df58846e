package medication

import (
	"time"

	"github.com/google/uuid"
)

// Record maps to the medication_record table.
type Record struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name      string     `db:"name" json:"name"`
	Dosage    *string    `db:"dosage" json:"dosage,omitempty"`
	Active    bool       `db:"active" json:"active"`
	StartedAt *time.Time `db:"started_at" json:"started_at,omitempty"`
	StoppedAt *time.Time `db:"stopped_at" json:"stopped_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// RiskCheck reports whether a patient's active medication list carries any
// renally risky entries.
type RiskCheck struct {
	Flagged bool   `json:"flagged"`
	Note    string `json:"note,omitempty"`
}
