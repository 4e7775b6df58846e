package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Alert maps to the patient_alert table.
type Alert struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PatientID  uuid.UUID  `db:"patient_id" json:"patient_id"`
	Summary    string     `db:"summary" json:"summary"`
	Source     *string    `db:"source" json:"source,omitempty"`
	Resolved   bool       `db:"resolved" json:"resolved"`
	RaisedAt   time.Time  `db:"raised_at" json:"raised_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Acknowledgement maps to the alert_acknowledgement table. Rows are append
// only: acknowledging an alert records who saw it without resolving it, and
// the record is never updated or deleted afterwards.
type Acknowledgement struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AlertID        uuid.UUID `db:"alert_id" json:"alert_id"`
	AcknowledgedBy string    `db:"acknowledged_by" json:"acknowledged_by"`
	Note           *string   `db:"note" json:"note,omitempty"`
	AcknowledgedAt time.Time `db:"acknowledged_at" json:"acknowledged_at"`
}
