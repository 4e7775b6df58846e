package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
)

// Review maps to the patient_review table. Recording a review anchors the
// days-since-review counter on subsequent snapshots.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	ReviewedBy string    `db:"reviewed_by" json:"reviewed_by"`
	Note       *string   `db:"note" json:"note,omitempty"`
	ReviewedAt time.Time `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// HistoryTag maps to the history_tag table. Tags drive etiology resolution.
type HistoryTag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Tag       string    `db:"tag" json:"tag"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Snapshot is one computed decision snapshot, stamped with the clock it was
// computed against. It is never persisted: repeating the call with unchanged
// chart data reproduces it exactly.
type Snapshot struct {
	PatientID uuid.UUID             `json:"patient_id"`
	AsOf      time.Time             `json:"as_of"`
	Result    engine.SnapshotResult `json:"result"`
}
