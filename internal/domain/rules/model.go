package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
)

// ClinicalRule maps to the clinical_rule table. Tree is the authored rule
// tree stored as JSONB.
type ClinicalRule struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description *string          `db:"description" json:"description,omitempty"`
	Tree        *engine.RuleNode `db:"tree" json:"tree"`
	Active      bool             `db:"active" json:"active"`
	CreatedBy   *string          `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// EvaluationResult is the outcome of running one rule against a patient's
// assembled chart data.
type EvaluationResult struct {
	RuleID    uuid.UUID         `json:"rule_id"`
	PatientID uuid.UUID         `json:"patient_id"`
	AsOf      time.Time         `json:"as_of"`
	Fired     bool              `json:"fired"`
	Degraded  bool              `json:"degraded"`
	Trace     *engine.RuleTrace `json:"trace"`
}
