package engine

import (
	"time"
)

// Lab test type tags tracked by the snapshot engine.
const (
	LabKidneyFunction = "egfr"
	LabCreatinine     = "creatinine"
	LabPotassium      = "potassium"
)

// TrackedLabs lists the lab types whose trends feed the risk tier and
// action state, in a fixed evaluation order.
var TrackedLabs = []string{LabKidneyFunction, LabCreatinine, LabPotassium}

// Field identifiers resolvable by rule comparisons. The set is closed:
// any other identifier is rejected at evaluation time.
const (
	FieldKidneyFunction = "labs.egfr"
	FieldCreatinine     = "labs.creatinine"
	FieldPotassium      = "labs.potassium"
	FieldHeartRate      = "vitals.heart_rate"
	FieldTemperature    = "vitals.temperature"
	FieldBPSystolic     = "vitals.bp_systolic"
	FieldBPDiastolic    = "vitals.bp_diastolic"
)

// TimeSeriesPoint is a single dated numeric observation.
type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// LabResult is the latest resulted value for one test type.
type LabResult struct {
	TestType string    `json:"test_type"`
	Value    float64   `json:"value"`
	Unit     string    `json:"unit"`
	RefMin   float64   `json:"ref_min"`
	RefMax   float64   `json:"ref_max"`
	TestDate time.Time `json:"test_date"`
}

// MedicationRecord is one entry of the patient's medication list.
type MedicationRecord struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PatientMessage is one portal message from the patient.
type PatientMessage struct {
	Text   string    `json:"text"`
	Urgent bool      `json:"urgent"`
	Read   bool      `json:"read"`
	SentAt time.Time `json:"sent_at"`
}

// PatientBundle is the complete input to one snapshot computation. The
// caller gathers it up front; the engine performs no I/O. AsOf is the
// clock for every recency calculation so that an identical bundle always
// yields an identical snapshot.
type PatientBundle struct {
	AsOf                time.Time
	LatestLabs          map[string]LabResult
	Series              map[string][]TimeSeriesPoint
	BloodPressure       string
	HeartRate           float64
	Temperature         float64
	Medications         []MedicationRecord
	UnresolvedAlerts    int
	Messages            []PatientMessage
	HistoryTags         []string
	LastReviewAt        *time.Time
	LabIntervalOverride *int
}

// TrendStatus classifies the abnormality of a metric's trend.
type TrendStatus string

const (
	TrendAbnormal   TrendStatus = "abnormal"
	TrendControlled TrendStatus = "controlled"
	TrendNoData     TrendStatus = "no-data"
)

// TrendDirection is the direction arrow for a metric's trend.
type TrendDirection string

const (
	DirectionUp   TrendDirection = "up"
	DirectionDown TrendDirection = "down"
	DirectionFlat TrendDirection = "flat"
)

// TrendResult is the outcome of analysing one metric's time series.
type TrendResult struct {
	Status    TrendStatus    `json:"status"`
	Direction TrendDirection `json:"direction"`
	Window    string         `json:"window,omitempty"`
	Latest    float64        `json:"latest,omitempty"`
	LatestAt  time.Time      `json:"latest_at,omitempty"`
}

// Stage is the CKD severity band derived from the kidney-function value.
type Stage string

const (
	Stage1       Stage = "stage-1"
	Stage2       Stage = "stage-2"
	Stage3       Stage = "stage-3"
	Stage4       Stage = "stage-4"
	Stage5       Stage = "stage-5"
	StageUnknown Stage = "unknown"
)

// EtiologyUnknown is returned when no explicit history tag matches.
const EtiologyUnknown = "unknown"

// TierLevel is the coarse clinical risk classification.
type TierLevel string

const (
	TierStable   TierLevel = "stable"
	TierWatch    TierLevel = "watch"
	TierHighRisk TierLevel = "high-risk"
)

// RiskTier pairs a tier level with the reason it was selected.
type RiskTier struct {
	Level  TierLevel `json:"level"`
	Reason string    `json:"reason"`
}

// ActionLevel is the workflow-facing classification.
type ActionLevel string

const (
	ActionNone      ActionLevel = "no-action"
	ActionReview    ActionLevel = "review"
	ActionImmediate ActionLevel = "immediate"
)

// ActionState pairs an action level with its reason and suggested next step.
type ActionState struct {
	Level    ActionLevel `json:"level"`
	Reason   string      `json:"reason,omitempty"`
	NextStep string      `json:"next_step,omitempty"`
}

// MedicationFlag reports whether any active medication matches the
// configured renal-risk list.
type MedicationFlag struct {
	Flagged bool   `json:"flagged"`
	Note    string `json:"note,omitempty"`
}

// TriageResult is the outcome of scanning unread patient messages.
type TriageResult struct {
	Flagged  bool   `json:"flagged"`
	HoursAgo int    `json:"hours_ago,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// SnapshotResult is the immutable output of one snapshot computation.
type SnapshotResult struct {
	Stage          Stage          `json:"stage"`
	Etiology       string         `json:"etiology"`
	KidneyFunction TrendResult    `json:"kidney_function"`
	Creatinine     TrendResult    `json:"creatinine"`
	Potassium      TrendResult    `json:"potassium"`
	BloodPressure  TrendResult    `json:"blood_pressure"`
	Medication     MedicationFlag `json:"medication"`

	LabsPending         bool `json:"labs_pending"`
	LabOverdueDays      int  `json:"lab_overdue_days"`
	RecheckIntervalDays int  `json:"recheck_interval_days"`

	Triage           TriageResult `json:"triage"`
	DaysSinceContact int          `json:"days_since_contact"`

	Tier   RiskTier    `json:"tier"`
	Action ActionState `json:"action"`

	// Medico-legal fields. Day counters are -1 when the anchoring
	// timestamp is absent. They are retained for defensibility and are
	// never consulted by the classification above.
	LastReviewAt       *time.Time `json:"last_review_at,omitempty"`
	DaysSinceReview    int        `json:"days_since_review"`
	AbnormalDetectedAt *time.Time `json:"abnormal_detected_at,omitempty"`
	DaysSinceAbnormal  int        `json:"days_since_abnormal"`
}
