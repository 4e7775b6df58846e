package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
)

// ChartSeries is one dated observation read for bundle assembly.
type ChartSeries struct {
	Date  time.Time
	Value float64
}

// ChartVitals is the latest vitals reading, flattened for bundle assembly.
type ChartVitals struct {
	BloodPressure string
	HeartRate     float64
	Temperature   float64
}

// ChartRepository reads everything a snapshot computation needs. All reads
// are bounded by the caller's as-of clock so a snapshot never sees data
// recorded after the instant it describes.
type ChartRepository interface {
	LatestLabs(ctx context.Context, patientID uuid.UUID, asOf time.Time) (map[string]engine.LabResult, error)
	LabSeries(ctx context.Context, patientID uuid.UUID, labType string, since, asOf time.Time) ([]ChartSeries, error)
	LatestVitals(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*ChartVitals, error)
	ActiveMedications(ctx context.Context, patientID uuid.UUID) ([]engine.MedicationRecord, error)
	Messages(ctx context.Context, patientID uuid.UUID, asOf time.Time) ([]engine.PatientMessage, error)
	UnresolvedAlertCount(ctx context.Context, patientID uuid.UUID) (int, error)
	HistoryTags(ctx context.Context, patientID uuid.UUID) ([]string, error)
	LastReview(ctx context.Context, patientID uuid.UUID) (*time.Time, error)
	IntervalOverride(ctx context.Context, patientID uuid.UUID) (*int, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Review, int, error)
}

type TagRepository interface {
	Add(ctx context.Context, t *HistoryTag) error
	Remove(ctx context.Context, patientID uuid.UUID, tag string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*HistoryTag, error)
}
