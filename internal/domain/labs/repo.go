package labs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LabResultRepository interface {
	Create(ctx context.Context, r *LabResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, labType string, limit, offset int) ([]*LabResult, int, error)
	// Latest returns the most recent result per lab type for the patient.
	Latest(ctx context.Context, patientID uuid.UUID) (map[string]*LabResult, error)
	// Series returns results of one type collected at or after since, oldest first.
	Series(ctx context.Context, patientID uuid.UUID, labType string, since time.Time) ([]*LabResult, error)
}

type VitalsRepository interface {
	Create(ctx context.Context, v *VitalsReading) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsReading, int, error)
	Latest(ctx context.Context, patientID uuid.UUID) (*VitalsReading, error)
}

type OverrideRepository interface {
	Upsert(ctx context.Context, o *ScheduleOverride) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*ScheduleOverride, error)
	Delete(ctx context.Context, patientID uuid.UUID) error
}
