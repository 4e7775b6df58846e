package labs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
)

type Service struct {
	results   LabResultRepository
	vitals    VitalsRepository
	overrides OverrideRepository
}

func NewService(results LabResultRepository, vitals VitalsRepository, overrides OverrideRepository) *Service {
	return &Service{results: results, vitals: vitals, overrides: overrides}
}

// -- Lab Results --

func (s *Service) RecordResult(ctx context.Context, r *LabResult) error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if r.LabType == "" {
		return fmt.Errorf("lab_type is required")
	}
	if r.CollectedAt.IsZero() {
		return fmt.Errorf("collected_at is required")
	}
	if r.RefMin != nil && r.RefMax != nil && *r.RefMax < *r.RefMin {
		return fmt.Errorf("ref_max must not be below ref_min")
	}
	return s.results.Create(ctx, r)
}

func (s *Service) GetResult(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return s.results.GetByID(ctx, id)
}

func (s *Service) DeleteResult(ctx context.Context, id uuid.UUID) error {
	return s.results.Delete(ctx, id)
}

func (s *Service) ListResults(ctx context.Context, patientID uuid.UUID, labType string, limit, offset int) ([]*LabResult, int, error) {
	return s.results.ListByPatient(ctx, patientID, labType, limit, offset)
}

func (s *Service) LatestResults(ctx context.Context, patientID uuid.UUID) (map[string]*LabResult, error) {
	return s.results.Latest(ctx, patientID)
}

func (s *Service) ResultSeries(ctx context.Context, patientID uuid.UUID, labType string, since time.Time) ([]*LabResult, error) {
	if labType == "" {
		return nil, fmt.Errorf("lab_type is required")
	}
	return s.results.Series(ctx, patientID, labType, since)
}

// -- Vitals --

func (s *Service) RecordVitals(ctx context.Context, v *VitalsReading) error {
	if v.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if v.RecordedAt.IsZero() {
		return fmt.Errorf("recorded_at is required")
	}
	if v.BloodPressure != nil && *v.BloodPressure != "" {
		if _, _, ok := engine.ParseBloodPressure(*v.BloodPressure); !ok {
			return fmt.Errorf("invalid blood_pressure format: %s", *v.BloodPressure)
		}
	}
	return s.vitals.Create(ctx, v)
}

func (s *Service) ListVitals(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsReading, int, error) {
	return s.vitals.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) LatestVitals(ctx context.Context, patientID uuid.UUID) (*VitalsReading, error) {
	return s.vitals.Latest(ctx, patientID)
}

// -- Schedule Overrides --

func (s *Service) SetOverride(ctx context.Context, o *ScheduleOverride) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if o.IntervalDays <= 0 {
		return fmt.Errorf("interval_days must be positive")
	}
	return s.overrides.Upsert(ctx, o)
}

func (s *Service) GetOverride(ctx context.Context, patientID uuid.UUID) (*ScheduleOverride, error) {
	return s.overrides.GetByPatient(ctx, patientID)
}

func (s *Service) ClearOverride(ctx context.Context, patientID uuid.UUID) error {
	return s.overrides.Delete(ctx, patientID)
}
