package medication

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
)

type Service struct {
	records  Repository
	riskList []string
}

// NewService creates the medication service. riskList is the configured set
// of renally risky medication name fragments.
func NewService(records Repository, riskList []string) *Service {
	return &Service{records: records, riskList: riskList}
}

func (s *Service) AddRecord(ctx context.Context, r *Record) error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.StartedAt != nil && r.StoppedAt != nil && r.StoppedAt.Before(*r.StartedAt) {
		return fmt.Errorf("stopped_at must not precede started_at")
	}
	return s.records.Create(ctx, r)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, r *Record) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.records.Update(ctx, r)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}

// CheckRisk flags the patient's active medications against the renal-risk
// list. The same check feeds the snapshot computation; this surface exists so
// the flag can be consulted when editing the medication list.
func (s *Service) CheckRisk(ctx context.Context, patientID uuid.UUID) (*RiskCheck, error) {
	active, err := s.records.ListActive(ctx, patientID)
	if err != nil {
		return nil, err
	}

	meds := make([]engine.MedicationRecord, 0, len(active))
	for _, rec := range active {
		meds = append(meds, engine.MedicationRecord{Name: rec.Name, Active: rec.Active})
	}

	flag := engine.FlagRiskMedications(meds, s.riskList)
	return &RiskCheck{Flagged: flag.Flagged, Note: flag.Note}, nil
}
