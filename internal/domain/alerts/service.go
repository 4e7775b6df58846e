package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Raise(ctx context.Context, a *Alert) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	if a.RaisedAt.IsZero() {
		a.RaisedAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Resolve(ctx context.Context, id uuid.UUID) error {
	return s.repo.Resolve(ctx, id, time.Now().UTC())
}

func (s *Service) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Alert, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) CountUnresolved(ctx context.Context, patientID uuid.UUID) (int, error) {
	return s.repo.CountUnresolved(ctx, patientID)
}

// Acknowledge records that a clinician saw the alert. It does not resolve the
// alert and has no effect on snapshot computation.
func (s *Service) Acknowledge(ctx context.Context, ack *Acknowledgement) error {
	if ack.AlertID == uuid.Nil {
		return fmt.Errorf("alert_id is required")
	}
	if ack.AcknowledgedBy == "" {
		return fmt.Errorf("acknowledged_by is required")
	}
	if _, err := s.repo.GetByID(ctx, ack.AlertID); err != nil {
		return fmt.Errorf("alert not found: %w", err)
	}
	return s.repo.AddAcknowledgement(ctx, ack)
}

func (s *Service) Acknowledgements(ctx context.Context, alertID uuid.UUID) ([]*Acknowledgement, error) {
	return s.repo.ListAcknowledgements(ctx, alertID)
}
