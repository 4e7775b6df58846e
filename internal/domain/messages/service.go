package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/renalcare/renalcare/internal/engine"
)

type Service struct {
	repo     Repository
	keywords []string
}

// NewService creates the message service. keywords is the configured list of
// high-risk phrases scanned during triage.
func NewService(repo Repository, keywords []string) *Service {
	return &Service{repo: repo, keywords: keywords}
}

func (s *Service) Receive(ctx context.Context, m *Message) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, time.Now().UTC())
}

func (s *Service) MarkUrgent(ctx context.Context, id uuid.UUID, urgent bool) error {
	return s.repo.MarkUrgent(ctx, id, urgent)
}

func (s *Service) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListUnread(ctx context.Context, patientID uuid.UUID) ([]*Message, error) {
	return s.repo.ListUnread(ctx, patientID)
}

// Triage scans the patient's unread messages for urgency flags and high-risk
// keywords. Read messages never trigger.
func (s *Service) Triage(ctx context.Context, patientID uuid.UUID) (*engine.TriageResult, error) {
	unread, err := s.repo.ListUnread(ctx, patientID)
	if err != nil {
		return nil, err
	}

	msgs := make([]engine.PatientMessage, 0, len(unread))
	for _, m := range unread {
		msgs = append(msgs, engine.PatientMessage{
			Text:   m.Body,
			Urgent: m.Urgent,
			Read:   m.Read(),
			SentAt: m.SentAt,
		})
	}

	result := engine.TriageMessages(msgs, s.keywords, time.Now().UTC())
	return &result, nil
}
