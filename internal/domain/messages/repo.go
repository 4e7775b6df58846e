package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkUrgent(ctx context.Context, id uuid.UUID, urgent bool) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Message, int, error)
	ListUnread(ctx context.Context, patientID uuid.UUID) ([]*Message, error)
}
