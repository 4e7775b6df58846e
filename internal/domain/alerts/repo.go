package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Alert, int, error)
	CountUnresolved(ctx context.Context, patientID uuid.UUID) (int, error)
	// Acknowledgements are append-only.
	AddAcknowledgement(ctx context.Context, ack *Acknowledgement) error
	ListAcknowledgements(ctx context.Context, alertID uuid.UUID) ([]*Acknowledgement, error)
}
