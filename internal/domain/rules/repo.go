package rules

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *ClinicalRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRule, error)
	Update(ctx context.Context, r *ClinicalRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*ClinicalRule, int, error)
}
