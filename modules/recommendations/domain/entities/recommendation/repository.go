package recommendation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]Recommendation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Recommendation, error)
	Create(ctx context.Context, rec Recommendation) (uuid.UUID, error)
}
