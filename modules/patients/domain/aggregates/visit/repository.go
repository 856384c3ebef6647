package visit

import (
	"context"

	"github.com/google/uuid"
)

// Repository is owner-scoped like the patient repository. GetByPatients is
// the batched in-set read that backs visit aggregation; it must not be
// called with an empty id set.
type Repository interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]Visit, error)
	GetByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]Visit, error)
	GetByID(ctx context.Context, id uuid.UUID) (Visit, error)
	Create(ctx context.Context, v Visit) (uuid.UUID, error)
	Update(ctx context.Context, v Visit) error
	Delete(ctx context.Context, id uuid.UUID) error
}
