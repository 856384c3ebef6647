package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SortBy string

const (
	SortByName        SortBy = "name"
	SortByDateOfBirth SortBy = "dateOfBirth"
	SortByCreatedAt   SortBy = "createdAt"
	SortByLastVisit   SortBy = "lastVisit"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FindParams describes one listing request. Zero values fall back to the
// collection defaults during planning.
type FindParams struct {
	Page      int       `form:"page"`
	PageSize  int       `form:"pageSize"`
	Q         string    `form:"search"`
	SortBy    SortBy    `form:"sort"`
	SortOrder SortOrder `form:"order"`
}

// Repository reads and writes rows owned by the principal bound to ctx. A
// row owned by someone else is indistinguishable from a missing one.
type Repository interface {
	GetAll(ctx context.Context, search string) ([]Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (Patient, error)
	Exists(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, p Patient) (uuid.UUID, error)
	Update(ctx context.Context, p Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
