package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	"github.com/carelog/carelog/pkg/eventbus"
	"github.com/carelog/carelog/pkg/serrors"
)

// VisitService applies the same coordinator discipline as PatientService.
// Visits carry no uniqueness constraint, so there is no duplicate pre-check.
type VisitService struct {
	repo      visit.Repository
	patients  patient.Repository
	publisher eventbus.EventBus
}

func NewVisitService(repo visit.Repository, patients patient.Repository, publisher eventbus.EventBus) *VisitService {
	return &VisitService{
		repo:      repo,
		patients:  patients,
		publisher: publisher,
	}
}

// GetByPatient confirms the parent patient is visible to the caller before
// listing, so a cross-owner patient id fails NotFound instead of returning
// an empty list.
func (s *VisitService) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]visit.Visit, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *VisitService) GetByID(ctx context.Context, id uuid.UUID) (visit.Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VisitService) Create(ctx context.Context, patientID uuid.UUID, dto *visit.CreateDTO) (visit.Visit, error) {
	const op = "VisitService.Create"

	if dto == nil {
		return visit.Visit{}, serrors.New(serrors.KindInvalidArgument, op, "missing payload")
	}
	dto.Normalize()

	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return visit.Visit{}, err
	}

	id, err := s.repo.Create(ctx, visit.New(patientID, dto.VisitedAtTime(), dto.Reason, dto.Notes))
	if err != nil {
		return visit.Visit{}, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return visit.Visit{}, err
	}

	s.publisher.Publish(visit.CreatedEvent{Result: created})
	return created, nil
}

func (s *VisitService) Update(ctx context.Context, id uuid.UUID, dto *visit.UpdateDTO, ifMatch string) (visit.Visit, error) {
	const op = "VisitService.Update"

	if dto == nil {
		return visit.Visit{}, serrors.New(serrors.KindInvalidArgument, op, "missing payload")
	}
	dto.Normalize()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return visit.Visit{}, err
	}

	if err := checkPrecondition(op, ifMatch, current.UpdatedAt()); err != nil {
		return visit.Visit{}, err
	}

	unchanged := current.VisitedAt().Equal(dto.VisitedAtTime()) &&
		current.Reason() == dto.Reason &&
		current.Notes() == dto.Notes
	if unchanged {
		return visit.Visit{}, serrors.New(serrors.KindNoOpRejected, op, "update changes nothing")
	}

	updated := visit.Hydrate(
		id,
		current.OwnerID(),
		current.PatientID(),
		dto.VisitedAtTime(),
		dto.Reason,
		dto.Notes,
		current.CreatedAt(),
		current.UpdatedAt(),
	)
	if err := s.repo.Update(ctx, updated); err != nil {
		return visit.Visit{}, err
	}

	reloaded, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return visit.Visit{}, err
	}

	s.publisher.Publish(visit.UpdatedEvent{Result: reloaded})
	return reloaded, nil
}

func (s *VisitService) Delete(ctx context.Context, id uuid.UUID) (visit.Visit, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return visit.Visit{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return visit.Visit{}, err
	}

	s.publisher.Publish(visit.DeletedEvent{Result: entity})
	return entity, nil
}
