package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/pkg/etag"
	"github.com/carelog/carelog/pkg/eventbus"
	"github.com/carelog/carelog/pkg/serrors"
)

// PatientService orchestrates the read-validate-write-reload cycle for
// patient rows. The store offers no compare-and-swap, so lost-update
// protection is reconstructed here from the If-Match tag and the row's
// updated_at. Nothing in this service retries: after a conflict the caller
// must re-read before trying again.
type PatientService struct {
	repo      patient.Repository
	stats     VisitStatsProvider
	publisher eventbus.EventBus
}

func NewPatientService(repo patient.Repository, stats VisitStatsProvider, publisher eventbus.EventBus) *PatientService {
	return &PatientService{
		repo:      repo,
		stats:     stats,
		publisher: publisher,
	}
}

func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) Create(ctx context.Context, dto *patient.CreateDTO) (patient.Patient, error) {
	const op = "PatientService.Create"

	if dto == nil {
		return patient.Patient{}, serrors.New(serrors.KindInvalidArgument, op, "missing payload")
	}
	dto.Normalize()

	// Advisory pre-check for a friendlier conflict message. The write below
	// can still lose the race; the unique constraint decides.
	exists, err := s.repo.Exists(ctx, dto.FirstName, dto.LastName, dto.DateOfBirthTime(), uuid.Nil)
	if err != nil {
		return patient.Patient{}, err
	}
	if exists {
		return patient.Patient{}, serrors.New(serrors.KindDuplicateConflict, op, "patient already exists")
	}

	id, err := s.repo.Create(ctx, patient.New(dto.FirstName, dto.LastName, dto.DateOfBirthTime()))
	if err != nil {
		return patient.Patient{}, err
	}

	// The write response may not echo store-generated timestamps reliably;
	// re-read so the caller gets an authoritative concurrency tag.
	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return patient.Patient{}, err
	}

	s.publisher.Publish(patient.CreatedEvent{Result: created})
	return created, nil
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, dto *patient.UpdateDTO, ifMatch string) (patient.Patient, error) {
	const op = "PatientService.Update"

	if dto == nil {
		return patient.Patient{}, serrors.New(serrors.KindInvalidArgument, op, "missing payload")
	}
	dto.Normalize()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return patient.Patient{}, err
	}

	if err := checkPrecondition(op, ifMatch, current.UpdatedAt()); err != nil {
		return patient.Patient{}, err
	}

	// An update that changes nothing means the caller is working from stale
	// state; reject it instead of minting a fresh tag for a phantom write.
	unchanged := current.FirstName() == dto.FirstName &&
		current.LastName() == dto.LastName &&
		patient.SameDay(current.DateOfBirth(), dto.DateOfBirthTime())
	if unchanged {
		return patient.Patient{}, serrors.New(serrors.KindNoOpRejected, op, "update changes nothing")
	}

	if !current.SameIdentity(dto.FirstName, dto.LastName, dto.DateOfBirthTime()) {
		exists, err := s.repo.Exists(ctx, dto.FirstName, dto.LastName, dto.DateOfBirthTime(), id)
		if err != nil {
			return patient.Patient{}, err
		}
		if exists {
			return patient.Patient{}, serrors.New(serrors.KindDuplicateConflict, op, "patient already exists")
		}
	}

	updated := patient.Hydrate(
		id,
		current.OwnerID(),
		dto.FirstName,
		dto.LastName,
		dto.DateOfBirthTime(),
		current.CreatedAt(),
		current.UpdatedAt(),
	)
	if err := s.repo.Update(ctx, updated); err != nil {
		return patient.Patient{}, err
	}

	reloaded, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return patient.Patient{}, err
	}

	s.publisher.Publish(patient.UpdatedEvent{Result: reloaded})
	return reloaded, nil
}

// Delete confirms ownership with a read first, then deletes. No concurrency
// tag: the outcome is the same whichever racing delete wins.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) (patient.Patient, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return patient.Patient{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return patient.Patient{}, err
	}

	s.publisher.Publish(patient.DeletedEvent{Result: entity})
	return entity, nil
}

// checkPrecondition enforces the If-Match contract: absent tag, malformed
// tag and mismatched tag are three distinct caller errors.
func checkPrecondition(op, ifMatch string, updatedAt time.Time) error {
	if ifMatch == "" {
		return serrors.New(serrors.KindMissingPrecondition, op, "If-Match header required")
	}
	if _, err := etag.Parse(ifMatch); err != nil {
		return serrors.Wrap(serrors.KindInvalidPrecondition, op, err)
	}
	if !etag.Matches(ifMatch, updatedAt) {
		return serrors.New(serrors.KindVersionConflict, op, "resource was modified concurrently")
	}
	return nil
}
