package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/infrastructure/persistence/models"
	"github.com/carelog/carelog/pkg/pgrest"
	"github.com/carelog/carelog/pkg/serrors"
)

const patientsTable = "patients"

type PatientRepository struct{}

func NewPatientRepository() patient.Repository {
	return &PatientRepository{}
}

func (r *PatientRepository) GetAll(ctx context.Context, search string) ([]patient.Patient, error) {
	const op = "patients.GetAll"

	store, principal, err := scoped(ctx)
	if err != nil {
		return nil, err
	}

	q := store.From(patientsTable).
		Select("*").
		Eq("owner_id", principal.ID)
	if search != "" {
		q = q.OrILike(pgrest.Pattern(search), "first_name", "last_name")
	}

	var rows []models.PatientRow
	if err := q.Get(ctx, &rows); err != nil {
		return nil, upstream(ctx, op, principal.ID, uuid.Nil, err)
	}

	out := make([]patient.Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainPatient(row))
	}
	return out, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (patient.Patient, error) {
	const op = "patients.GetByID"

	store, principal, err := scoped(ctx)
	if err != nil {
		return patient.Patient{}, err
	}

	var rows []models.PatientRow
	err = store.From(patientsTable).
		Select("*").
		Eq("id", id).
		Eq("owner_id", principal.ID).
		Limit(1).
		Get(ctx, &rows)
	if err != nil {
		return patient.Patient{}, upstream(ctx, op, principal.ID, id, err)
	}
	if len(rows) == 0 {
		return patient.Patient{}, serrors.New(serrors.KindNotFound, op, "patient not found")
	}

	return toDomainPatient(rows[0]), nil
}

// Exists is the advisory duplicate pre-check. The store's uniqueness
// constraint remains the source of truth; a write can still lose the race
// and come back as a unique violation.
func (r *PatientRepository) Exists(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, excludeID uuid.UUID) (bool, error) {
	const op = "patients.Exists"

	store, principal, err := scoped(ctx)
	if err != nil {
		return false, err
	}

	q := store.From(patientsTable).
		Select("id").
		Eq("owner_id", principal.ID).
		ILike("first_name", pgrest.ExactPattern(firstName)).
		ILike("last_name", pgrest.ExactPattern(lastName)).
		Eq("date_of_birth", dateOfBirth.UTC().Format("2006-01-02")).
		Limit(1)
	if excludeID != uuid.Nil {
		q = q.Neq("id", excludeID)
	}

	var rows []models.PatientRow
	if err := q.Get(ctx, &rows); err != nil {
		return false, upstream(ctx, op, principal.ID, excludeID, err)
	}
	return len(rows) > 0, nil
}

func (r *PatientRepository) Create(ctx context.Context, p patient.Patient) (uuid.UUID, error) {
	const op = "patients.Create"

	store, principal, err := scoped(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	body := models.PatientInsert{
		OwnerID:     principal.ID,
		FirstName:   p.FirstName(),
		LastName:    p.LastName(),
		DateOfBirth: models.NewDate(p.DateOfBirth()),
	}

	var rows []models.PatientRow
	if err := store.From(patientsTable).Insert(ctx, body, &rows); err != nil {
		return uuid.Nil, upstream(ctx, op, principal.ID, uuid.Nil, err)
	}
	if len(rows) == 0 {
		return uuid.Nil, serrors.New(serrors.KindUpstreamUnavailable, op, "store returned no representation")
	}

	return rows[0].ID, nil
}

func (r *PatientRepository) Update(ctx context.Context, p patient.Patient) error {
	const op = "patients.Update"

	store, principal, err := scoped(ctx)
	if err != nil {
		return err
	}

	body := models.PatientPatch{
		FirstName:   p.FirstName(),
		LastName:    p.LastName(),
		DateOfBirth: models.NewDate(p.DateOfBirth()),
	}

	var rows []models.PatientRow
	err = store.From(patientsTable).
		Eq("id", p.ID()).
		Eq("owner_id", principal.ID).
		Patch(ctx, body, &rows)
	if err != nil {
		return upstream(ctx, op, principal.ID, p.ID(), err)
	}
	if len(rows) == 0 {
		return serrors.New(serrors.KindNotFound, op, "patient not found")
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "patients.Delete"

	store, principal, err := scoped(ctx)
	if err != nil {
		return err
	}

	err = store.From(patientsTable).
		Eq("id", id).
		Eq("owner_id", principal.ID).
		Delete(ctx)
	if err != nil {
		return upstream(ctx, op, principal.ID, id, err)
	}
	return nil
}

func toDomainPatient(row models.PatientRow) patient.Patient {
	return patient.Hydrate(
		row.ID,
		row.OwnerID,
		row.FirstName,
		row.LastName,
		row.DateOfBirth.Time,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
