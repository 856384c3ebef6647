package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	"github.com/carelog/carelog/modules/patients/infrastructure/persistence/models"
	"github.com/carelog/carelog/pkg/serrors"
)

const visitsTable = "visits"

type VisitRepository struct{}

func NewVisitRepository() visit.Repository {
	return &VisitRepository{}
}

func (r *VisitRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]visit.Visit, error) {
	const op = "visits.GetByPatient"

	store, principal, err := scoped(ctx)
	if err != nil {
		return nil, err
	}

	var rows []models.VisitRow
	err = store.From(visitsTable).
		Select("*").
		Eq("owner_id", principal.ID).
		Eq("patient_id", patientID).
		OrderBy("visited_at", true).
		Get(ctx, &rows)
	if err != nil {
		return nil, upstream(ctx, op, principal.ID, patientID, err)
	}

	return toDomainVisits(rows), nil
}

func (r *VisitRepository) GetByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]visit.Visit, error) {
	const op = "visits.GetByPatients"

	if len(patientIDs) == 0 {
		return nil, serrors.New(serrors.KindInvalidArgument, op, "empty patient id set")
	}

	store, principal, err := scoped(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(patientIDs))
	for _, id := range patientIDs {
		ids = append(ids, id.String())
	}

	var rows []models.VisitRow
	err = store.From(visitsTable).
		Select("*").
		Eq("owner_id", principal.ID).
		In("patient_id", ids).
		Get(ctx, &rows)
	if err != nil {
		return nil, upstream(ctx, op, principal.ID, uuid.Nil, err)
	}

	return toDomainVisits(rows), nil
}

func (r *VisitRepository) GetByID(ctx context.Context, id uuid.UUID) (visit.Visit, error) {
	const op = "visits.GetByID"

	store, principal, err := scoped(ctx)
	if err != nil {
		return visit.Visit{}, err
	}

	var rows []models.VisitRow
	err = store.From(visitsTable).
		Select("*").
		Eq("id", id).
		Eq("owner_id", principal.ID).
		Limit(1).
		Get(ctx, &rows)
	if err != nil {
		return visit.Visit{}, upstream(ctx, op, principal.ID, id, err)
	}
	if len(rows) == 0 {
		return visit.Visit{}, serrors.New(serrors.KindNotFound, op, "visit not found")
	}

	return toDomainVisit(rows[0]), nil
}

func (r *VisitRepository) Create(ctx context.Context, v visit.Visit) (uuid.UUID, error) {
	const op = "visits.Create"

	store, principal, err := scoped(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	body := models.VisitInsert{
		OwnerID:   principal.ID,
		PatientID: v.PatientID(),
		VisitedAt: v.VisitedAt(),
		Reason:    v.Reason(),
		Notes:     v.Notes(),
	}

	var rows []models.VisitRow
	if err := store.From(visitsTable).Insert(ctx, body, &rows); err != nil {
		return uuid.Nil, upstream(ctx, op, principal.ID, v.PatientID(), err)
	}
	if len(rows) == 0 {
		return uuid.Nil, serrors.New(serrors.KindUpstreamUnavailable, op, "store returned no representation")
	}

	return rows[0].ID, nil
}

func (r *VisitRepository) Update(ctx context.Context, v visit.Visit) error {
	const op = "visits.Update"

	store, principal, err := scoped(ctx)
	if err != nil {
		return err
	}

	body := models.VisitPatch{
		VisitedAt: v.VisitedAt(),
		Reason:    v.Reason(),
		Notes:     v.Notes(),
	}

	var rows []models.VisitRow
	err = store.From(visitsTable).
		Eq("id", v.ID()).
		Eq("owner_id", principal.ID).
		Patch(ctx, body, &rows)
	if err != nil {
		return upstream(ctx, op, principal.ID, v.ID(), err)
	}
	if len(rows) == 0 {
		return serrors.New(serrors.KindNotFound, op, "visit not found")
	}
	return nil
}

func (r *VisitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "visits.Delete"

	store, principal, err := scoped(ctx)
	if err != nil {
		return err
	}

	err = store.From(visitsTable).
		Eq("id", id).
		Eq("owner_id", principal.ID).
		Delete(ctx)
	if err != nil {
		return upstream(ctx, op, principal.ID, id, err)
	}
	return nil
}

func toDomainVisits(rows []models.VisitRow) []visit.Visit {
	out := make([]visit.Visit, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainVisit(row))
	}
	return out
}

func toDomainVisit(row models.VisitRow) visit.Visit {
	return visit.Hydrate(
		row.ID,
		row.OwnerID,
		row.PatientID,
		row.VisitedAt,
		row.Reason,
		row.Notes,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
