package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/recommendations/domain/entities/recommendation"
	"github.com/carelog/carelog/pkg/composables"
	"github.com/carelog/carelog/pkg/configuration"
	"github.com/carelog/carelog/pkg/pgrest"
	"github.com/carelog/carelog/pkg/serrors"
)

const recommendationsTable = "recommendations"

type recommendationRow struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

type recommendationInsert struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
}

type RecommendationRepository struct{}

func NewRecommendationRepository() recommendation.Repository {
	return &RecommendationRepository{}
}

func (r *RecommendationRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]recommendation.Recommendation, error) {
	const op = "recommendations.GetByPatient"

	store, principal, err := scoped(ctx)
	if err != nil {
		return nil, err
	}

	var rows []recommendationRow
	err = store.From(recommendationsTable).
		Select("*").
		Eq("owner_id", principal.ID).
		Eq("patient_id", patientID).
		OrderBy("created_at", true).
		Get(ctx, &rows)
	if err != nil {
		return nil, upstream(ctx, op, principal.ID, patientID, err)
	}

	out := make([]recommendation.Recommendation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainRecommendation(row))
	}
	return out, nil
}

func (r *RecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (recommendation.Recommendation, error) {
	const op = "recommendations.GetByID"

	store, principal, err := scoped(ctx)
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	var rows []recommendationRow
	err = store.From(recommendationsTable).
		Select("*").
		Eq("id", id).
		Eq("owner_id", principal.ID).
		Limit(1).
		Get(ctx, &rows)
	if err != nil {
		return recommendation.Recommendation{}, upstream(ctx, op, principal.ID, id, err)
	}
	if len(rows) == 0 {
		return recommendation.Recommendation{}, serrors.New(serrors.KindNotFound, op, "recommendation not found")
	}

	return toDomainRecommendation(rows[0]), nil
}

func (r *RecommendationRepository) Create(ctx context.Context, rec recommendation.Recommendation) (uuid.UUID, error) {
	const op = "recommendations.Create"

	store, principal, err := scoped(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	body := recommendationInsert{
		OwnerID:   principal.ID,
		PatientID: rec.PatientID(),
		Content:   rec.Content(),
		Model:     rec.Model(),
	}

	var rows []recommendationRow
	if err := store.From(recommendationsTable).Insert(ctx, body, &rows); err != nil {
		return uuid.Nil, upstream(ctx, op, principal.ID, rec.PatientID(), err)
	}
	if len(rows) == 0 {
		return uuid.Nil, serrors.New(serrors.KindUpstreamUnavailable, op, "store returned no representation")
	}

	return rows[0].ID, nil
}

func scoped(ctx context.Context) (*pgrest.Client, *composables.Principal, error) {
	store, err := composables.UseStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	principal, err := composables.UsePrincipal(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store, principal, nil
}

func upstream(ctx context.Context, op string, ownerID, id uuid.UUID, err error) error {
	if ctx.Err() != nil {
		return serrors.Wrap(serrors.KindUpstreamUnavailable, op, ctx.Err())
	}
	log, ok := composables.UseLogger(ctx)
	if !ok {
		log = configuration.Use().Logger().WithContext(ctx)
	}
	log.WithFields(map[string]interface{}{
		"op":    op,
		"owner": ownerID.String(),
		"id":    id.String(),
	}).WithError(err).Error("store request failed")
	return serrors.Wrap(serrors.KindUpstreamUnavailable, op, err)
}

func toDomainRecommendation(row recommendationRow) recommendation.Recommendation {
	return recommendation.Hydrate(
		row.ID,
		row.OwnerID,
		row.PatientID,
		row.Content,
		row.Model,
		row.CreatedAt,
	)
}
