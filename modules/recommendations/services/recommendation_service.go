package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	patientservices "github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/modules/recommendations/domain/entities/recommendation"
	"github.com/carelog/carelog/pkg/eventbus"
	"github.com/carelog/carelog/pkg/serrors"
)

// Generator turns a patient's history into recommendation text. The model
// call is the only part of this module that leaves the request path, and it
// is swapped out entirely in tests.
type Generator interface {
	Model() string
	Generate(ctx context.Context, p patient.Patient, visits []visit.Visit) (string, error)
}

type RecommendationService struct {
	repo      recommendation.Repository
	patients  *patientservices.PatientService
	visits    *patientservices.VisitService
	generator Generator
	publisher eventbus.EventBus
}

func NewRecommendationService(
	repo recommendation.Repository,
	patients *patientservices.PatientService,
	visits *patientservices.VisitService,
	generator Generator,
	publisher eventbus.EventBus,
) *RecommendationService {
	return &RecommendationService{
		repo:      repo,
		patients:  patients,
		visits:    visits,
		generator: generator,
		publisher: publisher,
	}
}

func (s *RecommendationService) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]recommendation.Recommendation, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.GetByPatient(ctx, patientID)
}

// Generate loads the patient and its visit history under the caller's
// credential, asks the model for guidance and persists the result.
func (s *RecommendationService) Generate(ctx context.Context, patientID uuid.UUID) (recommendation.Recommendation, error) {
	const op = "RecommendationService.Generate"

	if s.generator == nil {
		return recommendation.Recommendation{}, serrors.New(serrors.KindUpstreamUnavailable, op, "no generator configured")
	}

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	visits, err := s.visits.GetByPatient(ctx, patientID)
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	content, err := s.generator.Generate(ctx, p, visits)
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	id, err := s.repo.Create(ctx, recommendation.New(patientID, content, s.generator.Model()))
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	s.publisher.Publish(recommendation.GeneratedEvent{Result: created})
	return created, nil
}
