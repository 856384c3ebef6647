package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	patientservices "github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/modules/recommendations/domain/entities/recommendation"
	"github.com/carelog/carelog/pkg/serrors"
)

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "carelog-recommendations-test")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("LOG_PATH", filepath.Join(tmp, "app.log"))
	code := m.Run()
	_ = os.RemoveAll(tmp)
	os.Exit(code)
}

var (
	testTime  = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	testOwner = uuid.New()
)

type fakePatientRepo struct {
	patients map[uuid.UUID]patient.Patient
}

func (f *fakePatientRepo) GetAll(ctx context.Context, search string) ([]patient.Patient, error) {
	return nil, nil
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id uuid.UUID) (patient.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return patient.Patient{}, serrors.New(serrors.KindNotFound, "patients.GetByID", "patient not found")
	}
	return p, nil
}

func (f *fakePatientRepo) Exists(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, excludeID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakePatientRepo) Create(ctx context.Context, p patient.Patient) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, p patient.Patient) error { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

type fakeVisitRepo struct {
	visits []visit.Visit
}

func (f *fakeVisitRepo) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]visit.Visit, error) {
	return f.visits, nil
}

func (f *fakeVisitRepo) GetByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]visit.Visit, error) {
	return f.visits, nil
}

func (f *fakeVisitRepo) GetByID(ctx context.Context, id uuid.UUID) (visit.Visit, error) {
	return visit.Visit{}, serrors.New(serrors.KindNotFound, "visits.GetByID", "visit not found")
}

func (f *fakeVisitRepo) Create(ctx context.Context, v visit.Visit) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (f *fakeVisitRepo) Update(ctx context.Context, v visit.Visit) error { return nil }
func (f *fakeVisitRepo) Delete(ctx context.Context, id uuid.UUID) error  { return nil }

type fakeRecommendationRepo struct {
	created map[uuid.UUID]recommendation.Recommendation
	nextID  uuid.UUID
}

func (f *fakeRecommendationRepo) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]recommendation.Recommendation, error) {
	var out []recommendation.Recommendation
	for _, rec := range f.created {
		if rec.PatientID() == patientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecommendationRepo) GetByID(ctx context.Context, id uuid.UUID) (recommendation.Recommendation, error) {
	rec, ok := f.created[id]
	if !ok {
		return recommendation.Recommendation{}, serrors.New(serrors.KindNotFound, "recommendations.GetByID", "recommendation not found")
	}
	return rec, nil
}

func (f *fakeRecommendationRepo) Create(ctx context.Context, rec recommendation.Recommendation) (uuid.UUID, error) {
	f.created[f.nextID] = recommendation.Hydrate(f.nextID, testOwner, rec.PatientID(), rec.Content(), rec.Model(), testTime)
	return f.nextID, nil
}

type stubGenerator struct {
	content string
	err     error
	calls   int
}

func (s *stubGenerator) Model() string { return "stub-model" }

func (s *stubGenerator) Generate(ctx context.Context, p patient.Patient, visits []visit.Visit) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

type stubPublisher struct{}

func (s *stubPublisher) Publish(args ...interface{})     {}
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          {}
func (s *stubPublisher) SubscribersCount() int           { return 0 }

func newService(patientRepo *fakePatientRepo, generator Generator) *RecommendationService {
	visitRepo := &fakeVisitRepo{}
	patients := patientservices.NewPatientService(patientRepo, nil, &stubPublisher{})
	visits := patientservices.NewVisitService(visitRepo, patientRepo, &stubPublisher{})
	recRepo := &fakeRecommendationRepo{
		created: make(map[uuid.UUID]recommendation.Recommendation),
		nextID:  uuid.New(),
	}
	return NewRecommendationService(recRepo, patients, visits, generator, &stubPublisher{})
}

func TestGenerate_PersistsAndReloads(t *testing.T) {
	patientID := uuid.New()
	patientRepo := &fakePatientRepo{patients: map[uuid.UUID]patient.Patient{
		patientID: patient.Hydrate(patientID, testOwner, "Anna", "Nowak", testTime, testTime, testTime),
	}}
	generator := &stubGenerator{content: "schedule a follow-up in two weeks"}
	svc := newService(patientRepo, generator)

	rec, err := svc.Generate(context.Background(), patientID)
	require.NoError(t, err)
	require.Equal(t, 1, generator.calls)
	require.Equal(t, patientID, rec.PatientID())
	require.Equal(t, "schedule a follow-up in two weeks", rec.Content())
	require.Equal(t, "stub-model", rec.Model())
	require.Equal(t, testTime, rec.CreatedAt(), "timestamps come from the follow-up read")
}

func TestGenerate_UnknownPatient(t *testing.T) {
	patientRepo := &fakePatientRepo{patients: map[uuid.UUID]patient.Patient{}}
	generator := &stubGenerator{content: "anything"}
	svc := newService(patientRepo, generator)

	_, err := svc.Generate(context.Background(), uuid.New())
	require.True(t, serrors.IsKind(err, serrors.KindNotFound))
	require.Equal(t, 0, generator.calls, "the model must not see data for an invisible patient")
}

func TestGenerate_GeneratorFailure(t *testing.T) {
	patientID := uuid.New()
	patientRepo := &fakePatientRepo{patients: map[uuid.UUID]patient.Patient{
		patientID: patient.Hydrate(patientID, testOwner, "Anna", "Nowak", testTime, testTime, testTime),
	}}
	generator := &stubGenerator{err: serrors.New(serrors.KindUpstreamUnavailable, "stub", "model unavailable")}
	svc := newService(patientRepo, generator)

	_, err := svc.Generate(context.Background(), patientID)
	require.True(t, serrors.IsKind(err, serrors.KindUpstreamUnavailable))
}
