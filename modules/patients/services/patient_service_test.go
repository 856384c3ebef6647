package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/pkg/etag"
	"github.com/carelog/carelog/pkg/serrors"
)

func newPatientService(repo *mockPatientRepo) (*PatientService, *stubPublisher) {
	publisher := &stubPublisher{}
	return NewPatientService(repo, &mockStatsProvider{}, publisher), publisher
}

func TestPatientService_Create_ReloadsForAuthoritativeTag(t *testing.T) {
	repo := newMockPatientRepo()
	svc, publisher := newPatientService(repo)

	created, err := svc.Create(context.Background(), &patient.CreateDTO{
		FirstName:   "  Anna ",
		LastName:    "Nowak",
		DateOfBirth: "1990-05-12",
	})
	require.NoError(t, err)
	require.Equal(t, "Anna", created.FirstName())
	require.Equal(t, baseTime, created.UpdatedAt(), "timestamps must come from the follow-up read")
	require.Equal(t, 1, repo.existsCalls)
	require.Equal(t, 1, repo.createCalls)
	require.Len(t, publisher.events, 1)
}

func TestPatientService_Create_DuplicatePreCheck(t *testing.T) {
	repo := newMockPatientRepo()
	repo.existsResult = true
	svc, _ := newPatientService(repo)

	_, err := svc.Create(context.Background(), &patient.CreateDTO{
		FirstName:   "Anna",
		LastName:    "Nowak",
		DateOfBirth: "1990-05-12",
	})
	require.True(t, serrors.IsKind(err, serrors.KindDuplicateConflict))
	require.Equal(t, 0, repo.createCalls, "write must not be issued after a pre-check hit")
}

func TestPatientService_Update_PreconditionFlow(t *testing.T) {
	repo := newMockPatientRepo()
	existing := patient.Hydrate(repo.nextID, uuidOwner, "Anna", "Nowak", dob(1990, 5, 12), baseTime, baseTime)
	repo.add(existing)
	svc, _ := newPatientService(repo)

	dto := &patient.UpdateDTO{FirstName: "Anna", LastName: "Kowalska", DateOfBirth: "1990-05-12"}

	_, err := svc.Update(context.Background(), existing.ID(), dto, "")
	require.True(t, serrors.IsKind(err, serrors.KindMissingPrecondition))

	_, err = svc.Update(context.Background(), existing.ID(), dto, `"not-a-weak-tag"`)
	require.True(t, serrors.IsKind(err, serrors.KindInvalidPrecondition))

	_, err = svc.Update(context.Background(), existing.ID(), dto, etag.Format(bumpTime))
	require.True(t, serrors.IsKind(err, serrors.KindVersionConflict))
	require.Equal(t, 0, repo.updateCalls)
}

func TestPatientService_Update_Succeeds(t *testing.T) {
	repo := newMockPatientRepo()
	existing := patient.Hydrate(repo.nextID, uuidOwner, "Anna", "Nowak", dob(1990, 5, 12), baseTime, baseTime)
	repo.add(existing)
	svc, publisher := newPatientService(repo)

	updated, err := svc.Update(
		context.Background(),
		existing.ID(),
		&patient.UpdateDTO{FirstName: "Anna", LastName: "Kowalska", DateOfBirth: "1990-05-12"},
		etag.Format(baseTime),
	)
	require.NoError(t, err)
	require.Equal(t, "Kowalska", updated.LastName())
	require.Equal(t, bumpTime, updated.UpdatedAt(), "tag must be recomputed from the reloaded row")
	require.NotEqual(t, etag.Format(baseTime), etag.Format(updated.UpdatedAt()))
	require.Len(t, publisher.events, 1)
}

func TestPatientService_Update_LostUpdatePrevention(t *testing.T) {
	repo := newMockPatientRepo()
	existing := patient.Hydrate(repo.nextID, uuidOwner, "Anna", "Nowak", dob(1990, 5, 12), baseTime, baseTime)
	repo.add(existing)
	svc, _ := newPatientService(repo)

	staleTag := etag.Format(baseTime)

	first, err := svc.Update(context.Background(), existing.ID(),
		&patient.UpdateDTO{FirstName: "Anna", LastName: "Kowalska", DateOfBirth: "1990-05-12"}, staleTag)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), existing.ID(),
		&patient.UpdateDTO{FirstName: "Anna", LastName: "Wojcik", DateOfBirth: "1990-05-12"}, staleTag)
	require.True(t, serrors.IsKind(err, serrors.KindVersionConflict))

	current, err := svc.GetByID(context.Background(), existing.ID())
	require.NoError(t, err)
	require.Equal(t, first.LastName(), current.LastName(), "only the first update's effect may be visible")
}

func TestPatientService_Update_NoOpRejected(t *testing.T) {
	repo := newMockPatientRepo()
	existing := patient.Hydrate(repo.nextID, uuidOwner, "Anna", "Nowak", dob(1990, 5, 12), baseTime, baseTime)
	repo.add(existing)
	svc, _ := newPatientService(repo)

	_, err := svc.Update(
		context.Background(),
		existing.ID(),
		&patient.UpdateDTO{FirstName: " Anna ", LastName: "Nowak", DateOfBirth: "1990-05-12"},
		etag.Format(baseTime),
	)
	require.True(t, serrors.IsKind(err, serrors.KindNoOpRejected))
	require.Equal(t, 0, repo.updateCalls)

	current, err := svc.GetByID(context.Background(), existing.ID())
	require.NoError(t, err)
	require.Equal(t, baseTime, current.UpdatedAt(), "a rejected no-op must leave the row untouched")
}

func TestPatientService_Update_IdentityChangeRechecksDuplicates(t *testing.T) {
	repo := newMockPatientRepo()
	existing := patient.Hydrate(repo.nextID, uuidOwner, "Anna", "Nowak", dob(1990, 5, 12), baseTime, baseTime)
	repo.add(existing)
	repo.existsResult = true
	svc, _ := newPatientService(repo)

	_, err := svc.Update(
		context.Background(),
		existing.ID(),
		&patient.UpdateDTO{FirstName: "Anna", LastName: "Kowalska", DateOfBirth: "1990-05-12"},
		etag.Format(baseTime),
	)
	require.True(t, serrors.IsKind(err, serrors.KindDuplicateConflict))
	require.Equal(t, 1, repo.existsCalls)
	require.Equal(t, 0, repo.updateCalls)
}

func TestPatientService_Delete_ReadsToConfirm(t *testing.T) {
	repo := newMockPatientRepo()
	existing := patient.Hydrate(repo.nextID, uuidOwner, "Anna", "Nowak", dob(1990, 5, 12), baseTime, baseTime)
	repo.add(existing)
	svc, publisher := newPatientService(repo)

	deleted, err := svc.Delete(context.Background(), existing.ID())
	require.NoError(t, err)
	require.Equal(t, existing.ID(), deleted.ID())
	require.Equal(t, 1, repo.deleteCalls)
	require.Len(t, publisher.events, 1)
}

func TestPatientService_Delete_NotFound(t *testing.T) {
	repo := newMockPatientRepo()
	svc, _ := newPatientService(repo)

	_, err := svc.Delete(context.Background(), repo.nextID)
	require.True(t, serrors.IsKind(err, serrors.KindNotFound))
	require.Equal(t, 0, repo.deleteCalls, "delete must not be issued without a confirming read")
}
