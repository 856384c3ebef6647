package visit

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Visit struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	patientID uuid.UUID
	visitedAt time.Time
	reason    string
	notes     string
	createdAt time.Time
	updatedAt time.Time
}

func New(patientID uuid.UUID, visitedAt time.Time, reason, notes string) Visit {
	return Visit{
		patientID: patientID,
		visitedAt: visitedAt,
		reason:    strings.TrimSpace(reason),
		notes:     strings.TrimSpace(notes),
	}
}

func Hydrate(
	id uuid.UUID,
	ownerID uuid.UUID,
	patientID uuid.UUID,
	visitedAt time.Time,
	reason string,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) Visit {
	return Visit{
		id:        id,
		ownerID:   ownerID,
		patientID: patientID,
		visitedAt: visitedAt,
		reason:    strings.TrimSpace(reason),
		notes:     strings.TrimSpace(notes),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (v Visit) ID() uuid.UUID        { return v.id }
func (v Visit) OwnerID() uuid.UUID   { return v.ownerID }
func (v Visit) PatientID() uuid.UUID { return v.patientID }
func (v Visit) VisitedAt() time.Time { return v.visitedAt }
func (v Visit) Reason() string       { return v.reason }
func (v Visit) Notes() string        { return v.notes }
func (v Visit) CreatedAt() time.Time { return v.createdAt }
func (v Visit) UpdatedAt() time.Time { return v.updatedAt }
func (v Visit) IsZero() bool         { return v.id == uuid.Nil && v.patientID == uuid.Nil }

// Stats summarizes a patient's visit history. LastVisitAt is nil when the
// patient has no visits.
type Stats struct {
	VisitCount  int
	LastVisitAt *time.Time
}

type CreatedEvent struct {
	Result Visit
}

type UpdatedEvent struct {
	Result Visit
}

type DeletedEvent struct {
	Result Visit
}
