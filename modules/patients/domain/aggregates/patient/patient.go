package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Patient is owner-scoped: every read and write is restricted to rows whose
// owner matches the authenticated principal. Timestamps are assigned by the
// store; updatedAt is the sole source of the concurrency tag.
type Patient struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	firstName   string
	lastName    string
	dateOfBirth time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func New(firstName, lastName string, dateOfBirth time.Time) Patient {
	return Patient{
		firstName:   NormalizeName(firstName),
		lastName:    NormalizeName(lastName),
		dateOfBirth: dateOfBirth,
	}
}

func Hydrate(
	id uuid.UUID,
	ownerID uuid.UUID,
	firstName string,
	lastName string,
	dateOfBirth time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Patient {
	return Patient{
		id:          id,
		ownerID:     ownerID,
		firstName:   NormalizeName(firstName),
		lastName:    NormalizeName(lastName),
		dateOfBirth: dateOfBirth,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p Patient) ID() uuid.UUID          { return p.id }
func (p Patient) OwnerID() uuid.UUID     { return p.ownerID }
func (p Patient) FirstName() string      { return p.firstName }
func (p Patient) LastName() string       { return p.lastName }
func (p Patient) DateOfBirth() time.Time { return p.dateOfBirth }
func (p Patient) CreatedAt() time.Time   { return p.createdAt }
func (p Patient) UpdatedAt() time.Time   { return p.updatedAt }
func (p Patient) IsZero() bool           { return p.id == uuid.Nil && p.firstName == "" && p.lastName == "" }

// SameIdentity reports whether the given fields collide with this patient's
// uniqueness identity: names case-insensitively, birth date by calendar day.
func (p Patient) SameIdentity(firstName, lastName string, dateOfBirth time.Time) bool {
	return strings.EqualFold(p.firstName, NormalizeName(firstName)) &&
		strings.EqualFold(p.lastName, NormalizeName(lastName)) &&
		SameDay(p.dateOfBirth, dateOfBirth)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// NormalizeName trims, collapses internal whitespace and applies NFC so that
// visually identical names compare equal.
func NormalizeName(v string) string {
	return norm.NFC.String(strings.Join(strings.Fields(v), " "))
}

type CreatedEvent struct {
	Result Patient
}

type UpdatedEvent struct {
	Result Patient
}

type DeletedEvent struct {
	Result Patient
}
