package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Date marshals as a bare calendar day, which is how the store represents
// date columns on the wire.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// Read rows. Store-generated columns (id, created_at, updated_at) are only
// trusted on reads; writes never carry them.

type PatientRow struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth Date      `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type VisitRow struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	PatientID uuid.UUID `json:"patient_id"`
	VisitedAt time.Time `json:"visited_at"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Write bodies.

type PatientInsert struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth Date      `json:"date_of_birth"`
}

type PatientPatch struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth Date   `json:"date_of_birth"`
}

type VisitInsert struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	PatientID uuid.UUID `json:"patient_id"`
	VisitedAt time.Time `json:"visited_at"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
}

type VisitPatch struct {
	VisitedAt time.Time `json:"visited_at"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
}
