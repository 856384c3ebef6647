package patient

import (
	"time"

	"github.com/carelog/carelog/pkg/constants"
	"github.com/carelog/carelog/pkg/serrors"
)

const dateOfBirthLayout = "2006-01-02"

var earliestDateOfBirth = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

type CreateDTO struct {
	FirstName   string `json:"firstName" validate:"required,min=1,max=100"`
	LastName    string `json:"lastName" validate:"required,min=1,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

func (d *CreateDTO) Normalize() {
	d.FirstName = NormalizeName(d.FirstName)
	d.LastName = NormalizeName(d.LastName)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := serrors.FieldErrors(constants.Validate.Struct(d))
	validateDateOfBirth(d.DateOfBirth, errs)
	return errs, len(errs) == 0
}

func (d *CreateDTO) DateOfBirthTime() time.Time {
	t, _ := time.Parse(dateOfBirthLayout, d.DateOfBirth)
	return t
}

// UpdateDTO carries the full replacement state of a patient; partial updates
// are not supported.
type UpdateDTO struct {
	FirstName   string `json:"firstName" validate:"required,min=1,max=100"`
	LastName    string `json:"lastName" validate:"required,min=1,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

func (d *UpdateDTO) Normalize() {
	d.FirstName = NormalizeName(d.FirstName)
	d.LastName = NormalizeName(d.LastName)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := serrors.FieldErrors(constants.Validate.Struct(d))
	validateDateOfBirth(d.DateOfBirth, errs)
	return errs, len(errs) == 0
}

func (d *UpdateDTO) DateOfBirthTime() time.Time {
	t, _ := time.Parse(dateOfBirthLayout, d.DateOfBirth)
	return t
}

func validateDateOfBirth(value string, errs map[string]string) {
	if errs["DateOfBirth"] != "" {
		return
	}
	t, err := time.Parse(dateOfBirthLayout, value)
	if err != nil {
		return
	}
	if t.After(time.Now().UTC()) {
		errs["DateOfBirth"] = "date of birth cannot be in the future"
	} else if t.Before(earliestDateOfBirth) {
		errs["DateOfBirth"] = "date of birth is out of range"
	}
}
