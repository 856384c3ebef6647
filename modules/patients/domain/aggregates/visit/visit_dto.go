package visit

import (
	"strings"
	"time"

	"github.com/carelog/carelog/pkg/constants"
	"github.com/carelog/carelog/pkg/serrors"
)

// visitLookahead tolerates clock skew for visits logged slightly ahead of
// the server clock.
const visitLookahead = 24 * time.Hour

type CreateDTO struct {
	VisitedAt string `json:"visitedAt" validate:"required"`
	Reason    string `json:"reason" validate:"required,min=1,max=200"`
	Notes     string `json:"notes" validate:"max=2000"`
}

func (d *CreateDTO) Normalize() {
	d.Reason = strings.TrimSpace(d.Reason)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := serrors.FieldErrors(constants.Validate.Struct(d))
	validateVisitedAt(d.VisitedAt, errs)
	return errs, len(errs) == 0
}

func (d *CreateDTO) VisitedAtTime() time.Time {
	t, _ := time.Parse(time.RFC3339, d.VisitedAt)
	return t
}

type UpdateDTO struct {
	VisitedAt string `json:"visitedAt" validate:"required"`
	Reason    string `json:"reason" validate:"required,min=1,max=200"`
	Notes     string `json:"notes" validate:"max=2000"`
}

func (d *UpdateDTO) Normalize() {
	d.Reason = strings.TrimSpace(d.Reason)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := serrors.FieldErrors(constants.Validate.Struct(d))
	validateVisitedAt(d.VisitedAt, errs)
	return errs, len(errs) == 0
}

func (d *UpdateDTO) VisitedAtTime() time.Time {
	t, _ := time.Parse(time.RFC3339, d.VisitedAt)
	return t
}

func validateVisitedAt(value string, errs map[string]string) {
	if errs["VisitedAt"] != "" {
		return
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		errs["VisitedAt"] = "must be an RFC 3339 timestamp"
		return
	}
	if t.After(time.Now().Add(visitLookahead)) {
		errs["VisitedAt"] = "cannot be more than 24 hours in the future"
	}
}
