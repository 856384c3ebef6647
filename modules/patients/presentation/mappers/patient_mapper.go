package mappers

import (
	"time"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	"github.com/carelog/carelog/modules/patients/presentation/viewmodels"
	"github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/pkg/etag"
)

func PatientToViewModel(p patient.Patient) *viewmodels.Patient {
	return &viewmodels.Patient{
		ID:          p.ID().String(),
		FirstName:   p.FirstName(),
		LastName:    p.LastName(),
		DateOfBirth: p.DateOfBirth().UTC().Format("2006-01-02"),
		CreatedAt:   p.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt().UTC().Format(time.RFC3339Nano),
		ETag:        etag.Format(p.UpdatedAt()),
	}
}

func PatientToListItem(item services.PatientWithStats) *viewmodels.PatientListItem {
	var lastVisit *string
	if item.LastVisitAt != nil {
		formatted := item.LastVisitAt.UTC().Format(time.RFC3339Nano)
		lastVisit = &formatted
	}
	return &viewmodels.PatientListItem{
		Patient:     *PatientToViewModel(item.Patient),
		VisitCount:  item.VisitCount,
		LastVisitAt: lastVisit,
	}
}

func VisitToViewModel(v visit.Visit) *viewmodels.Visit {
	return &viewmodels.Visit{
		ID:        v.ID().String(),
		PatientID: v.PatientID().String(),
		VisitedAt: v.VisitedAt().UTC().Format(time.RFC3339Nano),
		Reason:    v.Reason(),
		Notes:     v.Notes(),
		CreatedAt: v.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt: v.UpdatedAt().UTC().Format(time.RFC3339Nano),
		ETag:      etag.Format(v.UpdatedAt()),
	}
}
