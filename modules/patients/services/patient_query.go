package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	"github.com/carelog/carelog/pkg/configuration"
	"github.com/carelog/carelog/pkg/pagination"
	"github.com/carelog/carelog/pkg/serrors"
)

const maxSearchLength = 100

// PatientWithStats is the listing projection: the patient row plus its
// visit aggregate, recomputed per request.
type PatientWithStats struct {
	Patient     patient.Patient
	VisitCount  int
	LastVisitAt *time.Time
}

// List plans one listing request. Sorting by a native field slices the page
// first and aggregates only the returned rows; sorting by last visit needs
// the aggregate for every candidate row before the window can be cut, since
// the store cannot sort by a value it cannot compute.
func (s *PatientService) List(ctx context.Context, params *patient.FindParams) (pagination.Page[PatientWithStats], error) {
	const op = "PatientService.List"

	if params == nil {
		params = &patient.FindParams{}
	}

	conf := configuration.Use()
	page := params.Page
	if page == 0 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize == 0 {
		pageSize = conf.PageSize
	}
	if page < 1 {
		return pagination.Page[PatientWithStats]{}, serrors.New(serrors.KindInvalidArgument, op, "page must be at least 1")
	}
	if pageSize < 1 || pageSize > conf.MaxPageSize {
		return pagination.Page[PatientWithStats]{}, serrors.New(serrors.KindInvalidArgument, op, "pageSize out of range")
	}

	search := patient.NormalizeName(params.Q)
	if len([]rune(search)) > maxSearchLength {
		return pagination.Page[PatientWithStats]{}, serrors.New(serrors.KindInvalidArgument, op, "search term too long")
	}

	sortBy, descending := normalizeSort(params.SortBy, params.SortOrder)

	all, err := s.repo.GetAll(ctx, search)
	if err != nil {
		return pagination.Page[PatientWithStats]{}, err
	}
	total := len(all)

	if sortBy == patient.SortByLastVisit {
		items, err := s.listByAggregate(ctx, all, descending)
		if err != nil {
			return pagination.Page[PatientWithStats]{}, err
		}
		return pagination.New(pagination.Window(items, page, pageSize), page, pageSize, total), nil
	}

	sortPatients(all, sortBy, descending)
	window := pagination.Window(all, page, pageSize)

	stats, err := s.stats.ComputeStats(ctx, patientIDs(window))
	if err != nil {
		return pagination.Page[PatientWithStats]{}, err
	}

	return pagination.New(withStats(window, stats), page, pageSize, total), nil
}

// listByAggregate computes stats for the full candidate set, then sorts on
// the aggregate with the same tie-break chain as every other sort.
func (s *PatientService) listByAggregate(ctx context.Context, all []patient.Patient, descending bool) ([]PatientWithStats, error) {
	stats, err := s.stats.ComputeStats(ctx, patientIDs(all))
	if err != nil {
		return nil, err
	}

	items := withStats(all, stats)
	sort.SliceStable(items, func(i, j int) bool {
		if c := compareLastVisit(items[i].LastVisitAt, items[j].LastVisitAt); c != 0 {
			if descending {
				return c > 0
			}
			return c < 0
		}
		return patientLess(items[i].Patient, items[j].Patient)
	})
	return items, nil
}

func patientIDs(patients []patient.Patient) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.ID())
	}
	return ids
}

func withStats(patients []patient.Patient, stats map[uuid.UUID]visit.Stats) []PatientWithStats {
	items := make([]PatientWithStats, 0, len(patients))
	for _, p := range patients {
		st := stats[p.ID()]
		items = append(items, PatientWithStats{
			Patient:     p,
			VisitCount:  st.VisitCount,
			LastVisitAt: st.LastVisitAt,
		})
	}
	return items
}

// normalizeSort maps unknown sort keys to the name sort and fills in each
// field's default direction.
func normalizeSort(sortBy patient.SortBy, order patient.SortOrder) (patient.SortBy, bool) {
	switch sortBy {
	case patient.SortByName, patient.SortByDateOfBirth, patient.SortByCreatedAt, patient.SortByLastVisit:
	default:
		sortBy = patient.SortByName
	}

	var descending bool
	switch order {
	case patient.SortAsc:
		descending = false
	case patient.SortDesc:
		descending = true
	default:
		descending = sortBy == patient.SortByCreatedAt || sortBy == patient.SortByLastVisit
	}
	return sortBy, descending
}

func sortPatients(patients []patient.Patient, sortBy patient.SortBy, descending bool) {
	sort.SliceStable(patients, func(i, j int) bool {
		var c int
		switch sortBy {
		case patient.SortByDateOfBirth:
			c = compareTime(patients[i].DateOfBirth(), patients[j].DateOfBirth())
		case patient.SortByCreatedAt:
			c = compareTime(patients[i].CreatedAt(), patients[j].CreatedAt())
		default:
			c = compareName(patients[i], patients[j])
		}
		if c != 0 {
			if descending {
				return c > 0
			}
			return c < 0
		}
		// Tie-breaks run in a fixed direction so page boundaries stay
		// stable regardless of the requested order.
		return patientLess(patients[i], patients[j])
	})
}

// patientLess is the shared deterministic tie-break: last name, first name
// (both case-insensitive), then the unique id.
func patientLess(a, b patient.Patient) bool {
	if c := strings.Compare(strings.ToLower(a.LastName()), strings.ToLower(b.LastName())); c != 0 {
		return c < 0
	}
	if c := strings.Compare(strings.ToLower(a.FirstName()), strings.ToLower(b.FirstName())); c != 0 {
		return c < 0
	}
	return a.ID().String() < b.ID().String()
}

func compareName(a, b patient.Patient) int {
	if c := strings.Compare(strings.ToLower(a.LastName()), strings.ToLower(b.LastName())); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.FirstName()), strings.ToLower(b.FirstName()))
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// compareLastVisit orders missing aggregates below every real timestamp, so
// never-visited patients land last under the default descending sort.
func compareLastVisit(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compareTime(*a, *b)
	}
}
