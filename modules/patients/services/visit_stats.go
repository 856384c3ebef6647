package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
)

// VisitStatsProvider computes per-patient visit aggregates. The store cannot
// express aggregate joins, so implementations batch-fetch child rows and
// reduce them in memory.
type VisitStatsProvider interface {
	ComputeStats(ctx context.Context, patientIDs []uuid.UUID) (map[uuid.UUID]visit.Stats, error)
}

// ComputeStats issues one in-set read for all requested patients and folds
// the rows into count plus latest timestamp. Patients without visits are
// absent from the result; callers treat a missing key as zero visits. An
// empty id set returns an empty map without touching the store.
//
// The full matching child set is held in memory during the reduce. That is
// fine at per-owner scale; it is the first thing to revisit if child
// collections stop being bounded.
func (s *VisitService) ComputeStats(ctx context.Context, patientIDs []uuid.UUID) (map[uuid.UUID]visit.Stats, error) {
	out := make(map[uuid.UUID]visit.Stats, len(patientIDs))
	if len(patientIDs) == 0 {
		return out, nil
	}

	visits, err := s.repo.GetByPatients(ctx, patientIDs)
	if err != nil {
		return nil, err
	}

	for _, v := range visits {
		stats := out[v.PatientID()]
		stats.VisitCount++
		visitedAt := v.VisitedAt()
		if stats.LastVisitAt == nil || visitedAt.After(*stats.LastVisitAt) {
			stats.LastVisitAt = &visitedAt
		}
		out[v.PatientID()] = stats
	}
	return out, nil
}
