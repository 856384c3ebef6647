package recommendation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recommendation is AI-generated care guidance for one patient. Rows are
// append-only: generated, listed, never edited.
type Recommendation struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	patientID uuid.UUID
	content   string
	model     string
	createdAt time.Time
}

func New(patientID uuid.UUID, content, model string) Recommendation {
	return Recommendation{
		patientID: patientID,
		content:   strings.TrimSpace(content),
		model:     model,
	}
}

func Hydrate(
	id uuid.UUID,
	ownerID uuid.UUID,
	patientID uuid.UUID,
	content string,
	model string,
	createdAt time.Time,
) Recommendation {
	return Recommendation{
		id:        id,
		ownerID:   ownerID,
		patientID: patientID,
		content:   strings.TrimSpace(content),
		model:     model,
		createdAt: createdAt,
	}
}

func (r Recommendation) ID() uuid.UUID        { return r.id }
func (r Recommendation) OwnerID() uuid.UUID   { return r.ownerID }
func (r Recommendation) PatientID() uuid.UUID { return r.patientID }
func (r Recommendation) Content() string      { return r.content }
func (r Recommendation) Model() string        { return r.model }
func (r Recommendation) CreatedAt() time.Time { return r.createdAt }

type GeneratedEvent struct {
	Result Recommendation
}
