package repositories

import (
	"context"
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// EventFilter narrows event-log reads. Zero values mean "no constraint".
type EventFilter struct {
	CampaignID     string
	Account        string
	Kinds          []domain.EventKind
	MilestoneIndex *int
	Since          time.Time // inclusive lower bound on event timestamp
	AfterSequence  int64     // exclusive lower bound on sequence
}

// EventReader defines read operations over the append-only ledger log.
// Implementations must return a consistent snapshot: results are safe to
// iterate while writers keep appending, and mutating a returned slice never
// affects the store.
type EventReader interface {
	// ListEvents returns matching events in ascending sequence order.
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error)
}

// EventRepository combines event-log read operations. Appends only happen
// through TransitionWriter.SaveTransition.
type EventRepository interface {
	EventReader
}
