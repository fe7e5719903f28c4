package repositories

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// TransitionWriter persists a complete state-machine transition atomically:
// the updated campaign, every touched account, the burn delta and the appended
// events commit together or not at all. No transition may be observed
// partially applied.
//
// Accounts and campaigns carry optimistic version tokens: the incoming value
// has Version already incremented, and the store must compare-and-set against
// Version-1, returning apperrors.ErrConflict on a miss. Unknown accounts with
// Version 1 are inserted.
type TransitionWriter interface {
	SaveTransition(ctx context.Context, change domain.StateChange) error
}

// LedgerRepository is the full store facade: all reads plus the atomic
// transition write. Both the pgsql and memory adapters implement it.
type LedgerRepository interface {
	AccountRepository
	CampaignRepository
	EventRepository
	BurnRepository
	TransitionWriter
}
