package repositories

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// BurnReader defines read operations for burn accounting.
type BurnReader interface {
	// GetBurnLedger retrieves the singleton global burn counter. A store with
	// no burns yet returns a zero-valued ledger, not ErrNotFound.
	GetBurnLedger(ctx context.Context) (*domain.BurnLedger, error)

	// ListBurnHistory retrieves the most recent daily buckets, newest first.
	ListBurnHistory(ctx context.Context, days int) ([]domain.BurnBucket, error)
}

// BurnRepository combines burn-ledger read operations. The counter is only
// ever incremented through TransitionWriter.SaveTransition.
type BurnRepository interface {
	BurnReader
}
