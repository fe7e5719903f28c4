package repositories

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByAddress retrieves an account by its wallet address.
	// Returns apperrors.ErrNotFound when the address is unknown.
	FindAccountByAddress(ctx context.Context, address string) (*domain.Account, error)

	// ListAccounts retrieves accounts ordered by address, paginated.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountRepository combines account read operations. Account writes only
// happen through TransitionWriter.SaveTransition so every balance move is tied
// to an appended event.
type AccountRepository interface {
	AccountReader
}
