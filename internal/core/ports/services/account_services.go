package services

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccount retrieves an account by wallet address.
	GetAccount(ctx context.Context, address string) (*domain.Account, error)

	// GetAchievements evaluates achievement predicates for an account.
	GetAchievements(ctx context.Context, address string) ([]domain.Achievement, error)
}

// AccountWriterSvc defines write operations for account data.
type AccountWriterSvc interface {
	// CreditAccount records an external top-up, creating the account on first
	// use. The credit is appended to the event log like every balance move.
	CreditAccount(ctx context.Context, address string, amount domain.Amount) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
