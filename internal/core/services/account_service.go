package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	"github.com/fundtires/ledger_backend/internal/utils/locking"
)

// AccountService provides account reads and external top-ups.
type AccountService struct {
	baseService
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo portsrepo.LedgerRepository, locks *locking.KeyedLock, lockTimeout time.Duration, logger *slog.Logger) *AccountService {
	return &AccountService{baseService: newBaseService(repo, locks, lockTimeout, logger)}
}

// GetAccount retrieves an account by wallet address.
func (s *AccountService) GetAccount(ctx context.Context, address string) (*domain.Account, error) {
	return s.repo.FindAccountByAddress(ctx, address)
}

// GetAchievements evaluates achievement predicates against the account's
// lifetime aggregates. Nothing is stored; changing a threshold never requires
// a backfill.
func (s *AccountService) GetAchievements(ctx context.Context, address string) ([]domain.Achievement, error) {
	acc, err := s.repo.FindAccountByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	return domain.AchievementsFor(*acc), nil
}

// CreditAccount records an external top-up, creating the account on first
// use. The credit is appended to the event log like every other balance move.
func (s *AccountService) CreditAccount(ctx context.Context, address string, amount domain.Amount) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: credit must be positive", apperrors.ErrValidation)
	}
	acc, err := s.accountOrNew(ctx, address)
	if err != nil {
		return nil, err
	}

	now := s.now()
	acc.Balance = acc.Balance.Add(amount)
	acc.LastUpdatedAt = now
	acc.Version++

	change := domain.StateChange{
		Accounts: []domain.Account{acc},
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventAccountCredited,
			Account:        address,
			MilestoneIndex: -1,
			Net:            amount,
			Timestamp:      now,
		}},
	}
	if err := s.repo.SaveTransition(ctx, change); err != nil {
		return nil, err
	}
	observeTransition(change)
	s.logger.Info("account credited",
		slog.String("address", address),
		slog.Int64("amount", int64(amount)))
	return &acc, nil
}
