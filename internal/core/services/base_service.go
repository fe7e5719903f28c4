package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	"github.com/fundtires/ledger_backend/internal/metrics"
	"github.com/fundtires/ledger_backend/internal/utils/locking"
	"github.com/google/uuid"
)

func newEventID() string {
	return uuid.NewString()
}

// DefaultLockTimeout bounds the wait for a campaign's lock before the caller
// gets ErrLockTimeout instead of blocking.
const DefaultLockTimeout = 3 * time.Second

// baseService carries the dependencies every ledger service shares: the
// store, the per-campaign lock table, a logger and an injectable clock.
type baseService struct {
	repo        portsrepo.LedgerRepository
	locks       *locking.KeyedLock
	lockTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func newBaseService(repo portsrepo.LedgerRepository, locks *locking.KeyedLock, lockTimeout time.Duration, logger *slog.Logger) baseService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return baseService{
		repo:        repo,
		locks:       locks,
		lockTimeout: lockTimeout,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// lockCampaign serializes all transitions for one campaign ID.
func (s *baseService) lockCampaign(ctx context.Context, campaignID string) (func(), error) {
	return s.locks.Acquire(ctx, campaignID, s.lockTimeout)
}

// accountOrNew loads an account, or initializes a fresh zero-balance one when
// the address has never been seen. Accounts are created on first use.
func (s *baseService) accountOrNew(ctx context.Context, address string) (domain.Account, error) {
	acc, err := s.repo.FindAccountByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewAccount(address, s.now()), nil
		}
		return domain.Account{}, fmt.Errorf("failed to load account %s: %w", address, err)
	}
	return *acc, nil
}

// saveGuarded enforces the conservation invariant before persisting a
// transition. On a violation the campaign is frozen as Corrupted with its own
// lifecycle event; the broken transition itself is discarded, never patched.
func (s *baseService) saveGuarded(ctx context.Context, frozen domain.Campaign, change domain.StateChange) error {
	if change.Campaign != nil {
		if consErr := change.Campaign.CheckConservation(); consErr != nil {
			s.logger.Error("conservation invariant violated, freezing campaign",
				slog.String("campaign_id", change.Campaign.CampaignID),
				slog.String("error", consErr.Error()))
			metrics.ConservationViolations.Inc()
			now := s.now()
			frozen.Status = domain.CampaignCorrupted
			frozen.LastUpdatedAt = now
			frozen.Version++
			freeze := domain.StateChange{
				Campaign: &frozen,
				Events: []domain.Event{{
					EventID:        newEventID(),
					Kind:           domain.EventCampaignCorrupted,
					CampaignID:     frozen.CampaignID,
					MilestoneIndex: frozen.CurrentMilestone,
					Timestamp:      now,
				}},
			}
			if saveErr := s.repo.SaveTransition(ctx, freeze); saveErr != nil {
				return fmt.Errorf("failed to freeze corrupted campaign: %w", saveErr)
			}
			observeTransition(freeze)
			return consErr
		}
	}
	if err := s.repo.SaveTransition(ctx, change); err != nil {
		return err
	}
	observeTransition(change)
	return nil
}

// observeTransition updates the Prometheus counters for a committed change.
func observeTransition(change domain.StateChange) {
	for _, e := range change.Events {
		metrics.TransitionsTotal.WithLabelValues(string(e.Kind)).Inc()
		if e.Kind == domain.EventContribution {
			metrics.ContributionsTotal.Inc()
		}
	}
	if change.Burn != nil {
		if change.Burn.Contribution.IsPositive() {
			metrics.BurnedUnits.WithLabelValues("contribution").Add(float64(change.Burn.Contribution))
		}
		if change.Burn.Creation.IsPositive() {
			metrics.BurnedUnits.WithLabelValues("creation").Add(float64(change.Burn.Creation))
		}
		if change.Burn.Success.IsPositive() {
			metrics.BurnedUnits.WithLabelValues("success").Add(float64(change.Burn.Success))
		}
		if change.Burn.Forfeit.IsPositive() {
			metrics.BurnedUnits.WithLabelValues("forfeit").Add(float64(change.Burn.Forfeit))
		}
	}
}

// mergeAccounts deduplicates updated accounts by address, keeping the last
// write for each. A transition that both refunds and debits the same address
// must fold the moves into one account value before saving.
func mergeAccounts(accounts []domain.Account) []domain.Account {
	byAddr := make(map[string]int, len(accounts))
	out := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if i, ok := byAddr[acc.Address]; ok {
			out[i] = acc
			continue
		}
		byAddr[acc.Address] = len(out)
		out = append(out, acc)
	}
	return out
}
