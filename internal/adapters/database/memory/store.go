// Package memory provides an in-process LedgerRepository used by tests and
// the development server. It honors the same atomicity and versioning
// contract as the pgsql adapter.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
)

// Store is a mutex-guarded map-backed ledger store.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	campaigns map[string]domain.Campaign
	events    []domain.Event
	burn      domain.BurnLedger
	buckets   map[time.Time]domain.BurnBucket
	sequence  int64
}

var _ portsrepo.LedgerRepository = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		campaigns: make(map[string]domain.Campaign),
		buckets:   make(map[time.Time]domain.BurnBucket),
	}
}

// FindAccountByAddress retrieves an account by its wallet address.
func (s *Store) FindAccountByAddress(ctx context.Context, address string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[address]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, address)
	}
	out := acc
	return &out, nil
}

// ListAccounts retrieves accounts ordered by address, paginated.
func (s *Store) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addresses := make([]string, 0, len(s.accounts))
	for a := range s.accounts {
		addresses = append(addresses, a)
	}
	sort.Strings(addresses)
	if offset >= len(addresses) {
		return []domain.Account{}, nil
	}
	addresses = addresses[offset:]
	if limit > 0 && len(addresses) > limit {
		addresses = addresses[:limit]
	}
	out := make([]domain.Account, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, s.accounts[a])
	}
	return out, nil
}

// FindCampaignByID retrieves a campaign with its embedded milestones.
func (s *Store) FindCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, fmt.Errorf("%w: campaign %s", apperrors.ErrNotFound, campaignID)
	}
	out := c.Clone()
	return &out, nil
}

// ListCampaigns retrieves campaigns ordered by creation time, newest first.
func (s *Store) ListCampaigns(ctx context.Context, limit int, offset int) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CampaignID < out[j].CampaignID
	})
	if offset >= len(out) {
		return []domain.Campaign{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListEvents returns matching events in ascending sequence order.
func (s *Store) ListEvents(ctx context.Context, filter portsrepo.EventFilter) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if !matches(e, filter) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func matches(e domain.Event, f portsrepo.EventFilter) bool {
	if f.CampaignID != "" && e.CampaignID != f.CampaignID {
		return false
	}
	if f.Account != "" && e.Account != f.Account {
		return false
	}
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if e.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MilestoneIndex != nil && e.MilestoneIndex != *f.MilestoneIndex {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if f.AfterSequence > 0 && e.Sequence <= f.AfterSequence {
		return false
	}
	return true
}

// GetBurnLedger retrieves the singleton global burn counter.
func (s *Store) GetBurnLedger(ctx context.Context) (*domain.BurnLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.burn
	return &out, nil
}

// ListBurnHistory retrieves the most recent daily buckets, newest first.
func (s *Store) ListBurnHistory(ctx context.Context, days int) ([]domain.BurnBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BurnBucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if days > 0 && len(out) > days {
		out = out[:days]
	}
	return out, nil
}

// SaveTransition applies a state-machine transition atomically. Version
// checks run against every touched row before anything is written, so a
// conflict leaves the store untouched.
func (s *Store) SaveTransition(ctx context.Context, change domain.StateChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if change.Campaign != nil {
		existing, ok := s.campaigns[change.Campaign.CampaignID]
		if change.Campaign.Version == 1 {
			if ok {
				return fmt.Errorf("%w: campaign %s already exists",
					apperrors.ErrConflict, change.Campaign.CampaignID)
			}
		} else if !ok || existing.Version != change.Campaign.Version-1 {
			return fmt.Errorf("%w: campaign %s version mismatch",
				apperrors.ErrConflict, change.Campaign.CampaignID)
		}
	}
	for _, acc := range change.Accounts {
		existing, ok := s.accounts[acc.Address]
		if acc.Version == 1 {
			if ok {
				return fmt.Errorf("%w: account %s already exists",
					apperrors.ErrConflict, acc.Address)
			}
		} else if !ok || existing.Version != acc.Version-1 {
			return fmt.Errorf("%w: account %s version mismatch",
				apperrors.ErrConflict, acc.Address)
		}
	}

	if change.Campaign != nil {
		s.campaigns[change.Campaign.CampaignID] = change.Campaign.Clone()
	}
	for _, acc := range change.Accounts {
		s.accounts[acc.Address] = acc
	}
	if change.Burn != nil {
		s.burn.TotalBurned = s.burn.TotalBurned.Add(change.Burn.Total())
		if len(change.Events) > 0 {
			s.burn.LastUpdatedAt = change.Events[len(change.Events)-1].Timestamp
		}
		s.burn.Version++
		bucket := s.buckets[change.Burn.Day]
		bucket.Date = change.Burn.Day
		bucket.Apply(*change.Burn)
		s.buckets[change.Burn.Day] = bucket
	}
	for i := range change.Events {
		s.sequence++
		change.Events[i].Sequence = s.sequence
		s.events = append(s.events, change.Events[i])
	}
	return nil
}
