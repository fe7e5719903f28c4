package services

import (
	"context"
	"sort"
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
)

// RankingService derives contributor leaderboards from the event log. It is a
// rebuildable projection: read-only, eventually consistent, and safe to
// recompute from scratch at any time against a log snapshot.
type RankingService struct {
	events portsrepo.EventReader
	now    func() time.Time
}

// NewRankingService creates a new RankingService.
func NewRankingService(events portsrepo.EventReader) *RankingService {
	return &RankingService{
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type contributorAggregate struct {
	net     domain.Amount
	burn    domain.Amount
	count   int64
	firstAt time.Time
}

// Leaderboard scans contribution events within the window and ranks
// contributors by score, ties broken by earliest first contribution inside
// the window, then address for full determinism.
func (s *RankingService) Leaderboard(ctx context.Context, window domain.RankingWindow, limit int) ([]domain.LeaderboardEntry, error) {
	events, err := s.events.ListEvents(ctx, portsrepo.EventFilter{
		Kinds: []domain.EventKind{domain.EventContribution},
		Since: window.Cutoff(s.now()),
	})
	if err != nil {
		return nil, err
	}

	aggregates := make(map[string]*contributorAggregate)
	for _, e := range events {
		agg, ok := aggregates[e.Account]
		if !ok {
			agg = &contributorAggregate{firstAt: e.Timestamp}
			aggregates[e.Account] = agg
		}
		agg.net = agg.net.Add(e.Net)
		agg.burn = agg.burn.Add(e.Burn)
		agg.count++
		if e.Timestamp.Before(agg.firstAt) {
			agg.firstAt = e.Timestamp
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(aggregates))
	for address, agg := range aggregates {
		entries = append(entries, domain.LeaderboardEntry{
			Address:             address,
			Score:               domain.RankScore(agg.net, agg.burn, agg.count),
			NetContributed:      agg.net,
			BurnAttributed:      agg.burn,
			Contributions:       agg.count,
			FirstContributionAt: agg.firstAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if cmp := entries[i].Score.Cmp(entries[j].Score); cmp != 0 {
			return cmp > 0
		}
		if !entries[i].FirstContributionAt.Equal(entries[j].FirstContributionAt) {
			return entries[i].FirstContributionAt.Before(entries[j].FirstContributionAt)
		}
		return entries[i].Address < entries[j].Address
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
