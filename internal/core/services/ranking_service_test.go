package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundtires/ledger_backend/internal/adapters/database/memory"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	"github.com/fundtires/ledger_backend/internal/core/services"
)

func seedContribution(t *testing.T, store *memory.Store, id, account string, net, burn domain.Amount, ts time.Time) {
	t.Helper()
	change := domain.StateChange{
		Events: []domain.Event{{
			EventID:        id,
			Kind:           domain.EventContribution,
			CampaignID:     "c-1",
			Account:        account,
			MilestoneIndex: 0,
			Gross:          net.Add(burn),
			Burn:           burn,
			Net:            net,
			Timestamp:      ts,
		}},
	}
	require.NoError(t, store.SaveTransition(context.Background(), change))
}

func TestLeaderboardAggregatesAndRanks(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()

	seedContribution(t, store, "a1", "0xalice", 990, 10, now.Add(-2*time.Hour))
	seedContribution(t, store, "a2", "0xalice", 495, 5, now.Add(-time.Hour))
	seedContribution(t, store, "b1", "0xbob", 99, 1, now.Add(-3*time.Hour))

	entries, err := services.NewRankingService(store).Leaderboard(context.Background(), domain.WindowAll, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	alice := entries[0]
	assert.Equal(t, 1, alice.Rank)
	assert.Equal(t, "0xalice", alice.Address)
	assert.Equal(t, domain.Amount(1485), alice.NetContributed)
	assert.Equal(t, domain.Amount(15), alice.BurnAttributed)
	assert.Equal(t, int64(2), alice.Contributions)
	// 1485 net + 0.20*15 burn + 0.10*2 contributions
	assert.Equal(t, "1488.2", alice.Score.String())

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "0xbob", entries[1].Address)
}

func TestLeaderboardTieBreaks(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()

	// Identical aggregates, bob contributed first.
	seedContribution(t, store, "a1", "0xalice", 100, 1, now.Add(-time.Hour))
	seedContribution(t, store, "b1", "0xbob", 100, 1, now.Add(-2*time.Hour))
	// Same score and timestamp as alice: address decides.
	seedContribution(t, store, "z1", "0xzed", 100, 1, now.Add(-time.Hour))

	entries, err := services.NewRankingService(store).Leaderboard(context.Background(), domain.WindowAll, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "0xbob", entries[0].Address, "earlier first contribution wins the tie")
	assert.Equal(t, "0xalice", entries[1].Address)
	assert.Equal(t, "0xzed", entries[2].Address)
}

func TestLeaderboardAppliesLimit(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()

	seedContribution(t, store, "a1", "0xalice", 300, 3, now)
	seedContribution(t, store, "b1", "0xbob", 200, 2, now)
	seedContribution(t, store, "c1", "0xcarol", 100, 1, now)

	entries, err := services.NewRankingService(store).Leaderboard(context.Background(), domain.WindowAll, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0xalice", entries[0].Address)
	assert.Equal(t, "0xbob", entries[1].Address)
}

func TestLeaderboardWindowExcludesOldContributions(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()

	seedContribution(t, store, "a1", "0xalice", 1000, 10, now.Add(-48*time.Hour))
	seedContribution(t, store, "b1", "0xbob", 100, 1, now.Add(-time.Hour))

	entries, err := services.NewRankingService(store).Leaderboard(context.Background(), domain.WindowDay, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0xbob", entries[0].Address)

	entries, err = services.NewRankingService(store).Leaderboard(context.Background(), domain.WindowWeek, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "the wider window readmits the older contribution")
}
