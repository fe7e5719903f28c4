package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundtires/ledger_backend/internal/adapters/database/memory"
	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
)

var day = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func newAccountChange(address string, version int64, balance domain.Amount) domain.StateChange {
	return domain.StateChange{
		Accounts: []domain.Account{{Address: address, Balance: balance, Version: version}},
		Events: []domain.Event{{
			EventID:        address + "-v",
			Kind:           domain.EventAccountCredited,
			Account:        address,
			MilestoneIndex: -1,
			Net:            balance,
			Timestamp:      day,
		}},
	}
}

func TestSaveTransitionAssignsSequences(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	change := domain.StateChange{
		Events: []domain.Event{
			{EventID: "e1", Kind: domain.EventAccountCredited, MilestoneIndex: -1, Timestamp: day},
			{EventID: "e2", Kind: domain.EventAccountCredited, MilestoneIndex: -1, Timestamp: day},
		},
	}
	require.NoError(t, store.SaveTransition(ctx, change))
	assert.Equal(t, int64(1), change.Events[0].Sequence)
	assert.Equal(t, int64(2), change.Events[1].Sequence)

	events, err := store.ListEvents(ctx, portsrepo.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Sequence)
}

func TestSaveTransitionAccountVersioning(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SaveTransition(ctx, newAccountChange("0xa", 1, 100)))

	// Re-insert at version 1 conflicts.
	err := store.SaveTransition(ctx, newAccountChange("0xa", 1, 100))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Version must advance exactly by one.
	err = store.SaveTransition(ctx, newAccountChange("0xa", 3, 100))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, store.SaveTransition(ctx, newAccountChange("0xa", 2, 150)))
	acc, err := store.FindAccountByAddress(ctx, "0xa")
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(150), acc.Balance)
}

func TestSaveTransitionConflictLeavesStoreUntouched(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SaveTransition(ctx, newAccountChange("0xa", 1, 100)))

	// A change touching one good account and one stale account must apply
	// neither.
	change := domain.StateChange{
		Accounts: []domain.Account{
			{Address: "0xa", Balance: 999, Version: 2},
			{Address: "0xb", Balance: 10, Version: 5},
		},
		Events: []domain.Event{{EventID: "bad", Kind: domain.EventAccountCredited, MilestoneIndex: -1, Timestamp: day}},
	}
	err := store.SaveTransition(ctx, change)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	acc, err := store.FindAccountByAddress(ctx, "0xa")
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(100), acc.Balance)

	_, err = store.FindAccountByAddress(ctx, "0xb")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	events, err := store.ListEvents(ctx, portsrepo.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 1, "no event from the failed transition")
}

func TestFindCampaignReturnsSnapshot(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	campaign := &domain.Campaign{
		CampaignID: "c-1",
		Creator:    "0xa",
		Goal:       100,
		Status:     domain.CampaignActive,
		Milestones: []domain.Milestone{{Index: 0, Target: 100, RequiredDeposit: 100, Status: domain.MilestonePending}},
		Version:    1,
	}
	require.NoError(t, store.SaveTransition(ctx, domain.StateChange{Campaign: campaign}))

	got, err := store.FindCampaignByID(ctx, "c-1")
	require.NoError(t, err)
	got.Milestones[0].Escrow = 999

	again, err := store.FindCampaignByID(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, again.Milestones[0].Escrow.IsZero(), "reads must not leak shared milestone storage")
}

func TestListEventsFiltering(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	idx := 0

	changes := []domain.StateChange{
		{Events: []domain.Event{{EventID: "e1", Kind: domain.EventContribution, CampaignID: "c-1", Account: "0xa", MilestoneIndex: 0, Timestamp: day}}},
		{Events: []domain.Event{{EventID: "e2", Kind: domain.EventContribution, CampaignID: "c-1", Account: "0xb", MilestoneIndex: 1, Timestamp: day.Add(time.Hour)}}},
		{Events: []domain.Event{{EventID: "e3", Kind: domain.EventDepositLocked, CampaignID: "c-2", Account: "0xa", MilestoneIndex: 0, Timestamp: day.Add(2 * time.Hour)}}},
	}
	for _, c := range changes {
		require.NoError(t, store.SaveTransition(ctx, c))
	}

	events, err := store.ListEvents(ctx, portsrepo.EventFilter{CampaignID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = store.ListEvents(ctx, portsrepo.EventFilter{Account: "0xa"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = store.ListEvents(ctx, portsrepo.EventFilter{Kinds: []domain.EventKind{domain.EventDepositLocked}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e3", events[0].EventID)

	events, err = store.ListEvents(ctx, portsrepo.EventFilter{CampaignID: "c-1", MilestoneIndex: &idx})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].EventID)

	events, err = store.ListEvents(ctx, portsrepo.EventFilter{Since: day.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, events, 2, "Since is inclusive")

	events, err = store.ListEvents(ctx, portsrepo.EventFilter{AfterSequence: 2})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e3", events[0].EventID)
}

func TestBurnLedgerAccumulation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	ledger, err := store.GetBurnLedger(ctx)
	require.NoError(t, err)
	assert.True(t, ledger.TotalBurned.IsZero(), "empty store has a zero-valued ledger")

	apply := func(delta domain.BurnDelta, ts time.Time) {
		require.NoError(t, store.SaveTransition(ctx, domain.StateChange{
			Burn:   &delta,
			Events: []domain.Event{{EventID: ts.String(), Kind: domain.EventContribution, MilestoneIndex: -1, Timestamp: ts}},
		}))
	}
	apply(domain.BurnDelta{Contribution: 10, ContributionsMade: 1, Day: day}, day.Add(time.Hour))
	apply(domain.BurnDelta{Creation: 25, CampaignsCreated: 1, Day: day}, day.Add(2*time.Hour))
	nextDay := day.AddDate(0, 0, 1)
	apply(domain.BurnDelta{Forfeit: 100, Day: nextDay}, nextDay.Add(time.Hour))

	ledger, err = store.GetBurnLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(135), ledger.TotalBurned)

	history, err := store.ListBurnHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, nextDay, history[0].Date, "newest bucket first")
	assert.Equal(t, domain.Amount(100), history[0].ForfeitBurn)
	assert.Equal(t, domain.Amount(35), history[1].TotalBurn)
	assert.Equal(t, int64(1), history[1].CampaignsCreated)
	assert.Equal(t, int64(1), history[1].ContributionsMade)
}
