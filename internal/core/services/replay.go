package services

import (
	"context"
	"fmt"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	"github.com/fundtires/ledger_backend/internal/utils/accounting"
)

// ReplayState is the full set of aggregates rebuilt from an event log.
type ReplayState struct {
	Accounts    map[string]domain.Account
	Campaigns   map[string]*domain.Campaign
	TotalBurned domain.Amount
}

// Replayer folds the append-only log from empty state into account, campaign
// and burn aggregates. Because every derived allocation (burn splits,
// success-fee split, refund shares) is a pure function of the events, a replay
// reproduces the live aggregates exactly. The log is the sole source of truth
// and the cached aggregate fields are projections of it.
type Replayer struct {
	events portsrepo.EventReader
}

// NewReplayer creates a Replayer over the given log.
func NewReplayer(events portsrepo.EventReader) *Replayer {
	return &Replayer{events: events}
}

// Rebuild replays the entire log in sequence order.
func (r *Replayer) Rebuild(ctx context.Context) (*ReplayState, error) {
	events, err := r.events.ListEvents(ctx, portsrepo.EventFilter{})
	if err != nil {
		return nil, err
	}
	state := &ReplayState{
		Accounts:  make(map[string]domain.Account),
		Campaigns: make(map[string]*domain.Campaign),
	}
	// Contribution history per campaign and milestone, in sequence order,
	// needed to recompute refund allocations.
	type milestoneKey struct {
		campaignID string
		index      int
	}
	contributions := make(map[milestoneKey][]domain.Event)

	for _, e := range events {
		switch e.Kind {
		case domain.EventAccountCredited:
			acc := r.account(state, e.Account, e)
			acc.Balance = acc.Balance.Add(e.Net)
			r.store(state, acc, e)

		case domain.EventCampaignCreated:
			if e.Definition == nil {
				return nil, fmt.Errorf("campaign created event %s has no definition", e.EventID)
			}
			acc := r.account(state, e.Account, e)
			var err error
			acc.Balance, err = acc.Balance.Sub(e.Gross)
			if err != nil {
				return nil, fmt.Errorf("replaying event %d: %w", e.Sequence, err)
			}
			acc.LifetimeBurned = acc.LifetimeBurned.Add(e.Burn)
			r.store(state, acc, e)
			state.TotalBurned = state.TotalBurned.Add(e.Burn)

			milestones := make([]domain.Milestone, len(e.Definition.MilestoneTargets))
			for i, t := range e.Definition.MilestoneTargets {
				milestones[i] = domain.Milestone{
					Index:           i,
					Target:          t,
					RequiredDeposit: t,
					Status:          domain.MilestonePending,
				}
			}
			state.Campaigns[e.CampaignID] = &domain.Campaign{
				CampaignID: e.CampaignID,
				Creator:    e.Account,
				Category:   e.Definition.Category,
				Goal:       e.Definition.Goal,
				StartsAt:   e.Definition.StartsAt,
				EndsAt:     e.Definition.EndsAt,
				Milestones: milestones,
				Status:     domain.CampaignActive,
				AuditFields: domain.AuditFields{
					CreatedAt:     e.Timestamp,
					LastUpdatedAt: e.Timestamp,
				},
			}

		case domain.EventContribution:
			campaign, milestone, err := r.milestone(state, e)
			if err != nil {
				return nil, err
			}
			acc := r.account(state, e.Account, e)
			acc.Balance, err = acc.Balance.Sub(e.Gross)
			if err != nil {
				return nil, fmt.Errorf("replaying event %d: %w", e.Sequence, err)
			}
			acc.LifetimeContributed = acc.LifetimeContributed.Add(e.Gross)
			acc.LifetimeBurned = acc.LifetimeBurned.Add(e.Burn)
			acc.ContributionCount++
			if acc.FirstContributionAt == nil {
				t := e.Timestamp
				acc.FirstContributionAt = &t
			}
			r.store(state, acc, e)

			milestone.Escrow = milestone.Escrow.Add(e.Net)
			campaign.TotalContributed = campaign.TotalContributed.Add(e.Net)
			if milestone.Escrow == milestone.Target {
				milestone.Status = domain.MilestoneFunded
			}
			campaign.LastUpdatedAt = e.Timestamp
			state.TotalBurned = state.TotalBurned.Add(e.Burn)
			key := milestoneKey{e.CampaignID, e.MilestoneIndex}
			contributions[key] = append(contributions[key], e)

		case domain.EventDepositLocked:
			campaign, milestone, err := r.milestone(state, e)
			if err != nil {
				return nil, err
			}
			acc := r.account(state, e.Account, e)
			acc.Balance, err = acc.Balance.Sub(e.Gross)
			if err != nil {
				return nil, fmt.Errorf("replaying event %d: %w", e.Sequence, err)
			}
			r.store(state, acc, e)
			milestone.Deposit = e.Gross
			milestone.Status = domain.MilestoneDepositLocked
			campaign.TotalDeposited = campaign.TotalDeposited.Add(e.Gross)
			campaign.LastUpdatedAt = e.Timestamp

		case domain.EventVerificationRequested:
			campaign, milestone, err := r.milestone(state, e)
			if err != nil {
				return nil, err
			}
			milestone.Status = domain.MilestoneAwaitingVerification
			milestone.ProofRef = e.ProofRef
			campaign.LastUpdatedAt = e.Timestamp

		case domain.EventMilestoneReleased:
			campaign, milestone, err := r.milestone(state, e)
			if err != nil {
				return nil, err
			}
			split := accounting.SplitSuccessFee(milestone.Target)
			creator := r.account(state, campaign.Creator, e)
			creator.Balance = creator.Balance.Add(split.Creator).Add(milestone.Deposit)
			creator.LifetimeBurned = creator.LifetimeBurned.Add(split.Burn)
			r.store(state, creator, e)
			if split.Platform.IsPositive() {
				platform := r.account(state, domain.PlatformFeeAddress, e)
				platform.Balance = platform.Balance.Add(split.Platform)
				r.store(state, platform, e)
			}
			outcome := true
			milestone.Status = domain.MilestoneReleased
			milestone.Verified = &outcome
			campaign.TotalReleased = campaign.TotalReleased.Add(milestone.Target)
			campaign.DepositsReturned = campaign.DepositsReturned.Add(milestone.Deposit)
			campaign.TotalBurned = campaign.TotalBurned.Add(split.Burn)
			if campaign.CurrentMilestone == len(campaign.Milestones)-1 {
				campaign.Status = domain.CampaignCompleted
			} else {
				campaign.CurrentMilestone++
			}
			campaign.LastUpdatedAt = e.Timestamp
			state.TotalBurned = state.TotalBurned.Add(split.Burn)

		case domain.EventMilestoneRefunded:
			campaign, milestone, err := r.milestone(state, e)
			if err != nil {
				return nil, err
			}
			key := milestoneKey{e.CampaignID, e.MilestoneIndex}
			history := contributions[key]
			nets := make([]domain.Amount, len(history))
			for i, c := range history {
				nets[i] = c.Net
			}
			pool := milestone.Escrow
			shares, residual := accounting.AllocateRefunds(pool, nets)
			for i, c := range history {
				if shares[i].IsZero() {
					continue
				}
				acc := r.account(state, c.Account, e)
				acc.Balance = acc.Balance.Add(shares[i])
				r.store(state, acc, e)
			}
			if residual.IsPositive() {
				holding := r.account(state, domain.PlatformHoldingAddress, e)
				holding.Balance = holding.Balance.Add(residual)
				r.store(state, holding, e)
			}
			forfeit := milestone.Deposit
			creator := r.account(state, campaign.Creator, e)
			creator.LifetimeBurned = creator.LifetimeBurned.Add(forfeit)
			r.store(state, creator, e)

			outcome := false
			milestone.Status = domain.MilestoneRefunded
			milestone.Verified = &outcome
			campaign.TotalRefunded = campaign.TotalRefunded.Add(pool)
			campaign.TotalForfeited = campaign.TotalForfeited.Add(forfeit)
			campaign.TotalBurned = campaign.TotalBurned.Add(forfeit)
			campaign.Status = domain.CampaignFailed
			campaign.LastUpdatedAt = e.Timestamp
			state.TotalBurned = state.TotalBurned.Add(forfeit)

		case domain.EventCampaignCancelled:
			campaign, ok := state.Campaigns[e.CampaignID]
			if !ok {
				return nil, fmt.Errorf("cancel event %d references unknown campaign %s", e.Sequence, e.CampaignID)
			}
			campaign.Status = domain.CampaignCancelled
			campaign.LastUpdatedAt = e.Timestamp

		case domain.EventCampaignCorrupted:
			campaign, ok := state.Campaigns[e.CampaignID]
			if !ok {
				return nil, fmt.Errorf("corruption event %d references unknown campaign %s", e.Sequence, e.CampaignID)
			}
			campaign.Status = domain.CampaignCorrupted
			campaign.LastUpdatedAt = e.Timestamp

		default:
			return nil, fmt.Errorf("unknown event kind %q at sequence %d", e.Kind, e.Sequence)
		}
	}
	return state, nil
}

func (r *Replayer) account(state *ReplayState, address string, e domain.Event) domain.Account {
	acc, ok := state.Accounts[address]
	if !ok {
		acc = domain.NewAccount(address, e.Timestamp)
	}
	return acc
}

func (r *Replayer) store(state *ReplayState, acc domain.Account, e domain.Event) {
	acc.LastUpdatedAt = e.Timestamp
	state.Accounts[acc.Address] = acc
}

func (r *Replayer) milestone(state *ReplayState, e domain.Event) (*domain.Campaign, *domain.Milestone, error) {
	campaign, ok := state.Campaigns[e.CampaignID]
	if !ok {
		return nil, nil, fmt.Errorf("event %d references unknown campaign %s", e.Sequence, e.CampaignID)
	}
	milestone, err := campaign.MilestoneAt(e.MilestoneIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("event %d: %w", e.Sequence, err)
	}
	return campaign, milestone, nil
}
