package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	"github.com/fundtires/ledger_backend/internal/utils/accounting"
	"github.com/fundtires/ledger_backend/internal/utils/locking"
)

// ContributionService validates and applies contributor payments against a
// campaign's current milestone.
type ContributionService struct {
	baseService
}

// NewContributionService creates a new ContributionService.
func NewContributionService(repo portsrepo.LedgerRepository, locks *locking.KeyedLock, lockTimeout time.Duration, logger *slog.Logger) *ContributionService {
	return &ContributionService{baseService: newBaseService(repo, locks, lockTimeout, logger)}
}

// Contribute debits the contributor immediately, applies the 1% contribution
// burn, and credits the net amount to the current milestone's escrow. Reaching
// the target funds the milestone within the same atomic write.
//
// A net amount exceeding the milestone's remaining capacity is rejected whole
// with ErrCampaignOverfunded; nothing is capped or rolled into later
// milestones.
func (s *ContributionService) Contribute(ctx context.Context, campaignID string, contributor string, gross domain.Amount) (*domain.Event, error) {
	if !gross.IsPositive() {
		return nil, fmt.Errorf("%w: contribution must be positive", apperrors.ErrValidation)
	}

	release, err := s.lockCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	defer release()

	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != domain.CampaignActive {
		return nil, fmt.Errorf("%w: campaign is %s", apperrors.ErrCampaignNotAcceptingFunds, campaign.Status)
	}
	milestone, err := campaign.Current()
	if err != nil {
		return nil, err
	}
	switch milestone.Status {
	case domain.MilestonePending:
		// accepting funds
	case domain.MilestoneFunded:
		return nil, fmt.Errorf("%w: milestone %d already funded",
			apperrors.ErrCampaignOverfunded, milestone.Index)
	default:
		// DepositLocked or AwaitingVerification: the milestone's fate is
		// undecided, contributions are not accepted.
		return nil, fmt.Errorf("%w: milestone %d is %s",
			apperrors.ErrCampaignNotAcceptingFunds, milestone.Index, milestone.Status)
	}

	burn, net, err := accounting.ApplyBurn(gross, accounting.ContributionBurn)
	if err != nil {
		return nil, err
	}
	if capacity := milestone.RemainingCapacity(); net > capacity {
		return nil, fmt.Errorf("%w: net %d exceeds remaining capacity %d of milestone %d",
			apperrors.ErrCampaignOverfunded, net, capacity, milestone.Index)
	}

	contributorAcc, err := s.accountOrNew(ctx, contributor)
	if err != nil {
		return nil, err
	}
	if contributorAcc.Balance < gross {
		return nil, fmt.Errorf("%w: contribution %d exceeds balance %d",
			apperrors.ErrInsufficientFunds, gross, contributorAcc.Balance)
	}

	now := s.now()
	frozen := campaign.Clone()
	contributorAcc.Balance, err = contributorAcc.Balance.Sub(gross)
	if err != nil {
		return nil, err
	}
	contributorAcc.LifetimeContributed = contributorAcc.LifetimeContributed.Add(gross)
	contributorAcc.LifetimeBurned = contributorAcc.LifetimeBurned.Add(burn)
	contributorAcc.ContributionCount++
	if contributorAcc.FirstContributionAt == nil {
		t := now
		contributorAcc.FirstContributionAt = &t
	}
	contributorAcc.LastUpdatedAt = now
	contributorAcc.Version++

	milestone.Escrow = milestone.Escrow.Add(net)
	campaign.TotalContributed = campaign.TotalContributed.Add(net)
	if milestone.Escrow == milestone.Target {
		milestone.Status = domain.MilestoneFunded
	}
	campaign.LastUpdatedAt = now
	campaign.Version++

	change := domain.StateChange{
		Campaign: campaign,
		Accounts: []domain.Account{contributorAcc},
		Burn: &domain.BurnDelta{
			Contribution:      burn,
			ContributionsMade: 1,
			Day:               domain.BucketDay(now),
		},
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventContribution,
			CampaignID:     campaignID,
			Account:        contributor,
			MilestoneIndex: milestone.Index,
			Gross:          gross,
			Burn:           burn,
			Net:            net,
			Timestamp:      now,
		}},
	}
	if err := s.saveGuarded(ctx, frozen, change); err != nil {
		return nil, err
	}
	s.logger.Info("contribution applied",
		slog.String("campaign_id", campaignID),
		slog.String("contributor", contributor),
		slog.Int64("gross", int64(gross)),
		slog.Int64("burned", int64(burn)),
		slog.String("milestone_status", string(milestone.Status)))
	return &change.Events[0], nil
}
