package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	"github.com/fundtires/ledger_backend/internal/dto"
)

type ContributionServiceTestSuite struct {
	suite.Suite
	fix      *ledgerFixture
	campaign *domain.Campaign
}

func (s *ContributionServiceTestSuite) SetupTest() {
	s.fix = newLedgerFixture()
	s.fix.credit(s.T(), creatorAddr, 100)
	s.fix.credit(s.T(), contributorAddr, 5000)

	campaign, err := s.fix.campaigns.CreateCampaign(context.Background(), dto.CreateCampaignRequest{
		Creator:          creatorAddr,
		Category:         "personal",
		Goal:             990,
		MilestoneTargets: []int64{990},
		DurationDays:     30,
	})
	s.Require().NoError(err)
	s.campaign = campaign
}

func (s *ContributionServiceTestSuite) TestContributeBurnsOnePercent() {
	event, err := s.fix.contribution.Contribute(context.Background(), s.campaign.CampaignID, contributorAddr, 1000)
	s.Require().NoError(err)

	s.Equal(domain.EventContribution, event.Kind)
	s.Equal(domain.Amount(1000), event.Gross)
	s.Equal(domain.Amount(10), event.Burn)
	s.Equal(domain.Amount(990), event.Net)
	s.Positive(event.Sequence)

	acc, err := s.fix.accounts.GetAccount(context.Background(), contributorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(4000), acc.Balance)
	s.Equal(domain.Amount(1000), acc.LifetimeContributed)
	s.Equal(domain.Amount(10), acc.LifetimeBurned)
	s.Equal(int64(1), acc.ContributionCount)
	s.Require().NotNil(acc.FirstContributionAt)
}

func (s *ContributionServiceTestSuite) TestContributeFundsMilestoneAtTarget() {
	_, err := s.fix.contribution.Contribute(context.Background(), s.campaign.CampaignID, contributorAddr, 1000)
	s.Require().NoError(err)

	campaign, err := s.fix.campaigns.GetCampaign(context.Background(), s.campaign.CampaignID)
	s.Require().NoError(err)
	s.Equal(domain.MilestoneFunded, campaign.Milestones[0].Status)
	s.Equal(domain.Amount(990), campaign.Milestones[0].Escrow)
	s.Equal(domain.Amount(990), campaign.TotalContributed)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsOverfundingWhole() {
	ctx := context.Background()

	// 600 gross nets 594, leaving 396 of capacity.
	_, err := s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 600)
	s.Require().NoError(err)

	// 500 gross nets 495, more than the remaining 396. The whole payment is
	// rejected, nothing is capped.
	_, err = s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 500)
	s.ErrorIs(err, apperrors.ErrCampaignOverfunded)

	balanceBefore, err := s.fix.accounts.GetAccount(ctx, contributorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(5000-600), balanceBefore.Balance, "rejected payment must not debit")

	// 400 gross nets 396 exactly and funds the milestone.
	_, err = s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 400)
	s.Require().NoError(err)

	campaign, err := s.fix.campaigns.GetCampaign(ctx, s.campaign.CampaignID)
	s.Require().NoError(err)
	s.Equal(domain.MilestoneFunded, campaign.Milestones[0].Status)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsNonPositiveAmount() {
	_, err := s.fix.contribution.Contribute(context.Background(), s.campaign.CampaignID, contributorAddr, 0)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.fix.contribution.Contribute(context.Background(), s.campaign.CampaignID, contributorAddr, -5)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsInsufficientBalance() {
	_, err := s.fix.contribution.Contribute(context.Background(), s.campaign.CampaignID, "0xbroke", 100)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsUnknownCampaign() {
	_, err := s.fix.contribution.Contribute(context.Background(), "no-such-campaign", contributorAddr, 100)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsFundedMilestone() {
	ctx := context.Background()
	_, err := s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 1000)
	s.Require().NoError(err)

	_, err = s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 100)
	s.ErrorIs(err, apperrors.ErrCampaignOverfunded)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsLockedMilestone() {
	ctx := context.Background()
	_, err := s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 1000)
	s.Require().NoError(err)

	// Top the creator up to cover the 990 deposit after the 25 creation fee.
	s.fix.credit(s.T(), creatorAddr, 1000)
	_, err = s.fix.campaigns.LockDeposit(ctx, s.campaign.CampaignID, 0, creatorAddr, 990)
	s.Require().NoError(err)

	_, err = s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 100)
	s.ErrorIs(err, apperrors.ErrCampaignNotAcceptingFunds)
}

func (s *ContributionServiceTestSuite) TestContributeRejectsCancelledCampaign() {
	ctx := context.Background()
	_, err := s.fix.campaigns.CancelCampaign(ctx, s.campaign.CampaignID, creatorAddr)
	s.Require().NoError(err)

	_, err = s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 100)
	s.ErrorIs(err, apperrors.ErrCampaignNotAcceptingFunds)
}

func (s *ContributionServiceTestSuite) TestFirstContributionTimestampSetOnce() {
	ctx := context.Background()
	_, err := s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 100)
	s.Require().NoError(err)

	acc, err := s.fix.accounts.GetAccount(ctx, contributorAddr)
	s.Require().NoError(err)
	s.Require().NotNil(acc.FirstContributionAt)
	first := *acc.FirstContributionAt

	time.Sleep(5 * time.Millisecond)
	_, err = s.fix.contribution.Contribute(ctx, s.campaign.CampaignID, contributorAddr, 100)
	s.Require().NoError(err)

	acc, err = s.fix.accounts.GetAccount(ctx, contributorAddr)
	s.Require().NoError(err)
	s.Equal(int64(2), acc.ContributionCount)
	s.Require().NotNil(acc.FirstContributionAt)
	s.True(acc.FirstContributionAt.Equal(first), "first contribution timestamp is immutable")
}

func TestContributionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContributionServiceTestSuite))
}
