package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/fundtires/ledger_backend/internal/adapters/database/memory"
	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	"github.com/fundtires/ledger_backend/internal/core/services"
	"github.com/fundtires/ledger_backend/internal/dto"
	"github.com/fundtires/ledger_backend/internal/utils/locking"
)

const (
	creatorAddr     = "0xcreator"
	contributorAddr = "0xcontributor"
)

// ledgerFixture wires every service over one shared in-memory store, the way
// the application composes them.
type ledgerFixture struct {
	store        *memory.Store
	accounts     *services.AccountService
	campaigns    *services.CampaignService
	contribution *services.ContributionService
}

func newLedgerFixture() *ledgerFixture {
	store := memory.NewStore()
	locks := locking.NewKeyedLock()
	return &ledgerFixture{
		store:        store,
		accounts:     services.NewAccountService(store, locks, time.Second, nil),
		campaigns:    services.NewCampaignService(store, locks, time.Second, nil),
		contribution: services.NewContributionService(store, locks, time.Second, nil),
	}
}

func eventsFor(campaignID string) portsrepo.EventFilter {
	return portsrepo.EventFilter{CampaignID: campaignID}
}

func (f *ledgerFixture) credit(t *testing.T, address string, amount domain.Amount) {
	t.Helper()
	_, err := f.accounts.CreditAccount(context.Background(), address, amount)
	require.NoError(t, err, "credit %s", address)
}

type CampaignServiceTestSuite struct {
	suite.Suite
	fix *ledgerFixture
}

func (s *CampaignServiceTestSuite) SetupTest() {
	s.fix = newLedgerFixture()
}

func (s *CampaignServiceTestSuite) createCampaign(targets ...int64) *domain.Campaign {
	var goal int64
	for _, t := range targets {
		goal += t
	}
	campaign, err := s.fix.campaigns.CreateCampaign(context.Background(), dto.CreateCampaignRequest{
		Creator:          creatorAddr,
		Category:         "personal",
		Goal:             goal,
		MilestoneTargets: targets,
		DurationDays:     30,
	})
	s.Require().NoError(err)
	return campaign
}

// fundMilestone contributes exactly enough gross for the current milestone's
// net target (target/0.99 rounded so the 1% burn lands on target exactly).
func (s *CampaignServiceTestSuite) contribute(campaignID string, gross domain.Amount) *domain.Event {
	event, err := s.fix.contribution.Contribute(context.Background(), campaignID, contributorAddr, gross)
	s.Require().NoError(err)
	return event
}

func (s *CampaignServiceTestSuite) TestCreateCampaign() {
	s.fix.credit(s.T(), creatorAddr, 100)

	campaign := s.createCampaign(990)

	s.Equal(domain.CampaignActive, campaign.Status)
	s.Equal(0, campaign.CurrentMilestone)
	s.Require().Len(campaign.Milestones, 1)
	s.Equal(domain.Amount(990), campaign.Milestones[0].Target)
	s.Equal(domain.Amount(990), campaign.Milestones[0].RequiredDeposit)
	s.Equal(domain.MilestonePending, campaign.Milestones[0].Status)

	// The personal-category fee of 25 is debited and burned in full.
	acc, err := s.fix.accounts.GetAccount(context.Background(), creatorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(75), acc.Balance)
	s.Equal(domain.Amount(25), acc.LifetimeBurned)

	ledger, err := s.fix.store.GetBurnLedger(context.Background())
	s.Require().NoError(err)
	s.Equal(domain.Amount(25), ledger.TotalBurned)

	// The creation event carries the full definition for replay.
	events, err := s.fix.store.ListEvents(context.Background(), eventsFor(campaign.CampaignID))
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(domain.EventCampaignCreated, events[0].Kind)
	s.Require().NotNil(events[0].Definition)
	s.Equal([]domain.Amount{990}, events[0].Definition.MilestoneTargets)
}

func (s *CampaignServiceTestSuite) TestCreateCampaignValidation() {
	s.fix.credit(s.T(), creatorAddr, 1000)
	ctx := context.Background()

	_, err := s.fix.campaigns.CreateCampaign(ctx, dto.CreateCampaignRequest{
		Creator: creatorAddr, Category: "ponzi", Goal: 100,
		MilestoneTargets: []int64{100}, DurationDays: 10,
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.fix.campaigns.CreateCampaign(ctx, dto.CreateCampaignRequest{
		Creator: creatorAddr, Category: "personal", Goal: 100,
		MilestoneTargets: []int64{50, 40}, DurationDays: 10,
	})
	s.ErrorIs(err, apperrors.ErrValidation, "targets must sum to the goal")
}

func (s *CampaignServiceTestSuite) TestCreateCampaignInsufficientFee() {
	s.fix.credit(s.T(), creatorAddr, 24)

	_, err := s.fix.campaigns.CreateCampaign(context.Background(), dto.CreateCampaignRequest{
		Creator: creatorAddr, Category: "personal", Goal: 100,
		MilestoneTargets: []int64{100}, DurationDays: 10,
	})
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (s *CampaignServiceTestSuite) TestLockDeposit() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), contributorAddr, 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990)
	s.contribute(campaign.CampaignID, 1000) // net 990, milestone funded

	// A deposit below the milestone target is rejected.
	_, err := s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 500)
	s.ErrorIs(err, apperrors.ErrInsufficientDeposit)

	// And one above it as well: the deposit must match exactly.
	_, err = s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 991)
	s.ErrorIs(err, apperrors.ErrValidation)

	updated, err := s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 990)
	s.Require().NoError(err)
	s.Equal(domain.MilestoneDepositLocked, updated.Milestones[0].Status)
	s.Equal(domain.Amount(990), updated.TotalDeposited)

	acc, err := s.fix.accounts.GetAccount(ctx, creatorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(2000-25-990), acc.Balance)
}

func (s *CampaignServiceTestSuite) TestLockDepositRequiresFundedMilestone() {
	s.fix.credit(s.T(), creatorAddr, 2000)

	campaign := s.createCampaign(990)
	_, err := s.fix.campaigns.LockDeposit(context.Background(), campaign.CampaignID, 0, creatorAddr, 990)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *CampaignServiceTestSuite) TestLockDepositCreatorOnly() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), contributorAddr, 1000)

	campaign := s.createCampaign(990)
	s.contribute(campaign.CampaignID, 1000)

	_, err := s.fix.campaigns.LockDeposit(context.Background(), campaign.CampaignID, 0, contributorAddr, 990)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *CampaignServiceTestSuite) TestVerificationLifecycleRelease() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), contributorAddr, 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990)
	s.contribute(campaign.CampaignID, 1000)
	_, err := s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 990)
	s.Require().NoError(err)

	// Resolving before a verification request is illegal.
	_, err = s.fix.campaigns.ResolveVerification(ctx, campaign.CampaignID, 0, true)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	updated, err := s.fix.campaigns.RequestVerification(ctx, campaign.CampaignID, 0, creatorAddr, "ipfs://proof-1")
	s.Require().NoError(err)
	s.Equal(domain.MilestoneAwaitingVerification, updated.Milestones[0].Status)
	s.Equal("ipfs://proof-1", updated.Milestones[0].ProofRef)

	resolved, err := s.fix.campaigns.ResolveVerification(ctx, campaign.CampaignID, 0, true)
	s.Require().NoError(err)
	s.Equal(domain.CampaignCompleted, resolved.Status, "single-milestone campaign completes on release")
	s.Equal(domain.MilestoneReleased, resolved.Milestones[0].Status)
	s.Require().NotNil(resolved.Milestones[0].Verified)
	s.True(*resolved.Milestones[0].Verified)

	// 990 released: platform 9, burn 4, creator 977, plus the 990 deposit back.
	creator, err := s.fix.accounts.GetAccount(ctx, creatorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(2000-25-990+977+990), creator.Balance)
	s.Equal(domain.Amount(25+4), creator.LifetimeBurned)

	platform, err := s.fix.accounts.GetAccount(ctx, domain.PlatformFeeAddress)
	s.Require().NoError(err)
	s.Equal(domain.Amount(9), platform.Balance)

	// Burn ledger: 25 creation + 10 contribution + 4 success.
	ledger, err := s.fix.store.GetBurnLedger(ctx)
	s.Require().NoError(err)
	s.Equal(domain.Amount(39), ledger.TotalBurned)
}

func (s *CampaignServiceTestSuite) TestReleaseAdvancesMultiMilestoneCampaign() {
	s.fix.credit(s.T(), creatorAddr, 5000)
	s.fix.credit(s.T(), contributorAddr, 3000)
	ctx := context.Background()

	campaign := s.createCampaign(990, 990)
	s.contribute(campaign.CampaignID, 1000)
	_, err := s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 990)
	s.Require().NoError(err)
	_, err = s.fix.campaigns.RequestVerification(ctx, campaign.CampaignID, 0, creatorAddr, "proof")
	s.Require().NoError(err)

	resolved, err := s.fix.campaigns.ResolveVerification(ctx, campaign.CampaignID, 0, true)
	s.Require().NoError(err)
	s.Equal(domain.CampaignActive, resolved.Status)
	s.Equal(1, resolved.CurrentMilestone)
	s.Equal(domain.MilestonePending, resolved.Milestones[1].Status)

	// The next milestone accepts contributions again.
	s.contribute(campaign.CampaignID, 1000)
	after, err := s.fix.campaigns.GetCampaign(ctx, campaign.CampaignID)
	s.Require().NoError(err)
	s.Equal(domain.MilestoneFunded, after.Milestones[1].Status)
}

func (s *CampaignServiceTestSuite) TestVerificationLifecycleRefund() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), contributorAddr, 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990)
	s.contribute(campaign.CampaignID, 1000)
	_, err := s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 990)
	s.Require().NoError(err)
	_, err = s.fix.campaigns.RequestVerification(ctx, campaign.CampaignID, 0, creatorAddr, "proof")
	s.Require().NoError(err)

	resolved, err := s.fix.campaigns.ResolveVerification(ctx, campaign.CampaignID, 0, false)
	s.Require().NoError(err)
	s.Equal(domain.CampaignFailed, resolved.Status)
	s.Equal(domain.MilestoneRefunded, resolved.Milestones[0].Status)
	s.Equal(domain.Amount(990), resolved.TotalRefunded)
	s.Equal(domain.Amount(990), resolved.TotalForfeited)

	// The contributor gets the escrowed net back; the 10-unit burn is gone
	// for good.
	contributor, err := s.fix.accounts.GetAccount(ctx, contributorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(990), contributor.Balance)

	// The creator's deposit is forfeited in full and attributed as burn.
	creator, err := s.fix.accounts.GetAccount(ctx, creatorAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(2000-25-990), creator.Balance)
	s.Equal(domain.Amount(25+990), creator.LifetimeBurned)

	ledger, err := s.fix.store.GetBurnLedger(ctx)
	s.Require().NoError(err)
	s.Equal(domain.Amount(25+10+990), ledger.TotalBurned)

	// A failed campaign accepts nothing further.
	_, err = s.fix.contribution.Contribute(ctx, campaign.CampaignID, contributorAddr, 100)
	s.ErrorIs(err, apperrors.ErrCampaignNotAcceptingFunds)
}

func (s *CampaignServiceTestSuite) TestRefundSplitsProRata() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), "0xalice", 1000)
	s.fix.credit(s.T(), "0xbob", 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990)
	_, err := s.fix.contribution.Contribute(ctx, campaign.CampaignID, "0xalice", 600) // net 594
	s.Require().NoError(err)
	_, err = s.fix.contribution.Contribute(ctx, campaign.CampaignID, "0xbob", 400) // net 396, funds milestone
	s.Require().NoError(err)

	_, err = s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 0, creatorAddr, 990)
	s.Require().NoError(err)
	_, err = s.fix.campaigns.RequestVerification(ctx, campaign.CampaignID, 0, creatorAddr, "proof")
	s.Require().NoError(err)
	_, err = s.fix.campaigns.ResolveVerification(ctx, campaign.CampaignID, 0, false)
	s.Require().NoError(err)

	// Each contributor recovers exactly their recorded net.
	alice, err := s.fix.accounts.GetAccount(ctx, "0xalice")
	s.Require().NoError(err)
	s.Equal(domain.Amount(1000-600+594), alice.Balance)

	bob, err := s.fix.accounts.GetAccount(ctx, "0xbob")
	s.Require().NoError(err)
	s.Equal(domain.Amount(1000-400+396), bob.Balance)
}

func (s *CampaignServiceTestSuite) TestCancelCampaign() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), contributorAddr, 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990)

	// Only the creator may cancel.
	_, err := s.fix.campaigns.CancelCampaign(ctx, campaign.CampaignID, contributorAddr)
	s.ErrorIs(err, apperrors.ErrValidation)

	cancelled, err := s.fix.campaigns.CancelCampaign(ctx, campaign.CampaignID, creatorAddr)
	s.Require().NoError(err)
	s.Equal(domain.CampaignCancelled, cancelled.Status)

	_, err = s.fix.contribution.Contribute(ctx, campaign.CampaignID, contributorAddr, 100)
	s.ErrorIs(err, apperrors.ErrCampaignNotAcceptingFunds)
}

func (s *CampaignServiceTestSuite) TestCancelRejectedOnceEscrowed() {
	s.fix.credit(s.T(), creatorAddr, 2000)
	s.fix.credit(s.T(), contributorAddr, 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990)
	s.contribute(campaign.CampaignID, 100)

	_, err := s.fix.campaigns.CancelCampaign(ctx, campaign.CampaignID, creatorAddr)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *CampaignServiceTestSuite) TestTransitionsRejectNonCurrentMilestone() {
	s.fix.credit(s.T(), creatorAddr, 5000)
	s.fix.credit(s.T(), contributorAddr, 1000)
	ctx := context.Background()

	campaign := s.createCampaign(990, 990)
	s.contribute(campaign.CampaignID, 1000)

	_, err := s.fix.campaigns.LockDeposit(ctx, campaign.CampaignID, 1, creatorAddr, 990)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func TestCampaignServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}
