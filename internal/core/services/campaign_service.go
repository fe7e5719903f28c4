package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	"github.com/fundtires/ledger_backend/internal/dto"
	"github.com/fundtires/ledger_backend/internal/utils/accounting"
	"github.com/fundtires/ledger_backend/internal/utils/locking"
	"github.com/google/uuid"
)

// CampaignService owns the per-campaign state machine. Every mutating method
// acquires the campaign's lock, validates the transition from current state,
// and persists the new state plus exactly one event in a single atomic write.
type CampaignService struct {
	baseService
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(repo portsrepo.LedgerRepository, locks *locking.KeyedLock, lockTimeout time.Duration, logger *slog.Logger) *CampaignService {
	return &CampaignService{baseService: newBaseService(repo, locks, lockTimeout, logger)}
}

// GetCampaign retrieves a campaign with its milestones.
func (s *CampaignService) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	return s.repo.FindCampaignByID(ctx, campaignID)
}

// ListCampaigns retrieves campaigns, newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, limit int, offset int) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx, limit, offset)
}

// CreateCampaign charges the creator the category's creation fee, burns it in
// full, and activates the campaign with milestone 0 pending.
func (s *CampaignService) CreateCampaign(ctx context.Context, req dto.CreateCampaignRequest) (*domain.Campaign, error) {
	category := domain.CampaignCategory(req.Category)
	fee, err := domain.CreationFee(category)
	if err != nil {
		return nil, err
	}

	goal := domain.Amount(req.Goal)
	targets := make([]domain.Amount, len(req.MilestoneTargets))
	var targetSum domain.Amount
	for i, t := range req.MilestoneTargets {
		if t <= 0 {
			return nil, fmt.Errorf("%w: milestone target must be positive", apperrors.ErrValidation)
		}
		targets[i] = domain.Amount(t)
		targetSum = targetSum.Add(targets[i])
	}
	if targetSum != goal {
		return nil, fmt.Errorf("%w: milestone targets sum to %d, goal is %d",
			apperrors.ErrValidation, targetSum, goal)
	}

	creator, err := s.accountOrNew(ctx, req.Creator)
	if err != nil {
		return nil, err
	}
	if creator.Balance < fee {
		return nil, fmt.Errorf("%w: creation fee %d exceeds balance %d of %s",
			apperrors.ErrInsufficientFunds, fee, creator.Balance, req.Creator)
	}
	burn, _, err := accounting.ApplyBurn(fee, accounting.CreationFeeBurn)
	if err != nil {
		return nil, err
	}

	now := s.now()
	creator.Balance, err = creator.Balance.Sub(fee)
	if err != nil {
		return nil, err
	}
	creator.LifetimeBurned = creator.LifetimeBurned.Add(burn)
	creator.LastUpdatedAt = now
	creator.Version++

	milestones := make([]domain.Milestone, len(targets))
	for i, t := range targets {
		milestones[i] = domain.Milestone{
			Index:           i,
			Target:          t,
			RequiredDeposit: t,
			Status:          domain.MilestonePending,
		}
	}

	campaign := domain.Campaign{
		CampaignID:       uuid.NewString(),
		Creator:          req.Creator,
		Category:         category,
		Goal:             goal,
		StartsAt:         now,
		EndsAt:           now.AddDate(0, 0, req.DurationDays),
		Milestones:       milestones,
		Status:           domain.CampaignActive,
		CurrentMilestone: 0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
		Version: 1,
	}

	change := domain.StateChange{
		Campaign: &campaign,
		Accounts: []domain.Account{creator},
		Burn: &domain.BurnDelta{
			Creation:         burn,
			CampaignsCreated: 1,
			Day:              domain.BucketDay(now),
		},
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventCampaignCreated,
			CampaignID:     campaign.CampaignID,
			Account:        req.Creator,
			MilestoneIndex: 0,
			Gross:          fee,
			Burn:           burn,
			Definition: &domain.CampaignDefinition{
				Category:         category,
				Goal:             goal,
				MilestoneTargets: targets,
				StartsAt:         campaign.StartsAt,
				EndsAt:           campaign.EndsAt,
			},
			Timestamp: now,
		}},
	}
	if err := s.saveGuarded(ctx, campaign, change); err != nil {
		return nil, err
	}
	s.logger.Info("campaign created",
		slog.String("campaign_id", campaign.CampaignID),
		slog.String("creator", req.Creator),
		slog.String("category", req.Category),
		slog.Int64("creation_fee_burned", int64(fee)))
	return &campaign, nil
}

// LockDeposit moves the creator's deposit for a funded milestone into escrow.
// The deposit must equal the milestone target exactly.
func (s *CampaignService) LockDeposit(ctx context.Context, campaignID string, milestoneIndex int, creator string, amount domain.Amount) (*domain.Campaign, error) {
	release, err := s.lockCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	defer release()

	campaign, milestone, err := s.loadForTransition(ctx, campaignID, milestoneIndex, creator)
	if err != nil {
		return nil, err
	}
	if milestone.Status != domain.MilestoneFunded {
		return nil, fmt.Errorf("%w: deposit requires a funded milestone, status is %s",
			apperrors.ErrInvalidTransition, milestone.Status)
	}
	if amount < milestone.RequiredDeposit {
		return nil, fmt.Errorf("%w: offered %d, required %d",
			apperrors.ErrInsufficientDeposit, amount, milestone.RequiredDeposit)
	}
	if amount > milestone.RequiredDeposit {
		return nil, fmt.Errorf("%w: deposit must equal the required %d, got %d",
			apperrors.ErrValidation, milestone.RequiredDeposit, amount)
	}

	creatorAcc, err := s.accountOrNew(ctx, creator)
	if err != nil {
		return nil, err
	}
	if creatorAcc.Balance < amount {
		return nil, fmt.Errorf("%w: deposit %d exceeds balance %d",
			apperrors.ErrInsufficientFunds, amount, creatorAcc.Balance)
	}

	now := s.now()
	frozen := campaign.Clone()
	creatorAcc.Balance, err = creatorAcc.Balance.Sub(amount)
	if err != nil {
		return nil, err
	}
	creatorAcc.LastUpdatedAt = now
	creatorAcc.Version++

	milestone.Deposit = amount
	milestone.Status = domain.MilestoneDepositLocked
	campaign.TotalDeposited = campaign.TotalDeposited.Add(amount)
	campaign.LastUpdatedAt = now
	campaign.Version++

	change := domain.StateChange{
		Campaign: campaign,
		Accounts: []domain.Account{creatorAcc},
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventDepositLocked,
			CampaignID:     campaignID,
			Account:        creator,
			MilestoneIndex: milestoneIndex,
			Gross:          amount,
			Timestamp:      now,
		}},
	}
	if err := s.saveGuarded(ctx, frozen, change); err != nil {
		return nil, err
	}
	return campaign, nil
}

// RequestVerification transitions a deposit-locked milestone to awaiting
// verification, storing the opaque proof reference.
func (s *CampaignService) RequestVerification(ctx context.Context, campaignID string, milestoneIndex int, creator string, proofRef string) (*domain.Campaign, error) {
	release, err := s.lockCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	defer release()

	campaign, milestone, err := s.loadForTransition(ctx, campaignID, milestoneIndex, creator)
	if err != nil {
		return nil, err
	}
	if milestone.Status != domain.MilestoneDepositLocked {
		return nil, fmt.Errorf("%w: verification requires a locked deposit, status is %s",
			apperrors.ErrInvalidTransition, milestone.Status)
	}

	now := s.now()
	frozen := campaign.Clone()
	milestone.Status = domain.MilestoneAwaitingVerification
	milestone.ProofRef = proofRef
	campaign.LastUpdatedAt = now
	campaign.Version++

	change := domain.StateChange{
		Campaign: campaign,
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventVerificationRequested,
			CampaignID:     campaignID,
			Account:        creator,
			MilestoneIndex: milestoneIndex,
			ProofRef:       proofRef,
			Timestamp:      now,
		}},
	}
	if err := s.saveGuarded(ctx, frozen, change); err != nil {
		return nil, err
	}
	return campaign, nil
}

// ResolveVerification applies the external verifier's decision for a milestone
// awaiting verification: release to the creator on success, refund
// contributors and forfeit the deposit on failure.
func (s *CampaignService) ResolveVerification(ctx context.Context, campaignID string, milestoneIndex int, outcome bool) (*domain.Campaign, error) {
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
		return nil, fmt.Errorf("%w: campaign is %s", apperrors.ErrInvalidTransition, campaign.Status)
	}
	if milestoneIndex != campaign.CurrentMilestone {
		return nil, fmt.Errorf("%w: milestone %d is not current (%d)",
			apperrors.ErrInvalidTransition, milestoneIndex, campaign.CurrentMilestone)
	}
	milestone, err := campaign.MilestoneAt(milestoneIndex)
	if err != nil {
		return nil, err
	}
	if milestone.Status != domain.MilestoneAwaitingVerification {
		return nil, fmt.Errorf("%w: milestone is %s, not awaiting verification",
			apperrors.ErrInvalidTransition, milestone.Status)
	}

	if outcome {
		return s.releaseMilestone(ctx, campaign, milestone)
	}
	return s.refundMilestone(ctx, campaign, milestone)
}

// releaseMilestone credits the creator with the milestone escrow (after the
// success-fee split) and returns the locked deposit, then advances the
// campaign or completes it.
func (s *CampaignService) releaseMilestone(ctx context.Context, campaign *domain.Campaign, milestone *domain.Milestone) (*domain.Campaign, error) {
	now := s.now()
	frozen := campaign.Clone()
	split := accounting.SplitSuccessFee(milestone.Target)

	creator, err := s.accountOrNew(ctx, campaign.Creator)
	if err != nil {
		return nil, err
	}
	creator.Balance = creator.Balance.Add(split.Creator).Add(milestone.Deposit)
	creator.LifetimeBurned = creator.LifetimeBurned.Add(split.Burn)
	creator.LastUpdatedAt = now
	creator.Version++
	accounts := []domain.Account{creator}

	if split.Platform.IsPositive() {
		platform, err := s.accountOrNew(ctx, domain.PlatformFeeAddress)
		if err != nil {
			return nil, err
		}
		platform.Balance = platform.Balance.Add(split.Platform)
		platform.LastUpdatedAt = now
		platform.Version++
		accounts = append(accounts, platform)
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
	campaign.LastUpdatedAt = now
	campaign.Version++

	change := domain.StateChange{
		Campaign: campaign,
		Accounts: mergeAccounts(accounts),
		Burn: &domain.BurnDelta{
			Success: split.Burn,
			Day:     domain.BucketDay(now),
		},
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventMilestoneReleased,
			CampaignID:     campaign.CampaignID,
			Account:        campaign.Creator,
			MilestoneIndex: milestone.Index,
			Gross:          milestone.Target,
			Burn:           split.Burn,
			Net:            split.Creator,
			Outcome:        &outcome,
			Timestamp:      now,
		}},
	}
	if err := s.saveGuarded(ctx, frozen, change); err != nil {
		return nil, err
	}
	s.logger.Info("milestone released",
		slog.String("campaign_id", campaign.CampaignID),
		slog.Int("milestone", milestone.Index),
		slog.Int64("to_creator", int64(split.Creator)),
		slog.Int64("burned", int64(split.Burn)))
	return campaign, nil
}

// refundMilestone returns escrowed contributions pro-rata in contribution
// order, routes any rounding residue to the platform holding account, forfeits
// the creator's deposit to the burn ledger, and fails the campaign.
func (s *CampaignService) refundMilestone(ctx context.Context, campaign *domain.Campaign, milestone *domain.Milestone) (*domain.Campaign, error) {
	idx := milestone.Index
	contributions, err := s.repo.ListEvents(ctx, portsrepo.EventFilter{
		CampaignID:     campaign.CampaignID,
		Kinds:          []domain.EventKind{domain.EventContribution},
		MilestoneIndex: &idx,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions for refund: %w", err)
	}

	nets := make([]domain.Amount, len(contributions))
	for i, e := range contributions {
		nets[i] = e.Net
	}
	pool := milestone.Escrow
	shares, residual := accounting.AllocateRefunds(pool, nets)

	now := s.now()
	frozen := campaign.Clone()
	credited := make(map[string]domain.Account)
	var order []string // deterministic save order: contribution order, oldest first
	touch := func(address string) (domain.Account, error) {
		if acc, ok := credited[address]; ok {
			return acc, nil
		}
		acc, err := s.accountOrNew(ctx, address)
		if err != nil {
			return domain.Account{}, err
		}
		acc.LastUpdatedAt = now
		acc.Version++
		order = append(order, address)
		return acc, nil
	}
	for i, e := range contributions {
		if shares[i].IsZero() {
			continue
		}
		acc, err := touch(e.Account)
		if err != nil {
			return nil, err
		}
		acc.Balance = acc.Balance.Add(shares[i])
		credited[e.Account] = acc
	}
	if residual.IsPositive() {
		holding, err := touch(domain.PlatformHoldingAddress)
		if err != nil {
			return nil, err
		}
		holding.Balance = holding.Balance.Add(residual)
		credited[domain.PlatformHoldingAddress] = holding
	}

	// The deposit is forfeited in full to disincentivize deliberate failure.
	forfeit := milestone.Deposit
	creator, err := touch(campaign.Creator)
	if err != nil {
		return nil, err
	}
	creator.LifetimeBurned = creator.LifetimeBurned.Add(forfeit)
	credited[campaign.Creator] = creator

	accounts := make([]domain.Account, 0, len(order))
	for _, address := range order {
		accounts = append(accounts, credited[address])
	}

	outcome := false
	milestone.Status = domain.MilestoneRefunded
	milestone.Verified = &outcome
	campaign.TotalRefunded = campaign.TotalRefunded.Add(pool)
	campaign.TotalForfeited = campaign.TotalForfeited.Add(forfeit)
	campaign.TotalBurned = campaign.TotalBurned.Add(forfeit)
	campaign.Status = domain.CampaignFailed // fail-fast: no further milestones
	campaign.LastUpdatedAt = now
	campaign.Version++

	change := domain.StateChange{
		Campaign: campaign,
		Accounts: mergeAccounts(accounts),
		Burn: &domain.BurnDelta{
			Forfeit: forfeit,
			Day:     domain.BucketDay(now),
		},
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventMilestoneRefunded,
			CampaignID:     campaign.CampaignID,
			Account:        campaign.Creator,
			MilestoneIndex: milestone.Index,
			Gross:          pool,
			Burn:           forfeit,
			Net:            pool,
			Outcome:        &outcome,
			Timestamp:      now,
		}},
	}
	if err := s.saveGuarded(ctx, frozen, change); err != nil {
		return nil, err
	}
	s.logger.Info("milestone refunded, campaign failed",
		slog.String("campaign_id", campaign.CampaignID),
		slog.Int("milestone", milestone.Index),
		slog.Int64("refunded", int64(pool)),
		slog.Int64("deposit_forfeited", int64(forfeit)))
	return campaign, nil
}

// CancelCampaign is creator-initiated and only legal while the current
// milestone is pending with nothing escrowed.
func (s *CampaignService) CancelCampaign(ctx context.Context, campaignID string, creator string) (*domain.Campaign, error) {
	release, err := s.lockCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	defer release()

	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Creator != creator {
		return nil, fmt.Errorf("%w: only the campaign creator may cancel", apperrors.ErrValidation)
	}
	if campaign.Status != domain.CampaignActive && campaign.Status != domain.CampaignDraft {
		return nil, fmt.Errorf("%w: campaign is %s", apperrors.ErrInvalidTransition, campaign.Status)
	}
	current, err := campaign.Current()
	if err != nil {
		return nil, err
	}
	if current.Status != domain.MilestonePending || !campaign.EscrowBalance().IsZero() {
		return nil, fmt.Errorf("%w: cancellation requires a pending milestone with zero escrow",
			apperrors.ErrInvalidTransition)
	}

	now := s.now()
	frozen := campaign.Clone()
	campaign.Status = domain.CampaignCancelled
	campaign.LastUpdatedAt = now
	campaign.Version++

	change := domain.StateChange{
		Campaign: campaign,
		Events: []domain.Event{{
			EventID:        newEventID(),
			Kind:           domain.EventCampaignCancelled,
			CampaignID:     campaignID,
			Account:        creator,
			MilestoneIndex: campaign.CurrentMilestone,
			Timestamp:      now,
		}},
	}
	if err := s.saveGuarded(ctx, frozen, change); err != nil {
		return nil, err
	}
	return campaign, nil
}

// loadForTransition loads a campaign and checks the shared creator-initiated
// transition preconditions: active campaign, current milestone, creator match.
func (s *CampaignService) loadForTransition(ctx context.Context, campaignID string, milestoneIndex int, creator string) (*domain.Campaign, *domain.Milestone, error) {
	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if campaign.Creator != creator {
		return nil, nil, fmt.Errorf("%w: only the campaign creator may perform this transition", apperrors.ErrValidation)
	}
	if campaign.Status != domain.CampaignActive {
		return nil, nil, fmt.Errorf("%w: campaign is %s", apperrors.ErrInvalidTransition, campaign.Status)
	}
	if milestoneIndex != campaign.CurrentMilestone {
		return nil, nil, fmt.Errorf("%w: milestone %d is not current (%d)",
			apperrors.ErrInvalidTransition, milestoneIndex, campaign.CurrentMilestone)
	}
	milestone, err := campaign.MilestoneAt(milestoneIndex)
	if err != nil {
		return nil, nil, err
	}
	return campaign, milestone, nil
}
