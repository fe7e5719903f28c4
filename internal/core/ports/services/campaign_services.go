package services

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	"github.com/fundtires/ledger_backend/internal/dto"
)

// CampaignReaderSvc defines read operations for campaign data.
type CampaignReaderSvc interface {
	// GetCampaign retrieves a campaign with its milestones.
	GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error)

	// ListCampaigns retrieves campaigns, newest first.
	ListCampaigns(ctx context.Context, limit int, offset int) ([]domain.Campaign, error)
}

// CampaignWriterSvc drives the per-campaign state machine. Every method is a
// single atomic transition: it validates preconditions under the campaign's
// lock, then persists the new state plus exactly one appended event.
type CampaignWriterSvc interface {
	// CreateCampaign charges the creator the category's creation fee (burned
	// in full) and activates the campaign with milestone 0 pending.
	CreateCampaign(ctx context.Context, req dto.CreateCampaignRequest) (*domain.Campaign, error)

	// LockDeposit moves the creator's required deposit into escrow for a
	// funded milestone. The skin-in-the-game gate before verification.
	LockDeposit(ctx context.Context, campaignID string, milestoneIndex int, creator string, amount domain.Amount) (*domain.Campaign, error)

	// RequestVerification transitions a deposit-locked milestone to awaiting
	// verification. The proof reference is stored opaquely.
	RequestVerification(ctx context.Context, campaignID string, milestoneIndex int, creator string, proofRef string) (*domain.Campaign, error)

	// ResolveVerification applies the external verifier's boolean decision,
	// releasing funds to the creator or refunding contributors.
	ResolveVerification(ctx context.Context, campaignID string, milestoneIndex int, outcome bool) (*domain.Campaign, error)

	// CancelCampaign is creator-initiated and only legal while no funds are
	// escrowed.
	CancelCampaign(ctx context.Context, campaignID string, creator string) (*domain.Campaign, error)
}

// CampaignSvcFacade combines all campaign-related service interfaces.
type CampaignSvcFacade interface {
	CampaignReaderSvc
	CampaignWriterSvc
}
