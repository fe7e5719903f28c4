package repositories

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// CampaignReader defines read operations for campaign data.
type CampaignReader interface {
	// FindCampaignByID retrieves a campaign with its embedded milestones.
	// Returns apperrors.ErrNotFound when the ID is unknown.
	FindCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error)

	// ListCampaigns retrieves campaigns ordered by creation time, newest first.
	ListCampaigns(ctx context.Context, limit int, offset int) ([]domain.Campaign, error)
}

// CampaignRepository combines campaign read operations. Campaign writes only
// happen through TransitionWriter.SaveTransition.
type CampaignRepository interface {
	CampaignReader
}
