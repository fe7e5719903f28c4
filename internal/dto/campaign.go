package dto

import (
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// CreateCampaignRequest creates a campaign. The creation fee for the category
// is debited from the creator and burned in full as part of the same call.
type CreateCampaignRequest struct {
	Creator          string  `json:"creator" binding:"required"`
	Category         string  `json:"category" binding:"required"`
	Goal             int64   `json:"goal" binding:"required,gt=0"`
	MilestoneTargets []int64 `json:"milestoneTargets" binding:"required,min=1,dive,gt=0"`
	DurationDays     int     `json:"durationDays" binding:"required,gt=0"`
}

// LockDepositRequest locks the creator's milestone deposit into escrow.
type LockDepositRequest struct {
	Creator string `json:"creator" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

// RequestVerificationRequest submits an opaque proof reference for the
// milestone. The ledger does not interpret the payload.
type RequestVerificationRequest struct {
	Creator  string `json:"creator" binding:"required"`
	ProofRef string `json:"proofRef" binding:"required"`
}

// ResolveVerificationRequest carries the external verifier's decision.
// Outcome is a pointer so that an explicit false binds.
type ResolveVerificationRequest struct {
	Outcome *bool `json:"outcome" binding:"required"`
}

// CancelCampaignRequest is a creator-initiated cancellation.
type CancelCampaignRequest struct {
	Creator string `json:"creator" binding:"required"`
}

// MilestoneResponse is the public view of one milestone.
type MilestoneResponse struct {
	Index           int    `json:"index"`
	Target          int64  `json:"target"`
	RequiredDeposit int64  `json:"requiredDeposit"`
	Escrow          int64  `json:"escrow"`
	Deposit         int64  `json:"deposit"`
	Status          string `json:"status"`
	ProofRef        string `json:"proofRef,omitempty"`
	Verified        *bool  `json:"verified,omitempty"`
}

// CampaignResponse is the public view of a campaign.
type CampaignResponse struct {
	CampaignID       string              `json:"campaignID"`
	Creator          string              `json:"creator"`
	Category         string              `json:"category"`
	Goal             int64               `json:"goal"`
	StartsAt         time.Time           `json:"startsAt"`
	EndsAt           time.Time           `json:"endsAt"`
	Status           string              `json:"status"`
	CurrentMilestone int                 `json:"currentMilestone"`
	ProgressPercent  int                 `json:"progressPercent"`
	EscrowBalance    int64               `json:"escrowBalance"`
	TotalContributed int64               `json:"totalContributed"`
	TotalReleased    int64               `json:"totalReleased"`
	TotalRefunded    int64               `json:"totalRefunded"`
	TotalBurned      int64               `json:"totalBurned"`
	Milestones       []MilestoneResponse `json:"milestones"`
}

// ToCampaignResponse maps a domain campaign to its response shape.
func ToCampaignResponse(c *domain.Campaign) CampaignResponse {
	milestones := make([]MilestoneResponse, 0, len(c.Milestones))
	for _, m := range c.Milestones {
		milestones = append(milestones, MilestoneResponse{
			Index:           m.Index,
			Target:          int64(m.Target),
			RequiredDeposit: int64(m.RequiredDeposit),
			Escrow:          int64(m.Escrow),
			Deposit:         int64(m.Deposit),
			Status:          string(m.Status),
			ProofRef:        m.ProofRef,
			Verified:        m.Verified,
		})
	}
	return CampaignResponse{
		CampaignID:       c.CampaignID,
		Creator:          c.Creator,
		Category:         string(c.Category),
		Goal:             int64(c.Goal),
		StartsAt:         c.StartsAt,
		EndsAt:           c.EndsAt,
		Status:           string(c.Status),
		CurrentMilestone: c.CurrentMilestone,
		ProgressPercent:  c.ProgressPercent(),
		EscrowBalance:    int64(c.EscrowBalance()),
		TotalContributed: int64(c.TotalContributed),
		TotalReleased:    int64(c.TotalReleased),
		TotalRefunded:    int64(c.TotalRefunded),
		TotalBurned:      int64(c.TotalBurned),
		Milestones:       milestones,
	}
}
