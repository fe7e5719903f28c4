package dto

import (
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// ContributeRequest applies a contributor's payment against a campaign.
type ContributeRequest struct {
	Contributor string `json:"contributor" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
}

// EventResponse is the public view of a persisted ledger event.
type EventResponse struct {
	Sequence       int64     `json:"sequence"`
	EventID        string    `json:"eventID"`
	Kind           string    `json:"kind"`
	CampaignID     string    `json:"campaignID,omitempty"`
	Account        string    `json:"account,omitempty"`
	MilestoneIndex int       `json:"milestoneIndex"`
	Gross          int64     `json:"gross"`
	Burn           int64     `json:"burn"`
	Net            int64     `json:"net"`
	Timestamp      time.Time `json:"timestamp"`
}

// ToEventResponse maps a ledger event to its response shape.
func ToEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		Sequence:       e.Sequence,
		EventID:        e.EventID,
		Kind:           string(e.Kind),
		CampaignID:     e.CampaignID,
		Account:        e.Account,
		MilestoneIndex: e.MilestoneIndex,
		Gross:          int64(e.Gross),
		Burn:           int64(e.Burn),
		Net:            int64(e.Net),
		Timestamp:      e.Timestamp,
	}
}
