package services

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// ContributionSvc validates and applies contributor payments.
type ContributionSvc interface {
	// Contribute debits the contributor, applies the contribution burn, and
	// credits the net amount to the campaign's current milestone escrow,
	// funding the milestone when the target is reached, all in one atomic
	// unit. Returns the persisted contribution event.
	Contribute(ctx context.Context, campaignID string, contributor string, gross domain.Amount) (*domain.Event, error)
}
