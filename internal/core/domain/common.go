package domain

import "time"

// AuditFields holds common timestamp fields embedded in persisted aggregates.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Reserved platform accounts. They exist from the first write that touches them
// and participate in conservation like any other account.
const (
	// PlatformFeeAddress receives the platform's cut of the success-fee split.
	PlatformFeeAddress = "platform:fees"
	// PlatformHoldingAddress receives rounding residue from pro-rata refunds.
	// Burn-neutral: value parked here is never lost and never duplicated.
	PlatformHoldingAddress = "platform:holding"
)
