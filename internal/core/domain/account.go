package domain

import "time"

// Account represents a wallet-addressed party known to the ledger: contributor,
// creator, or reserved platform account. Accounts are created on first use and
// never deleted. Balance, lifetime aggregates and contribution counters are
// cached projections of the event log and must stay re-derivable by replay.
type Account struct {
	Address             string     `json:"address"` // opaque wallet address, primary key
	Balance             Amount     `json:"balance"` // invariant: >= 0 at all times
	LifetimeContributed Amount     `json:"lifetimeContributed"`
	LifetimeBurned      Amount     `json:"lifetimeBurned"` // burn attributed to this account's events
	ContributionCount   int64      `json:"contributionCount"`
	FirstContributionAt *time.Time `json:"firstContributionAt,omitempty"`
	AuditFields
	Version int64 `json:"version"` // optimistic concurrency token
}

// NewAccount returns a zero-balance account for the given address.
func NewAccount(address string, now time.Time) Account {
	return Account{
		Address: address,
		AuditFields: AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
		Version: 0,
	}
}

// DisplayAddress returns the shortened form used by callers: 0x742d...8B4e.
func (a Account) DisplayAddress() string {
	if len(a.Address) >= 10 {
		return a.Address[:6] + "..." + a.Address[len(a.Address)-4:]
	}
	return a.Address
}
