package domain

import "time"

// EventKind classifies entries in the append-only ledger log.
type EventKind string

const (
	EventAccountCredited       EventKind = "ACCOUNT_CREDITED"
	EventCampaignCreated       EventKind = "CAMPAIGN_CREATED"
	EventContribution          EventKind = "CONTRIBUTION"
	EventDepositLocked         EventKind = "DEPOSIT_LOCKED"
	EventVerificationRequested EventKind = "VERIFICATION_REQUESTED"
	EventMilestoneReleased     EventKind = "MILESTONE_RELEASED"
	EventMilestoneRefunded     EventKind = "MILESTONE_REFUNDED"
	EventCampaignCancelled     EventKind = "CAMPAIGN_CANCELLED"
	EventCampaignCorrupted     EventKind = "CAMPAIGN_CORRUPTED"
)

// CampaignDefinition is the immutable creation payload carried by a
// CAMPAIGN_CREATED event. It is everything replay needs to rebuild the
// campaign aggregate from an empty state.
type CampaignDefinition struct {
	Category         CampaignCategory `json:"category"`
	Goal             Amount           `json:"goal"`
	MilestoneTargets []Amount         `json:"milestoneTargets"`
	StartsAt         time.Time        `json:"startsAt"`
	EndsAt           time.Time        `json:"endsAt"`
}

// Event is one immutable entry in the ledger's append-only log, classified by
// Kind. The log is the sole source of truth; every aggregate field on Account,
// Campaign and the burn ledger is a projection of it.
//
// Monetary fields by kind:
//
//	ACCOUNT_CREDITED        Net   = credited amount
//	CAMPAIGN_CREATED        Gross = creation fee, Burn = fee (fully burned)
//	CONTRIBUTION            Gross = contributed, Burn = 1% cut, Net = to escrow
//	DEPOSIT_LOCKED          Gross = deposit amount
//	MILESTONE_RELEASED      Gross = milestone target, Burn = success-fee burn cut,
//	                        Net = creator share after the success-fee split
//	MILESTONE_REFUNDED      Gross = refunded pool, Burn = forfeited deposit
//
// Derived allocations (success-fee split, per-contributor refunds) are not
// stored: they are recomputed by pure functions, which keeps the log minimal
// and replay deterministic.
type Event struct {
	Sequence       int64               `json:"sequence"` // monotonic, assigned by the store
	EventID        string              `json:"eventID"`
	Kind           EventKind           `json:"kind"`
	CampaignID     string              `json:"campaignID,omitempty"`
	Account        string              `json:"account,omitempty"` // contributor, creator or credited address
	MilestoneIndex int                 `json:"milestoneIndex"`    // resulting milestone index; -1 when not applicable
	Gross          Amount              `json:"gross"`
	Burn           Amount              `json:"burn"`
	Net            Amount              `json:"net"`
	ProofRef       string              `json:"proofRef,omitempty"`
	Outcome        *bool               `json:"outcome,omitempty"`
	Definition     *CampaignDefinition `json:"definition,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
}

// BurnDelta is the burn-ledger side effect of a single transition, bucketed by
// cause so the daily history stays auditable per source.
type BurnDelta struct {
	Contribution Amount
	Creation     Amount
	Success      Amount
	Forfeit      Amount
	// Daily activity counters.
	CampaignsCreated  int64
	ContributionsMade int64
	Day               time.Time // bucket date (UTC midnight of the event time)
}

// Total is the full amount this delta adds to the global burn counter.
func (d BurnDelta) Total() Amount {
	return d.Contribution.Add(d.Creation).Add(d.Success).Add(d.Forfeit)
}

// StateChange is the atomic unit every state-machine transition produces: the
// updated campaign, every account whose balance moved, the burn side effect,
// and exactly the events to append. A store must persist all of it in a single
// transaction or none of it.
type StateChange struct {
	Campaign *Campaign
	Accounts []Account // versions already incremented; stores CAS on Version-1
	Burn     *BurnDelta
	Events   []Event
}
