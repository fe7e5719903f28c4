package domain

import (
	"fmt"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
)

// CampaignCategory selects the creation-fee schedule for a campaign.
type CampaignCategory string

const (
	CategoryPersonal    CampaignCategory = "personal"
	CategoryBusiness    CampaignCategory = "business"
	CategoryCharity     CampaignCategory = "charity"
	CategoryEmergency   CampaignCategory = "emergency"
	CategoryCreative    CampaignCategory = "creative"
	CategoryEducation   CampaignCategory = "education"
	CategoryMedical     CampaignCategory = "medical"
	CategoryCommunity   CampaignCategory = "community"
	CategoryTechnology  CampaignCategory = "technology"
	CategoryEnvironment CampaignCategory = "environment"
	CategoryAnimal      CampaignCategory = "animal"
	CategoryOther       CampaignCategory = "other"
)

// creationFees maps each category to its creation fee in units. The fee is
// burned in full when a campaign is created.
var creationFees = map[CampaignCategory]Amount{
	CategoryPersonal:    25,
	CategoryBusiness:    50,
	CategoryCharity:     15,
	CategoryEmergency:   10,
	CategoryCreative:    25,
	CategoryEducation:   25,
	CategoryMedical:     15,
	CategoryCommunity:   25,
	CategoryTechnology:  50,
	CategoryEnvironment: 25,
	CategoryAnimal:      20,
	CategoryOther:       25,
}

// CreationFee returns the category's creation fee, or ErrValidation for an
// unknown category.
func CreationFee(category CampaignCategory) (Amount, error) {
	fee, ok := creationFees[category]
	if !ok {
		return 0, fmt.Errorf("%w: unknown campaign category %q", apperrors.ErrValidation, category)
	}
	return fee, nil
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignCompleted CampaignStatus = "COMPLETED"
	CampaignFailed    CampaignStatus = "FAILED"
	CampaignCancelled CampaignStatus = "CANCELLED"
	// CampaignCorrupted freezes a campaign whose conservation invariant was
	// violated. No transition leaves this state.
	CampaignCorrupted CampaignStatus = "CORRUPTED"
)

// IsTerminal reports whether no further transitions are legal.
func (s CampaignStatus) IsTerminal() bool {
	switch s {
	case CampaignCompleted, CampaignFailed, CampaignCancelled, CampaignCorrupted:
		return true
	}
	return false
}

// MilestoneStatus is the per-milestone lifecycle state.
type MilestoneStatus string

const (
	MilestonePending              MilestoneStatus = "PENDING"
	MilestoneFunded               MilestoneStatus = "FUNDED"
	MilestoneDepositLocked        MilestoneStatus = "DEPOSIT_LOCKED"
	MilestoneAwaitingVerification MilestoneStatus = "AWAITING_VERIFICATION"
	MilestoneReleased             MilestoneStatus = "RELEASED"
	MilestoneRefunded             MilestoneStatus = "REFUNDED"
)

// Milestone is a campaign sub-goal gating partial fund release.
type Milestone struct {
	Index           int             `json:"index"` // 0-based, strictly ordered
	Target          Amount          `json:"target"`
	RequiredDeposit Amount          `json:"requiredDeposit"` // always equals Target
	Escrow          Amount          `json:"escrow"`          // accumulated net contributions
	Deposit         Amount          `json:"deposit"`         // creator deposit currently locked
	Status          MilestoneStatus `json:"status"`
	ProofRef        string          `json:"proofRef,omitempty"` // opaque, not interpreted
	Verified        *bool           `json:"verified,omitempty"` // set once the outcome is decided
}

// RemainingCapacity is how much net contribution the milestone can still absorb.
func (m Milestone) RemainingCapacity() Amount {
	if m.Status != MilestonePending {
		return 0
	}
	rem, err := m.Target.Sub(m.Escrow)
	if err != nil {
		return 0
	}
	return rem
}

// Campaign is the aggregate owning one state machine instance. All money
// fields are projections of the event log.
type Campaign struct {
	CampaignID       string           `json:"campaignID"`
	Creator          string           `json:"creator"` // account address
	Category         CampaignCategory `json:"category"`
	Goal             Amount           `json:"goal"`
	StartsAt         time.Time        `json:"startsAt"`
	EndsAt           time.Time        `json:"endsAt"`
	Milestones       []Milestone      `json:"milestones"`
	Status           CampaignStatus   `json:"status"`
	CurrentMilestone int              `json:"currentMilestone"`

	// Contribution-side accounting (all net of the contribution burn).
	TotalContributed Amount `json:"totalContributed"`
	TotalReleased    Amount `json:"totalReleased"`
	TotalRefunded    Amount `json:"totalRefunded"`

	// Deposit-side accounting.
	TotalDeposited   Amount `json:"totalDeposited"`
	DepositsReturned Amount `json:"depositsReturned"`
	TotalForfeited   Amount `json:"totalForfeited"` // deposits moved to the burn ledger

	// TotalBurned aggregates every burn attributable to this campaign:
	// creation fee, contribution burns, success-fee burns, forfeits.
	TotalBurned Amount `json:"totalBurned"`

	AuditFields
	Version int64 `json:"version"`
}

// Clone returns a deep copy, including the milestone slice.
func (c *Campaign) Clone() Campaign {
	out := *c
	out.Milestones = make([]Milestone, len(c.Milestones))
	copy(out.Milestones, c.Milestones)
	return out
}

// Current returns the current milestone, or an error when the campaign has
// advanced past its last milestone or holds none.
func (c *Campaign) Current() (*Milestone, error) {
	if c.CurrentMilestone < 0 || c.CurrentMilestone >= len(c.Milestones) {
		return nil, fmt.Errorf("%w: milestone index %d", apperrors.ErrNotFound, c.CurrentMilestone)
	}
	return &c.Milestones[c.CurrentMilestone], nil
}

// MilestoneAt returns the milestone at index, or ErrNotFound.
func (c *Campaign) MilestoneAt(index int) (*Milestone, error) {
	if index < 0 || index >= len(c.Milestones) {
		return nil, fmt.Errorf("%w: milestone index %d", apperrors.ErrNotFound, index)
	}
	return &c.Milestones[index], nil
}

// ContributionEscrow is the total net contribution value currently held.
func (c *Campaign) ContributionEscrow() Amount {
	var sum Amount
	for _, m := range c.Milestones {
		if m.Status != MilestoneReleased && m.Status != MilestoneRefunded {
			sum = sum.Add(m.Escrow)
		}
	}
	return sum
}

// DepositEscrow is the total creator deposit value currently held.
func (c *Campaign) DepositEscrow() Amount {
	var sum Amount
	for _, m := range c.Milestones {
		if m.Status == MilestoneDepositLocked || m.Status == MilestoneAwaitingVerification {
			sum = sum.Add(m.Deposit)
		}
	}
	return sum
}

// EscrowBalance is everything the ledger holds on behalf of this campaign.
func (c *Campaign) EscrowBalance() Amount {
	return c.ContributionEscrow().Add(c.DepositEscrow())
}

// CheckConservation verifies the campaign's accounting law:
//
//	released + held contribution escrow + refunded == total net contributed
//	held deposits + returned deposits + forfeited  == total deposited
//
// A violation is fatal for the campaign; callers must freeze it as Corrupted.
func (c *Campaign) CheckConservation() error {
	contrib := c.TotalReleased.Add(c.ContributionEscrow()).Add(c.TotalRefunded)
	if contrib != c.TotalContributed {
		return fmt.Errorf("%w: contribution flow %d != contributed %d",
			apperrors.ErrCorrupted, contrib, c.TotalContributed)
	}
	deposits := c.DepositEscrow().Add(c.DepositsReturned).Add(c.TotalForfeited)
	if deposits != c.TotalDeposited {
		return fmt.Errorf("%w: deposit flow %d != deposited %d",
			apperrors.ErrCorrupted, deposits, c.TotalDeposited)
	}
	return nil
}

// ProgressPercent reports cumulative funding progress toward the goal, floored.
func (c *Campaign) ProgressPercent() int {
	if c.Goal <= 0 {
		return 0
	}
	funded := c.TotalContributed
	pct := int64(funded) * 100 / int64(c.Goal)
	if pct > 100 {
		pct = 100
	}
	return int(pct)
}
