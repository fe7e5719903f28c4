package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
)

func TestCreationFee(t *testing.T) {
	tests := []struct {
		category domain.CampaignCategory
		fee      domain.Amount
	}{
		{domain.CategoryPersonal, 25},
		{domain.CategoryBusiness, 50},
		{domain.CategoryCharity, 15},
		{domain.CategoryEmergency, 10},
		{domain.CategoryMedical, 15},
		{domain.CategoryTechnology, 50},
		{domain.CategoryAnimal, 20},
		{domain.CategoryOther, 25},
	}
	for _, tt := range tests {
		fee, err := domain.CreationFee(tt.category)
		require.NoError(t, err)
		assert.Equal(t, tt.fee, fee, "category %s", tt.category)
	}

	_, err := domain.CreationFee("venture-capital")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCampaignStatusIsTerminal(t *testing.T) {
	assert.False(t, domain.CampaignDraft.IsTerminal())
	assert.False(t, domain.CampaignActive.IsTerminal())
	assert.True(t, domain.CampaignCompleted.IsTerminal())
	assert.True(t, domain.CampaignFailed.IsTerminal())
	assert.True(t, domain.CampaignCancelled.IsTerminal())
	assert.True(t, domain.CampaignCorrupted.IsTerminal())
}

func newTestCampaign() domain.Campaign {
	return domain.Campaign{
		CampaignID: "c-1",
		Creator:    "0xcreator",
		Category:   domain.CategoryPersonal,
		Goal:       1500,
		Milestones: []domain.Milestone{
			{Index: 0, Target: 1000, RequiredDeposit: 1000, Status: domain.MilestonePending},
			{Index: 1, Target: 500, RequiredDeposit: 500, Status: domain.MilestonePending},
		},
		Status: domain.CampaignActive,
	}
}

func TestMilestoneRemainingCapacity(t *testing.T) {
	m := domain.Milestone{Target: 1000, Escrow: 400, Status: domain.MilestonePending}
	assert.Equal(t, domain.Amount(600), m.RemainingCapacity())

	m.Status = domain.MilestoneFunded
	assert.True(t, m.RemainingCapacity().IsZero())
}

func TestCampaignClone(t *testing.T) {
	c := newTestCampaign()
	clone := c.Clone()
	clone.Milestones[0].Escrow = 777

	assert.True(t, c.Milestones[0].Escrow.IsZero(), "clone must not share milestone storage")
}

func TestCampaignEscrowAccessors(t *testing.T) {
	c := newTestCampaign()
	c.Milestones[0].Escrow = 1000
	c.Milestones[0].Deposit = 1000
	c.Milestones[0].Status = domain.MilestoneDepositLocked
	c.Milestones[1].Escrow = 200

	assert.Equal(t, domain.Amount(1200), c.ContributionEscrow())
	assert.Equal(t, domain.Amount(1000), c.DepositEscrow())
	assert.Equal(t, domain.Amount(2200), c.EscrowBalance())

	// Released milestones drop out of held escrow entirely.
	c.Milestones[0].Status = domain.MilestoneReleased
	assert.Equal(t, domain.Amount(200), c.ContributionEscrow())
	assert.True(t, c.DepositEscrow().IsZero())
}

func TestCheckConservation(t *testing.T) {
	c := newTestCampaign()
	c.Milestones[0].Escrow = 600
	c.TotalContributed = 600
	require.NoError(t, c.CheckConservation())

	// Losing escrowed value without accounting for it must be fatal.
	c.Milestones[0].Escrow = 500
	err := c.CheckConservation()
	assert.ErrorIs(t, err, apperrors.ErrCorrupted)

	// Deposit-side violation.
	c = newTestCampaign()
	c.TotalDeposited = 1000
	err = c.CheckConservation()
	assert.ErrorIs(t, err, apperrors.ErrCorrupted)

	c.Milestones[0].Deposit = 1000
	c.Milestones[0].Status = domain.MilestoneDepositLocked
	require.NoError(t, c.CheckConservation())
}

func TestProgressPercent(t *testing.T) {
	c := newTestCampaign()
	assert.Equal(t, 0, c.ProgressPercent())

	c.TotalContributed = 750
	assert.Equal(t, 50, c.ProgressPercent())

	c.TotalContributed = 1500
	assert.Equal(t, 100, c.ProgressPercent())

	c.TotalContributed = 2000
	assert.Equal(t, 100, c.ProgressPercent(), "progress is capped at 100")
}

func TestCurrentAndMilestoneAt(t *testing.T) {
	c := newTestCampaign()
	m, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, 0, m.Index)

	_, err = c.MilestoneAt(2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = c.MilestoneAt(-1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBucketDay(t *testing.T) {
	ts := time.Date(2025, 6, 15, 17, 42, 3, 0, time.FixedZone("IST", 5*3600+1800))
	day := domain.BucketDay(ts)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), day)
}
