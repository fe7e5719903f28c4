// Package accounting holds the pure burn and allocation arithmetic shared by
// services and replay. Nothing here has side effects; identical inputs always
// yield identical outputs, which event-log replay depends on.
package accounting

import (
	"fmt"
	"math/big"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// BurnPolicy selects the burn split applied to a monetary event.
type BurnPolicy string

const (
	// ContributionBurn destroys 1% of every contribution.
	ContributionBurn BurnPolicy = "CONTRIBUTION_BURN"
	// CreationFeeBurn destroys the entire campaign creation fee.
	CreationFeeBurn BurnPolicy = "CREATION_FEE_BURN"
	// SuccessFeeBurn is the three-way split applied on milestone release.
	SuccessFeeBurn BurnPolicy = "SUCCESS_FEE_BURN"
)

// Basis-point rates per policy.
const (
	ContributionBurnBP = 100   // 1%
	CreationFeeBurnBP  = 10000 // 100%
	SuccessPlatformBP  = 100   // 1% of gross, taken first
	SuccessBurnBP      = 50    // 0.5% of the remainder after the platform cut
)

// ApplyBurn computes the burn/net split for a two-way policy.
// burn + net == gross always holds exactly.
func ApplyBurn(gross domain.Amount, policy BurnPolicy) (burn, net domain.Amount, err error) {
	switch policy {
	case ContributionBurn:
		burn, net = gross.Split(ContributionBurnBP)
	case CreationFeeBurn:
		burn, net = gross.Split(CreationFeeBurnBP)
	default:
		return 0, 0, fmt.Errorf("%w: burn policy %q has no two-way split", apperrors.ErrValidation, policy)
	}
	return burn, net, nil
}

// SuccessSplit is the result of the milestone-release fee split.
type SuccessSplit struct {
	Platform domain.Amount
	Burn     domain.Amount
	Creator  domain.Amount
}

// SplitSuccessFee divides released milestone funds by successive floor-splits
// in a fixed order: platform first, then the burn cut from the remainder, then
// the creator gets what is left. Platform + Burn + Creator == gross exactly.
func SplitSuccessFee(gross domain.Amount) SuccessSplit {
	platform, rest := gross.Split(SuccessPlatformBP)
	burn, creator := rest.Split(SuccessBurnBP)
	return SuccessSplit{Platform: platform, Burn: burn, Creator: creator}
}

// AllocateRefunds distributes a refund pool across contributions pro-rata,
// flooring each share in input (contribution) order. The residual left by
// flooring is returned for the platform holding account; no value is created
// or lost: sum(shares) + residual == pool.
//
// Shares are computed with big.Int so pool*weight cannot overflow int64.
func AllocateRefunds(pool domain.Amount, contributions []domain.Amount) (shares []domain.Amount, residual domain.Amount) {
	shares = make([]domain.Amount, len(contributions))
	var total domain.Amount
	for _, c := range contributions {
		total = total.Add(c)
	}
	if total.IsZero() || pool.IsZero() {
		return shares, pool
	}
	bigPool := big.NewInt(int64(pool))
	bigTotal := big.NewInt(int64(total))
	var allocated domain.Amount
	for i, c := range contributions {
		share := new(big.Int).Mul(bigPool, big.NewInt(int64(c)))
		share.Quo(share, bigTotal)
		shares[i] = domain.Amount(share.Int64())
		allocated = allocated.Add(shares[i])
	}
	return shares, pool - allocated
}
