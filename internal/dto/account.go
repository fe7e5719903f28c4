package dto

import (
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// CreditAccountRequest tops up an account from an external source (the wallet
// bridge owned by the out-of-scope API layer).
type CreditAccountRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	Address             string     `json:"address"`
	DisplayAddress      string     `json:"displayAddress"`
	Balance             int64      `json:"balance"`
	LifetimeContributed int64      `json:"lifetimeContributed"`
	LifetimeBurned      int64      `json:"lifetimeBurned"`
	ContributionCount   int64      `json:"contributionCount"`
	FirstContributionAt *time.Time `json:"firstContributionAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// ToAccountResponse maps a domain account to its response shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Address:             a.Address,
		DisplayAddress:      a.DisplayAddress(),
		Balance:             int64(a.Balance),
		LifetimeContributed: int64(a.LifetimeContributed),
		LifetimeBurned:      int64(a.LifetimeBurned),
		ContributionCount:   a.ContributionCount,
		FirstContributionAt: a.FirstContributionAt,
		CreatedAt:           a.CreatedAt,
	}
}

// AchievementResponse is one unlocked achievement.
type AchievementResponse struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tier        string `json:"tier"`
}

// ToAchievementResponses maps derived achievements.
func ToAchievementResponses(in []domain.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(in))
	for _, a := range in {
		out = append(out, AchievementResponse{
			Kind:        string(a.Kind),
			Name:        a.Name,
			Description: a.Description,
			Tier:        a.Tier,
		})
	}
	return out
}
