package domain

import (
	"fmt"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RankingWindow bounds the slice of the event log a leaderboard is computed
// over.
type RankingWindow string

const (
	WindowAll   RankingWindow = "all"
	WindowDay   RankingWindow = "day"
	WindowWeek  RankingWindow = "week"
	WindowMonth RankingWindow = "month"
)

// ParseRankingWindow validates a caller-supplied window name. The empty string
// defaults to all-time.
func ParseRankingWindow(s string) (RankingWindow, error) {
	switch RankingWindow(s) {
	case "", WindowAll:
		return WindowAll, nil
	case WindowDay, WindowWeek, WindowMonth:
		return RankingWindow(s), nil
	}
	return "", fmt.Errorf("%w: unknown ranking window %q", apperrors.ErrValidation, s)
}

// Cutoff returns the inclusive lower time bound for the window, or the zero
// time for all-time.
func (w RankingWindow) Cutoff(now time.Time) time.Time {
	switch w {
	case WindowDay:
		return now.Add(-24 * time.Hour)
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour)
	case WindowMonth:
		return now.Add(-30 * 24 * time.Hour)
	}
	return time.Time{}
}

// LeaderboardEntry is one contributor's standing within a window.
// Score = net contributed + 0.20 x burn attributed + 0.10 x contribution
// count, computed with exact decimal arithmetic. Ties are broken by the
// earliest first-contribution timestamp.
type LeaderboardEntry struct {
	Rank                int             `json:"rank"`
	Address             string          `json:"address"`
	Score               decimal.Decimal `json:"score"`
	NetContributed      Amount          `json:"netContributed"`
	BurnAttributed      Amount          `json:"burnAttributed"`
	Contributions       int64           `json:"contributions"`
	FirstContributionAt time.Time       `json:"firstContributionAt"`
}

// Score weights.
var (
	burnBonusWeight      = decimal.RequireFromString("0.20")
	frequencyBonusWeight = decimal.RequireFromString("0.10")
)

// RankScore computes the ranking score from window aggregates.
func RankScore(net, burn Amount, contributions int64) decimal.Decimal {
	return net.Decimal().
		Add(burn.Decimal().Mul(burnBonusWeight)).
		Add(decimal.NewFromInt(contributions).Mul(frequencyBonusWeight))
}
