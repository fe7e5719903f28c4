package dto

import (
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// LeaderboardEntryResponse is one contributor's standing.
type LeaderboardEntryResponse struct {
	Rank                int       `json:"rank"`
	Address             string    `json:"address"`
	Score               string    `json:"score"` // exact decimal, serialized as string
	NetContributed      int64     `json:"netContributed"`
	BurnAttributed      int64     `json:"burnAttributed"`
	Contributions       int64     `json:"contributions"`
	FirstContributionAt time.Time `json:"firstContributionAt"`
}

// LeaderboardResponse is the ordered leaderboard for a window.
type LeaderboardResponse struct {
	Window  string                     `json:"window"`
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// ToLeaderboardResponse maps ranked entries.
func ToLeaderboardResponse(window domain.RankingWindow, entries []domain.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntryResponse{
			Rank:                e.Rank,
			Address:             e.Address,
			Score:               e.Score.String(),
			NetContributed:      int64(e.NetContributed),
			BurnAttributed:      int64(e.BurnAttributed),
			Contributions:       e.Contributions,
			FirstContributionAt: e.FirstContributionAt,
		})
	}
	return LeaderboardResponse{Window: string(window), Entries: out}
}
