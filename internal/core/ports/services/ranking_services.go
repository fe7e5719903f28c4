package services

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// RankingSvc derives contributor leaderboards from the event log. Read-only
// and eventually consistent: it recomputes from a log snapshot and never
// writes.
type RankingSvc interface {
	// Leaderboard returns up to limit contributors ranked within the window.
	Leaderboard(ctx context.Context, window domain.RankingWindow, limit int) ([]domain.LeaderboardEntry, error)
}

// BurnStatsSvc reads burn accounting.
type BurnStatsSvc interface {
	// BurnLedger retrieves the global burn counter.
	BurnLedger(ctx context.Context) (*domain.BurnLedger, error)

	// BurnHistory retrieves recent daily buckets, newest first.
	BurnHistory(ctx context.Context, days int) ([]domain.BurnBucket, error)
}
