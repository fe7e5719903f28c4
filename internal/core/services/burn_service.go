package services

import (
	"context"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
)

// BurnStatsService reads the global burn counter and daily history.
type BurnStatsService struct {
	burns portsrepo.BurnReader
}

// NewBurnStatsService creates a new BurnStatsService.
func NewBurnStatsService(burns portsrepo.BurnReader) *BurnStatsService {
	return &BurnStatsService{burns: burns}
}

// BurnLedger retrieves the singleton global burn counter.
func (s *BurnStatsService) BurnLedger(ctx context.Context) (*domain.BurnLedger, error) {
	return s.burns.GetBurnLedger(ctx)
}

// BurnHistory retrieves the most recent daily buckets, newest first.
func (s *BurnStatsService) BurnHistory(ctx context.Context, days int) ([]domain.BurnBucket, error) {
	return s.burns.ListBurnHistory(ctx, days)
}
