// Package pgsql implements the ledger store on PostgreSQL via pgx. Aggregate
// tables exist for fast reads, but the events table is authoritative: every
// write goes through SaveTransition, which appends the events and updates the
// projections in the same transaction.
package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
)

// PgxLedgerRepository bundles the per-entity repositories behind the single
// store facade the services consume.
type PgxLedgerRepository struct {
	*PgxAccountRepository
	*PgxCampaignRepository
	*PgxEventRepository
	*PgxBurnRepository
	*PgxTransitionRepository
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// NewPgxLedgerRepository creates the full store facade over one pool.
func NewPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		PgxAccountRepository:    NewPgxAccountRepository(pool),
		PgxCampaignRepository:   NewPgxCampaignRepository(pool),
		PgxEventRepository:      NewPgxEventRepository(pool),
		PgxBurnRepository:       NewPgxBurnRepository(pool),
		PgxTransitionRepository: NewPgxTransitionRepository(pool),
	}
}
