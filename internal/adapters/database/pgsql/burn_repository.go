package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

type PgxBurnRepository struct {
	pool *pgxpool.Pool
}

// NewPgxBurnRepository creates a new repository for burn accounting.
func NewPgxBurnRepository(pool *pgxpool.Pool) *PgxBurnRepository {
	return &PgxBurnRepository{pool: pool}
}

// GetBurnLedger retrieves the singleton global burn counter. A store with no
// burns yet returns a zero-valued ledger.
func (r *PgxBurnRepository) GetBurnLedger(ctx context.Context) (*domain.BurnLedger, error) {
	query := `SELECT total_burned, last_updated_at, version FROM burn_ledger WHERE id = 1;`
	var ledger domain.BurnLedger
	err := r.pool.QueryRow(ctx, query).Scan(&ledger.TotalBurned, &ledger.LastUpdatedAt, &ledger.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.BurnLedger{}, nil
		}
		return nil, fmt.Errorf("failed to read burn ledger: %w", err)
	}
	return &ledger, nil
}

// ListBurnHistory retrieves the most recent daily buckets, newest first.
func (r *PgxBurnRepository) ListBurnHistory(ctx context.Context, days int) ([]domain.BurnBucket, error) {
	query := `
		SELECT day, contribution_burn, creation_burn, success_burn, forfeit_burn, total_burn, campaigns_created, contributions_made
		FROM burn_buckets
		ORDER BY day DESC
		LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query burn history: %w", err)
	}
	defer rows.Close()

	buckets := []domain.BurnBucket{}
	for rows.Next() {
		var b domain.BurnBucket
		if err := rows.Scan(
			&b.Date,
			&b.ContributionBurn,
			&b.CreationBurn,
			&b.SuccessBurn,
			&b.ForfeitBurn,
			&b.TotalBurn,
			&b.CampaignsCreated,
			&b.ContributionsMade,
		); err != nil {
			return nil, fmt.Errorf("failed to scan burn bucket row: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating burn bucket rows: %w", err)
	}
	return buckets, nil
}
