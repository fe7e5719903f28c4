package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

const accountColumns = `address, balance, lifetime_contributed, lifetime_burned, contribution_count, first_contribution_at, created_at, last_updated_at, version`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.Address,
		&acc.Balance,
		&acc.LifetimeContributed,
		&acc.LifetimeBurned,
		&acc.ContributionCount,
		&acc.FirstContributionAt,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
		&acc.Version,
	)
	return acc, err
}

// FindAccountByAddress retrieves an account by its wallet address.
func (r *PgxAccountRepository) FindAccountByAddress(ctx context.Context, address string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE address = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, address)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", address, err)
	}
	return &acc, nil
}

// ListAccounts retrieves accounts ordered by address, paginated.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY address LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	return accounts, nil
}
