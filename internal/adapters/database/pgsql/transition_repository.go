package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/fundtires/ledger_backend/internal/core/domain"
)

type PgxTransitionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransitionRepository creates a new writer for atomic ledger transitions.
func NewPgxTransitionRepository(pool *pgxpool.Pool) *PgxTransitionRepository {
	return &PgxTransitionRepository{pool: pool}
}

// SaveTransition persists a complete transition within a single DB transaction.
// Version checks are compare-and-set: an UPDATE that matches zero rows means a
// concurrent writer won, and the whole transition rolls back with ErrConflict.
func (r *PgxTransitionRepository) SaveTransition(ctx context.Context, change domain.StateChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if change.Campaign != nil {
		if err := saveCampaign(ctx, tx, change.Campaign); err != nil {
			return err
		}
	}
	for _, acc := range change.Accounts {
		if err := saveAccount(ctx, tx, acc); err != nil {
			return err
		}
	}
	if change.Burn != nil {
		if err := applyBurnDelta(ctx, tx, change); err != nil {
			return err
		}
	}
	for i := range change.Events {
		if err := appendEvent(ctx, tx, &change.Events[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}
	return nil
}

func saveCampaign(ctx context.Context, tx pgx.Tx, c *domain.Campaign) error {
	if c.Version == 1 {
		insert := `
			INSERT INTO campaigns (campaign_id, creator, category, goal, starts_at, ends_at, status, current_milestone,
				total_contributed, total_released, total_refunded, total_deposited, deposits_returned, total_forfeited, total_burned,
				created_at, last_updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (campaign_id) DO NOTHING;
		`
		tag, err := tx.Exec(ctx, insert,
			c.CampaignID, c.Creator, c.Category, c.Goal, c.StartsAt, c.EndsAt, c.Status, c.CurrentMilestone,
			c.TotalContributed, c.TotalReleased, c.TotalRefunded, c.TotalDeposited, c.DepositsReturned, c.TotalForfeited, c.TotalBurned,
			c.CreatedAt, c.LastUpdatedAt, c.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert campaign %s: %w", c.CampaignID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: campaign %s already exists", apperrors.ErrConflict, c.CampaignID)
		}
	} else {
		update := `
			UPDATE campaigns SET status = $2, current_milestone = $3,
				total_contributed = $4, total_released = $5, total_refunded = $6,
				total_deposited = $7, deposits_returned = $8, total_forfeited = $9, total_burned = $10,
				last_updated_at = $11, version = $12
			WHERE campaign_id = $1 AND version = $12 - 1;
		`
		tag, err := tx.Exec(ctx, update,
			c.CampaignID, c.Status, c.CurrentMilestone,
			c.TotalContributed, c.TotalReleased, c.TotalRefunded,
			c.TotalDeposited, c.DepositsReturned, c.TotalForfeited, c.TotalBurned,
			c.LastUpdatedAt, c.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update campaign %s: %w", c.CampaignID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: campaign %s version mismatch", apperrors.ErrConflict, c.CampaignID)
		}
	}

	upsert := `
		INSERT INTO milestones (campaign_id, milestone_index, target, required_deposit, escrow, deposit, status, proof_ref, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (campaign_id, milestone_index) DO UPDATE SET
			escrow = EXCLUDED.escrow, deposit = EXCLUDED.deposit, status = EXCLUDED.status,
			proof_ref = EXCLUDED.proof_ref, verified = EXCLUDED.verified;
	`
	batch := &pgx.Batch{}
	for _, m := range c.Milestones {
		batch.Queue(upsert, c.CampaignID, m.Index, m.Target, m.RequiredDeposit, m.Escrow, m.Deposit, m.Status, m.ProofRef, m.Verified)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert milestones for campaign %s: %w", c.CampaignID, err)
	}
	return nil
}

func saveAccount(ctx context.Context, tx pgx.Tx, acc domain.Account) error {
	if acc.Version == 1 {
		insert := `
			INSERT INTO accounts (address, balance, lifetime_contributed, lifetime_burned, contribution_count, first_contribution_at, created_at, last_updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (address) DO NOTHING;
		`
		tag, err := tx.Exec(ctx, insert,
			acc.Address, acc.Balance, acc.LifetimeContributed, acc.LifetimeBurned,
			acc.ContributionCount, acc.FirstContributionAt, acc.CreatedAt, acc.LastUpdatedAt, acc.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", acc.Address, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrConflict, acc.Address)
		}
		return nil
	}
	update := `
		UPDATE accounts SET balance = $2, lifetime_contributed = $3, lifetime_burned = $4,
			contribution_count = $5, first_contribution_at = $6, last_updated_at = $7, version = $8
		WHERE address = $1 AND version = $8 - 1;
	`
	tag, err := tx.Exec(ctx, update,
		acc.Address, acc.Balance, acc.LifetimeContributed, acc.LifetimeBurned,
		acc.ContributionCount, acc.FirstContributionAt, acc.LastUpdatedAt, acc.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", acc.Address, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s version mismatch", apperrors.ErrConflict, acc.Address)
	}
	return nil
}

func applyBurnDelta(ctx context.Context, tx pgx.Tx, change domain.StateChange) error {
	d := change.Burn
	updatedAt := d.Day
	if len(change.Events) > 0 {
		updatedAt = change.Events[len(change.Events)-1].Timestamp
	}
	ledger := `
		INSERT INTO burn_ledger (id, total_burned, last_updated_at, version)
		VALUES (1, $1, $2, 1)
		ON CONFLICT (id) DO UPDATE SET
			total_burned = burn_ledger.total_burned + EXCLUDED.total_burned,
			last_updated_at = EXCLUDED.last_updated_at,
			version = burn_ledger.version + 1;
	`
	if _, err := tx.Exec(ctx, ledger, d.Total(), updatedAt); err != nil {
		return fmt.Errorf("failed to update burn ledger: %w", err)
	}

	bucket := `
		INSERT INTO burn_buckets (day, contribution_burn, creation_burn, success_burn, forfeit_burn, total_burn, campaigns_created, contributions_made)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (day) DO UPDATE SET
			contribution_burn = burn_buckets.contribution_burn + EXCLUDED.contribution_burn,
			creation_burn = burn_buckets.creation_burn + EXCLUDED.creation_burn,
			success_burn = burn_buckets.success_burn + EXCLUDED.success_burn,
			forfeit_burn = burn_buckets.forfeit_burn + EXCLUDED.forfeit_burn,
			total_burn = burn_buckets.total_burn + EXCLUDED.total_burn,
			campaigns_created = burn_buckets.campaigns_created + EXCLUDED.campaigns_created,
			contributions_made = burn_buckets.contributions_made + EXCLUDED.contributions_made;
	`
	if _, err := tx.Exec(ctx, bucket,
		d.Day, d.Contribution, d.Creation, d.Success, d.Forfeit, d.Total(), d.CampaignsCreated, d.ContributionsMade,
	); err != nil {
		return fmt.Errorf("failed to update burn bucket: %w", err)
	}
	return nil
}

func appendEvent(ctx context.Context, tx pgx.Tx, e *domain.Event) error {
	insert := `
		INSERT INTO events (event_id, kind, campaign_id, account, milestone_index, gross, burn, net, proof_ref, outcome, definition, occurred_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12)
		RETURNING sequence;
	`
	err := tx.QueryRow(ctx, insert,
		e.EventID, e.Kind, e.CampaignID, e.Account, e.MilestoneIndex,
		e.Gross, e.Burn, e.Net, e.ProofRef, e.Outcome, e.Definition, e.Timestamp,
	).Scan(&e.Sequence)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", e.EventID, err)
	}
	return nil
}
