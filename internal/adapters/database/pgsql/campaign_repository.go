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

type PgxCampaignRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCampaignRepository creates a new repository for campaign and milestone data.
func NewPgxCampaignRepository(pool *pgxpool.Pool) *PgxCampaignRepository {
	return &PgxCampaignRepository{pool: pool}
}

const campaignColumns = `campaign_id, creator, category, goal, starts_at, ends_at, status, current_milestone,
	total_contributed, total_released, total_refunded, total_deposited, deposits_returned, total_forfeited, total_burned,
	created_at, last_updated_at, version`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.CampaignID,
		&c.Creator,
		&c.Category,
		&c.Goal,
		&c.StartsAt,
		&c.EndsAt,
		&c.Status,
		&c.CurrentMilestone,
		&c.TotalContributed,
		&c.TotalReleased,
		&c.TotalRefunded,
		&c.TotalDeposited,
		&c.DepositsReturned,
		&c.TotalForfeited,
		&c.TotalBurned,
		&c.CreatedAt,
		&c.LastUpdatedAt,
		&c.Version,
	)
	return c, err
}

// FindCampaignByID retrieves a campaign with its embedded milestones.
func (r *PgxCampaignRepository) FindCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE campaign_id = $1;`
	c, err := scanCampaign(r.pool.QueryRow(ctx, query, campaignID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: campaign %s", apperrors.ErrNotFound, campaignID)
		}
		return nil, fmt.Errorf("failed to find campaign %s: %w", campaignID, err)
	}
	if c.Milestones, err = r.findMilestones(ctx, campaignID); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCampaigns retrieves campaigns ordered by creation time, newest first.
func (r *PgxCampaignRepository) ListCampaigns(ctx context.Context, limit int, offset int) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC, campaign_id LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating campaign rows: %w", err)
	}
	for i := range campaigns {
		if campaigns[i].Milestones, err = r.findMilestones(ctx, campaigns[i].CampaignID); err != nil {
			return nil, err
		}
	}
	return campaigns, nil
}

func (r *PgxCampaignRepository) findMilestones(ctx context.Context, campaignID string) ([]domain.Milestone, error) {
	query := `
		SELECT milestone_index, target, required_deposit, escrow, deposit, status, proof_ref, verified
		FROM milestones
		WHERE campaign_id = $1
		ORDER BY milestone_index;
	`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones for campaign %s: %w", campaignID, err)
	}
	defer rows.Close()

	milestones := []domain.Milestone{}
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(
			&m.Index,
			&m.Target,
			&m.RequiredDeposit,
			&m.Escrow,
			&m.Deposit,
			&m.Status,
			&m.ProofRef,
			&m.Verified,
		); err != nil {
			return nil, fmt.Errorf("failed to scan milestone row for campaign %s: %w", campaignID, err)
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating milestone rows for campaign %s: %w", campaignID, err)
	}
	return milestones, nil
}
