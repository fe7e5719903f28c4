package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
)

type PgxEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgxEventRepository creates a new repository over the append-only event log.
func NewPgxEventRepository(pool *pgxpool.Pool) *PgxEventRepository {
	return &PgxEventRepository{pool: pool}
}

// ListEvents returns matching events in ascending sequence order.
func (r *PgxEventRepository) ListEvents(ctx context.Context, filter portsrepo.EventFilter) ([]domain.Event, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT sequence, event_id, kind, campaign_id, account, milestone_index, gross, burn, net, proof_ref, outcome, definition, occurred_at
		FROM events
		WHERE 1=1`)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.CampaignID != "" {
		sb.WriteString(" AND campaign_id = " + arg(filter.CampaignID))
	}
	if filter.Account != "" {
		sb.WriteString(" AND account = " + arg(filter.Account))
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		sb.WriteString(" AND kind = ANY(" + arg(kinds) + ")")
	}
	if filter.MilestoneIndex != nil {
		sb.WriteString(" AND milestone_index = " + arg(*filter.MilestoneIndex))
	}
	if !filter.Since.IsZero() {
		sb.WriteString(" AND occurred_at >= " + arg(filter.Since))
	}
	if filter.AfterSequence > 0 {
		sb.WriteString(" AND sequence > " + arg(filter.AfterSequence))
	}
	sb.WriteString(" ORDER BY sequence;")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		var campaignID, account, proofRef *string
		if err := rows.Scan(
			&e.Sequence,
			&e.EventID,
			&e.Kind,
			&campaignID,
			&account,
			&e.MilestoneIndex,
			&e.Gross,
			&e.Burn,
			&e.Net,
			&proofRef,
			&e.Outcome,
			&e.Definition,
			&e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		if campaignID != nil {
			e.CampaignID = *campaignID
		}
		if account != nil {
			e.Account = *account
		}
		if proofRef != nil {
			e.ProofRef = *proofRef
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating event rows: %w", err)
	}
	return events, nil
}
