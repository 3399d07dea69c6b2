package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/grantscope/docintake/internal/domain/grants"
)

type GrantRepository struct{ db *sql.DB }

func NewGrantRepository(db *sql.DB) *GrantRepository { return &GrantRepository{db: db} }

// Save insert/update Grant record
func (r *GrantRepository) Save(ctx context.Context, g *domain.Grant) error {
	const q = `
INSERT INTO grants
(id, tenant_id, title, funder, amount, deadline, source_name, source_url, discovered_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
 title = EXCLUDED.title,
 funder = EXCLUDED.funder,
 amount = EXCLUDED.amount,
 deadline = EXCLUDED.deadline,
 source_url = EXCLUDED.source_url;`

	discovered := g.DiscoveredAt
	if discovered.IsZero() {
		discovered = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		g.ID, stringOrDash(g.TenantID), g.Title, g.Funder, g.Amount,
		g.Deadline, g.SourceName, g.SourceURL, discovered,
	)
	return err
}

// Latest grants per tenant
func (r *GrantRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Grant, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, title, funder, amount, deadline, source_name, source_url, discovered_at
FROM grants
WHERE tenant_id=$1 ORDER BY discovered_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Grant
	for rows.Next() {
		var g domain.Grant
		if err := rows.Scan(
			&g.ID, &g.TenantID, &g.Title, &g.Funder, &g.Amount,
			&g.Deadline, &g.SourceName, &g.SourceURL, &g.DiscoveredAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// CountSince counts grants discovered in the last N days
func (r *GrantRepository) CountSince(ctx context.Context, tenant string, sinceDays int) (int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grants WHERE tenant_id=$1 AND discovered_at >= $2;`,
		tenant, cut,
	).Scan(&n)
	return n, err
}
