package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/domain"
)

const wordpressColumns = `id::text, name, price_cents, billing_cycle, resources, created_at, updated_at`

func (r *postgresRepo) ListWordpress(ctx context.Context) ([]domain.WordpressPlan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+wordpressColumns+` FROM wordpress_plans ORDER BY price_cents ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list wordpress plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.WordpressPlan{}
	for rows.Next() {
		p, err := scanWordpress(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (r *postgresRepo) GetWordpress(ctx context.Context, id string) (*domain.WordpressPlan, error) {
	p, err := scanWordpress(r.pool.QueryRow(ctx, `SELECT `+wordpressColumns+` FROM wordpress_plans WHERE id = $1`, id))
	return p, translate(err)
}

func (r *postgresRepo) CreateWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error) {
	res, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO wordpress_plans (name, price_cents, billing_cycle, resources)
VALUES ($1, $2, $3, $4)
RETURNING ` + wordpressColumns
	out, err := scanWordpress(r.pool.QueryRow(ctx, q, p.Name, p.PriceCents, string(p.BillingCycle), res))
	return out, translate(err)
}

func (r *postgresRepo) UpdateWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error) {
	res, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE wordpress_plans
SET name = $2, price_cents = $3, billing_cycle = $4, resources = $5, updated_at = now()
WHERE id = $1
RETURNING ` + wordpressColumns
	out, err := scanWordpress(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.PriceCents, string(p.BillingCycle), res))
	return out, translate(err)
}

func (r *postgresRepo) DeleteWordpress(ctx context.Context, id string) error {
	return r.deleteFrom(ctx, "wordpress_plans", id)
}

func (r *postgresRepo) UpsertWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error) {
	res, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO wordpress_plans (name, price_cents, billing_cycle, resources)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE SET
    price_cents = EXCLUDED.price_cents,
    billing_cycle = EXCLUDED.billing_cycle,
    resources = EXCLUDED.resources,
    updated_at = now()
RETURNING ` + wordpressColumns
	out, err := scanWordpress(r.pool.QueryRow(ctx, q, p.Name, p.PriceCents, string(p.BillingCycle), res))
	if err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("catalog repo: upsert wordpress")
		return nil, translate(err)
	}
	return out, nil
}

func scanWordpress(row pgx.Row) (*domain.WordpressPlan, error) {
	var p domain.WordpressPlan
	var cycle string
	var res []byte
	if err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &cycle, &res, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.BillingCycle = domain.BillingCycle(cycle)
	if len(res) > 0 {
		if err := json.Unmarshal(res, &p.Resources); err != nil {
			return nil, fmt.Errorf("decode wordpress resources id=%s: %w", p.ID, err)
		}
	}
	return &p, nil
}
