package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/domain"
)

const hostingColumns = `id::text, name, description, price_cents, billing_cycle, resources, created_at, updated_at`

func (r *postgresRepo) ListHosting(ctx context.Context) ([]domain.HostingPlan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+hostingColumns+` FROM hosting_plans ORDER BY price_cents ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list hosting plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.HostingPlan{}
	for rows.Next() {
		p, err := scanHosting(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (r *postgresRepo) GetHosting(ctx context.Context, id string) (*domain.HostingPlan, error) {
	p, err := scanHosting(r.pool.QueryRow(ctx, `SELECT `+hostingColumns+` FROM hosting_plans WHERE id = $1`, id))
	return p, translate(err)
}

func (r *postgresRepo) CreateHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error) {
	res, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO hosting_plans (name, description, price_cents, billing_cycle, resources)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + hostingColumns
	out, err := scanHosting(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.PriceCents, string(p.BillingCycle), res))
	return out, translate(err)
}

func (r *postgresRepo) UpdateHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error) {
	res, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE hosting_plans
SET name = $2, description = $3, price_cents = $4, billing_cycle = $5, resources = $6, updated_at = now()
WHERE id = $1
RETURNING ` + hostingColumns
	out, err := scanHosting(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.PriceCents, string(p.BillingCycle), res))
	return out, translate(err)
}

func (r *postgresRepo) DeleteHosting(ctx context.Context, id string) error {
	return r.deleteFrom(ctx, "hosting_plans", id)
}

func (r *postgresRepo) UpsertHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error) {
	res, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO hosting_plans (name, description, price_cents, billing_cycle, resources)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    billing_cycle = EXCLUDED.billing_cycle,
    resources = EXCLUDED.resources,
    updated_at = now()
RETURNING ` + hostingColumns
	out, err := scanHosting(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.PriceCents, string(p.BillingCycle), res))
	if err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("catalog repo: upsert hosting")
		return nil, translate(err)
	}
	return out, nil
}

func scanHosting(row pgx.Row) (*domain.HostingPlan, error) {
	var p domain.HostingPlan
	var cycle string
	var res []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &cycle, &res, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.BillingCycle = domain.BillingCycle(cycle)
	if len(res) > 0 {
		if err := json.Unmarshal(res, &p.Resources); err != nil {
			return nil, fmt.Errorf("decode hosting resources id=%s: %w", p.ID, err)
		}
	}
	return &p, nil
}
