package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/domain"
)

const addonColumns = `id::text, name, description, price_cents, billing_cycle, type, created_at, updated_at`

func (r *postgresRepo) ListAddons(ctx context.Context) ([]domain.Addon, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+addonColumns+` FROM addons ORDER BY price_cents ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	defer rows.Close()

	addons := []domain.Addon{}
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		addons = append(addons, *a)
	}
	return addons, rows.Err()
}

func (r *postgresRepo) GetAddon(ctx context.Context, id string) (*domain.Addon, error) {
	a, err := scanAddon(r.pool.QueryRow(ctx, `SELECT `+addonColumns+` FROM addons WHERE id = $1`, id))
	return a, translate(err)
}

func (r *postgresRepo) CreateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	q := `
INSERT INTO addons (name, description, price_cents, billing_cycle, type)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + addonColumns
	out, err := scanAddon(r.pool.QueryRow(ctx, q, a.Name, a.Description, a.PriceCents, string(a.BillingCycle), string(a.Type)))
	return out, translate(err)
}

func (r *postgresRepo) UpdateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	q := `
UPDATE addons
SET name = $2, description = $3, price_cents = $4, billing_cycle = $5, type = $6, updated_at = now()
WHERE id = $1
RETURNING ` + addonColumns
	out, err := scanAddon(r.pool.QueryRow(ctx, q, a.ID, a.Name, a.Description, a.PriceCents, string(a.BillingCycle), string(a.Type)))
	return out, translate(err)
}

func (r *postgresRepo) DeleteAddon(ctx context.Context, id string) error {
	return r.deleteFrom(ctx, "addons", id)
}

func (r *postgresRepo) UpsertAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	q := `
INSERT INTO addons (name, description, price_cents, billing_cycle, type)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    billing_cycle = EXCLUDED.billing_cycle,
    type = EXCLUDED.type,
    updated_at = now()
RETURNING ` + addonColumns
	out, err := scanAddon(r.pool.QueryRow(ctx, q, a.Name, a.Description, a.PriceCents, string(a.BillingCycle), string(a.Type)))
	if err != nil {
		r.logger.WithError(err).WithField("name", a.Name).Error("catalog repo: upsert addon")
		return nil, translate(err)
	}
	return out, nil
}

func scanAddon(row pgx.Row) (*domain.Addon, error) {
	var a domain.Addon
	var cycle, typ string
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.PriceCents, &cycle, &typ, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.BillingCycle = domain.BillingCycle(cycle)
	a.Type = domain.AddonType(typ)
	return &a, nil
}
