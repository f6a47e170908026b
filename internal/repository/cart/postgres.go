package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
)

type postgresRepo struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const ensureCartQuery = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
RETURNING id::text
`

func (r *postgresRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	var cartID string
	if err := r.pool.QueryRow(ctx, ensureCartQuery, userID).Scan(&cartID); err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}
	return Fetch(ctx, r.pool, cartID)
}

func (r *postgresRepo) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	if err := tx.QueryRow(ctx, ensureCartQuery, userID).Scan(&cartID); err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, item_type, item_id, name, price_cents, billing_cycle, registration_period)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, cartID, string(item.ItemType), item.ItemID, item.Name, item.PriceCents, string(item.BillingCycle), item.RegistrationPeriod); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}

	if err := RecomputeTotal(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return Fetch(ctx, r.pool, cartID)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, itemID string) ([]domain.CartItem, *domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := tx.Query(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND item_id = $2
RETURNING item_type, item_id::text, name, price_cents, billing_cycle, registration_period
`, cartID, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("delete cart items: %w", err)
	}
	removed, err := collectItems(rows)
	if err != nil {
		return nil, nil, err
	}
	if len(removed) == 0 {
		return nil, nil, domain.ErrNotFound
	}

	if err := RecomputeTotal(ctx, tx, cartID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	cart, err := Fetch(ctx, r.pool, cartID)
	if err != nil {
		return nil, nil, err
	}
	return removed, cart, nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if err := ClearItems(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Fetch loads a cart and its items.
func Fetch(ctx context.Context, q db.Querier, cartID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := q.QueryRow(ctx, `
SELECT id::text, user_id::text, total_cents, created_at, updated_at
FROM carts
WHERE id = $1
`, cartID).Scan(&cart.ID, &cart.UserID, &cart.TotalCents, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := Items(ctx, q, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

// Items returns the cart's items in insertion order.
func Items(ctx context.Context, q db.Querier, cartID string) ([]domain.CartItem, error) {
	rows, err := q.Query(ctx, `
SELECT item_type, item_id::text, name, price_cents, billing_cycle, registration_period
FROM cart_items
WHERE cart_id = $1
ORDER BY id ASC
`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return collectItems(rows)
}

// ClearItems empties the cart and zeroes its total.
func ClearItems(ctx context.Context, q db.Querier, cartID string) error {
	if _, err := q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	if _, err := q.Exec(ctx, `UPDATE carts SET total_cents = 0, updated_at = now() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("reset cart total: %w", err)
	}
	return nil
}

// RecomputeTotal sets the cart total to the sum of its item prices.
func RecomputeTotal(ctx context.Context, q db.Querier, cartID string) error {
	_, err := q.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(price_cents)
	FROM cart_items
	WHERE cart_id = $1
), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	if err != nil {
		return fmt.Errorf("recompute cart total: %w", err)
	}
	return nil
}

func collectItems(rows pgx.Rows) ([]domain.CartItem, error) {
	defer rows.Close()
	items := []domain.CartItem{}
	for rows.Next() {
		var it domain.CartItem
		var typ, cycle string
		if err := rows.Scan(&typ, &it.ItemID, &it.Name, &it.PriceCents, &cycle, &it.RegistrationPeriod); err != nil {
			return nil, err
		}
		it.ItemType = domain.ItemType(typ)
		it.BillingCycle = domain.BillingCycle(cycle)
		items = append(items, it)
	}
	return items, rows.Err()
}
