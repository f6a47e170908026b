package billing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
)

func (r *postgresRepo) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+`
FROM orders o
WHERE o.user_id = $1
ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return collectOrders(rows, false)
}

func (r *postgresRepo) GetOrderForUser(ctx context.Context, userID, id string) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
SELECT `+orderColumns+`
FROM orders o
WHERE o.id = $1 AND o.user_id = $2`, id, userID), false)
}

func (r *postgresRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+`, u.name, u.email
FROM orders o
JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows, true)
}

func (r *postgresRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
SELECT `+orderColumns+`, u.name, u.email
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.id = $1`, id), true)
}

func (r *postgresRepo) SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := scanOrder(tx.QueryRow(ctx, `
UPDATE orders AS o
SET status = $2, updated_at = now()
WHERE o.id = $1
RETURNING `+orderColumns, id, string(status)), false); err != nil {
		return nil, err
	}

	switch status {
	case domain.OrderPaid:
		_, err = tx.Exec(ctx, `
UPDATE invoices
SET status = 'paid', paid_at = COALESCE(paid_at, now()), updated_at = now()
WHERE order_id = $1`, id)
	case domain.OrderCancelled:
		_, err = tx.Exec(ctx, `
UPDATE invoices
SET status = 'unpaid', paid_at = NULL, updated_at = now()
WHERE order_id = $1`, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sync invoice for order %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("billing repo: order status updated")
	return r.GetOrder(ctx, id)
}
