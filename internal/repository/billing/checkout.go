package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	cartrepo "webhost-storefront/internal/repository/cart"
)

func (r *postgresRepo) PlaceOrder(ctx context.Context, userID string, now time.Time) (*domain.Order, *domain.Invoice, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.Invalid("cart is empty")
		}
		return nil, nil, fmt.Errorf("lock cart: %w", err)
	}

	items, err := cartrepo.Items(ctx, tx, cartID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, domain.Invalid("cart is empty")
	}
	total := domain.SumItems(items)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, nil, err
	}
	order, err := scanOrder(tx.QueryRow(ctx, `
INSERT INTO orders AS o (user_id, items, total_cents, status)
VALUES ($1, $2, $3, 'pending')
RETURNING `+orderColumns, userID, itemsJSON, total), false)
	if err != nil {
		return nil, nil, fmt.Errorf("insert order: %w", err)
	}

	invoice, err := scanInvoice(tx.QueryRow(ctx, `
INSERT INTO invoices AS i (order_id, user_id, amount_cents, status, due_date)
VALUES ($1, $2, $3, 'unpaid', $4)
RETURNING `+invoiceColumns, order.ID, userID, total, now.Add(domain.InvoiceDueAfter)), false)
	if err != nil {
		return nil, nil, fmt.Errorf("insert invoice: %w", err)
	}

	for _, it := range items {
		if it.ItemType != domain.ItemDomain {
			continue
		}
		period := it.RegistrationPeriod
		if period <= 0 {
			period = 1
		}
		cmd, err := tx.Exec(ctx, `
UPDATE domains
SET status = 'registered', user_id = $2, expiry_date = $3, updated_at = now()
WHERE id = $1 AND status = 'pending'`, it.ItemID, userID, now.AddDate(period, 0, 0))
		if err != nil {
			return nil, nil, fmt.Errorf("register domain %s: %w", it.Name, err)
		}
		if cmd.RowsAffected() == 0 {
			return nil, nil, domain.Invalid("domain %s is no longer pending registration", it.Name)
		}
	}

	if err := cartrepo.ClearItems(ctx, tx, cartID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"invoice_id": invoice.ID,
		"user_id":    userID,
		"total":      total,
	}).Info("billing repo: order placed")
	return order, invoice, nil
}
