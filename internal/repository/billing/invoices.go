package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
)

func (r *postgresRepo) ListInvoicesByUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+invoiceColumns+`
FROM invoices i
WHERE i.user_id = $1
ORDER BY i.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user invoices: %w", err)
	}
	return collectInvoices(rows, false)
}

func (r *postgresRepo) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+invoiceColumns+`, u.name, u.email
FROM invoices i
JOIN users u ON u.id = i.user_id
ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return collectInvoices(rows, true)
}

func (r *postgresRepo) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx, `
SELECT `+invoiceColumns+`, u.name, u.email
FROM invoices i
JOIN users u ON u.id = i.user_id
WHERE i.id = $1`, id), true)
}

func (r *postgresRepo) SetInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var paidAt *time.Time
	if status == domain.InvoicePaid {
		now := time.Now().UTC()
		paidAt = &now
	}
	inv, err := scanInvoice(tx.QueryRow(ctx, `
UPDATE invoices AS i
SET status = $2,
    paid_at = CASE WHEN $3::timestamptz IS NULL THEN NULL ELSE COALESCE(i.paid_at, $3::timestamptz) END,
    updated_at = now()
WHERE i.id = $1
RETURNING `+invoiceColumns, id, string(status), paidAt), false)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.InvoicePaid:
		_, err = tx.Exec(ctx, `UPDATE orders SET status = 'paid', updated_at = now() WHERE id = $1`, inv.OrderID)
	case domain.InvoiceUnpaid:
		_, err = tx.Exec(ctx, `UPDATE orders SET status = 'pending', updated_at = now() WHERE id = $1 AND status = 'paid'`, inv.OrderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sync order for invoice %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"invoice_id": id, "status": status}).Info("billing repo: invoice status updated")
	return r.GetInvoice(ctx, id)
}

func (r *postgresRepo) SettleInvoice(ctx context.Context, eventID, eventType, invoiceID string, paidAt time.Time) (*domain.Invoice, bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	inv, err := scanInvoice(tx.QueryRow(ctx, `
UPDATE invoices AS i
SET status = 'paid', paid_at = COALESCE(i.paid_at, $2), updated_at = now()
WHERE i.id = $1
RETURNING `+invoiceColumns, invoiceID, paidAt), false)
	if err != nil {
		return nil, false, err
	}

	cmd, err := tx.Exec(ctx, `
INSERT INTO payment_events (event_id, event_type, invoice_id)
VALUES ($1, $2, $3)
ON CONFLICT (event_id) DO NOTHING`, eventID, eventType, invoiceID)
	if err != nil {
		return nil, false, fmt.Errorf("record payment event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		r.logger.WithField("event_id", eventID).Info("billing repo: duplicate payment event skipped")
		return inv, false, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = 'paid', updated_at = now() WHERE id = $1`, inv.OrderID); err != nil {
		return nil, false, fmt.Errorf("mark order paid: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return inv, true, nil
}
