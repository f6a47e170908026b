package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
)

const (
	orderColumns   = `o.id::text, o.user_id::text, o.items, o.total_cents, o.status, o.created_at, o.updated_at`
	invoiceColumns = `i.id::text, i.order_id::text, i.user_id::text, i.amount_cents, i.status, i.due_date, i.paid_at, i.created_at, i.updated_at`
)

type postgresRepo struct {
	pool   db.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool db.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

func scanOrder(row pgx.Row, withUser bool) (*domain.Order, error) {
	var o domain.Order
	var items []byte
	var status string
	dest := []any{&o.ID, &o.UserID, &items, &o.TotalCents, &status, &o.CreatedAt, &o.UpdatedAt}
	var name, email string
	if withUser {
		dest = append(dest, &name, &email)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.Items = []domain.CartItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items id=%s: %w", o.ID, err)
		}
	}
	if withUser {
		o.User = &domain.UserSummary{ID: o.UserID, Name: name, Email: email}
	}
	return &o, nil
}

func scanInvoice(row pgx.Row, withUser bool) (*domain.Invoice, error) {
	var inv domain.Invoice
	var status string
	dest := []any{&inv.ID, &inv.OrderID, &inv.UserID, &inv.AmountCents, &status, &inv.DueDate, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt}
	var name, email string
	if withUser {
		dest = append(dest, &name, &email)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	inv.Status = domain.InvoiceStatus(status)
	if withUser {
		inv.User = &domain.UserSummary{ID: inv.UserID, Name: name, Email: email}
	}
	return &inv, nil
}

func collectOrders(rows pgx.Rows, withUser bool) ([]domain.Order, error) {
	defer rows.Close()
	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows, withUser)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func collectInvoices(rows pgx.Rows, withUser bool) ([]domain.Invoice, error) {
	defer rows.Close()
	out := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows, withUser)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}
