package billing

import (
	"context"
	"time"

	"webhost-storefront/internal/domain"
)

type Repository interface {
	// PlaceOrder turns the user's cart into a pending order with an unpaid
	// invoice, registers pending domains and empties the cart, atomically.
	PlaceOrder(ctx context.Context, userID string, now time.Time) (*domain.Order, *domain.Invoice, error)

	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrderForUser(ctx context.Context, userID, id string) (*domain.Order, error)
	ListInvoicesByUser(ctx context.Context, userID string) ([]domain.Invoice, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)

	// SetOrderStatus updates the order and keeps its invoice in step.
	SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	// SetInvoiceStatus updates the invoice and keeps its order in step.
	SetInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error)

	// SettleInvoice marks the invoice and its order paid on behalf of a
	// gateway event. It reports false without changing anything when the
	// event id was already processed.
	SettleInvoice(ctx context.Context, eventID, eventType, invoiceID string, paidAt time.Time) (*domain.Invoice, bool, error)
}
