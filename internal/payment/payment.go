package payment

import (
	"context"
	"errors"
)

// Event types the storefront reacts to.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// ErrNotConfigured is returned when gateway credentials are missing.
var ErrNotConfigured = errors.New("payment gateway not configured")

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// SessionInput describes a hosted checkout for a single invoice.
type SessionInput struct {
	InvoiceID   string
	OrderID     string
	UserID      string
	AmountCents int64
	SuccessURL  string
	CancelURL   string
}

// Session is the gateway's view of a hosted checkout.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url,omitempty"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	InvoiceID     string `json:"invoiceId,omitempty"`
}

// Event is a verified webhook notification.
type Event struct {
	ID      string
	Type    string
	Session *Session
}

// Gateway creates hosted checkouts and verifies their webhooks.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, in SessionInput) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
