package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"webhost-storefront/internal/requestid"
)

const (
	Exchange              = "webhost.events"
	OrderPlacedRoutingKey = "order.placed.v1"
	InvoicePaidRoutingKey = "invoice.paid.v1"
	EventTypeOrderPlaced  = "OrderPlaced"
	EventTypeInvoicePaid  = "InvoicePaid"
	producerName          = "webhost-api"
)

// Envelope wraps every published payload.
type Envelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlaced struct {
	OrderID    string    `json:"orderId"`
	InvoiceID  string    `json:"invoiceId"`
	UserID     string    `json:"userId"`
	TotalCents int64     `json:"totalCents"`
	ItemCount  int       `json:"itemCount"`
	Domains    []string  `json:"domains,omitempty"`
	PlacedAt   time.Time `json:"placedAt"`
}

type InvoicePaid struct {
	InvoiceID   string    `json:"invoiceId"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amountCents"`
	PaidAt      time.Time `json:"paidAt"`
}

// Publisher emits domain events. Delivery is best effort.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	PublishInvoicePaid(ctx context.Context, ev InvoicePaid) error
	Close() error
}

func newEnvelope(ctx context.Context, name, partitionKey string, payload any, now time.Time) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventName:     name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: requestid.From(ctx),
		Producer:      producerName,
		PartitionKey:  partitionKey,
		OccurredAt:    now.UTC(),
		Payload:       body,
	}, nil
}

// Noop discards events; used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (Noop) PublishInvoicePaid(context.Context, InvoicePaid) error { return nil }
func (Noop) Close() error                                          { return nil }
