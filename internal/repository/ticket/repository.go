package ticket

import (
	"context"

	"webhost-storefront/internal/domain"
)

// Filter narrows staff ticket listings. The zero value matches all tickets.
type Filter struct {
	Status    domain.TicketStatus
	NotStatus domain.TicketStatus
}

type Repository interface {
	// Create stores the ticket with its first message.
	Create(ctx context.Context, t domain.Ticket, first domain.TicketMessage) (*domain.Ticket, error)
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	List(ctx context.Context, f Filter) ([]domain.Ticket, error)
	// AppendMessage adds a message and moves the ticket to status. The
	// write is refused with an invalid-input error when the ticket is closed.
	AppendMessage(ctx context.Context, id string, msg domain.TicketMessage, status domain.TicketStatus) (*domain.Ticket, error)
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}
