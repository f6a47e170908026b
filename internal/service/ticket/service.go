package ticket

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
	ticketrepo "webhost-storefront/internal/repository/ticket"
)

var errTicketNotFound = domain.Errorf(domain.ErrNotFound, "ticket not found")

// Service runs the customer and support sides of the helpdesk.
type Service struct {
	repo   ticketrepo.Repository
	logger logrus.FieldLogger
}

func New(repo ticketrepo.Repository, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, logger: logging.OrDiscard(logger)}
}

type OpenInput struct {
	Subject    string            `json:"subject"`
	Department domain.Department `json:"department"`
	Message    string            `json:"message"`
}

// Open files a new ticket for userID with its first message.
func (s *Service) Open(ctx context.Context, userID string, in OpenInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)
	if subject == "" || message == "" {
		return nil, domain.Invalid("subject and message required")
	}
	dept := domain.Department(strings.ToLower(strings.TrimSpace(string(in.Department))))
	if dept == "" {
		dept = domain.DeptGeneral
	}
	if !dept.Valid() {
		return nil, domain.Invalid("invalid department %q", in.Department)
	}

	t, err := s.repo.Create(ctx, domain.Ticket{
		UserID:     userID,
		Status:     domain.TicketOpen,
		Subject:    subject,
		Department: dept,
	}, domain.TicketMessage{Sender: domain.SenderUser, Message: message})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"ticket_id": t.ID, "department": dept}).Info("tickets: opened")
	return t, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AddMessage appends a message from user. Staff messages move the ticket to
// pending; customer messages (re)open it.
func (s *Service) AddMessage(ctx context.Context, user *domain.User, ticketID, message string) (*domain.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.Invalid("message required")
	}
	t, err := s.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	staff := user.Role.Staff()
	if t.UserID != user.ID && !staff {
		return nil, domain.ErrForbidden
	}
	if t.Status == domain.TicketClosed {
		return nil, ticketrepo.ErrClosed
	}

	sender, status := domain.SenderUser, domain.TicketOpen
	if staff {
		sender, status = domain.SenderSupport, domain.TicketPending
	}
	return s.repo.AppendMessage(ctx, t.ID, domain.TicketMessage{Sender: sender, Message: message}, status)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.List(ctx, ticketrepo.Filter{})
}

func (s *Service) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.List(ctx, ticketrepo.Filter{Status: domain.TicketOpen})
}

func (s *Service) ListUnresolved(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.List(ctx, ticketrepo.Filter{NotStatus: domain.TicketClosed})
}

// Reply posts a support message and marks the ticket pending.
func (s *Service) Reply(ctx context.Context, ticketID, message string) (*domain.Ticket, error) {
	message = strings.TrimSpace(message)
	if strings.TrimSpace(ticketID) == "" || message == "" {
		return nil, domain.Invalid("ticketId and message required")
	}
	if !domain.ValidID(ticketID) {
		return nil, errTicketNotFound
	}
	t, err := s.repo.AppendMessage(ctx, ticketID, domain.TicketMessage{Sender: domain.SenderSupport, Message: message}, domain.TicketPending)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithField("ticket_id", ticketID).Info("tickets: support replied")
	return t, nil
}

// Resolve closes the ticket.
func (s *Service) Resolve(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if !domain.ValidID(ticketID) {
		return nil, errTicketNotFound
	}
	t, err := s.repo.SetStatus(ctx, ticketID, domain.TicketClosed)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithField("ticket_id", ticketID).Info("tickets: resolved")
	return t, nil
}

func (s *Service) get(ctx context.Context, id string) (*domain.Ticket, error) {
	if !domain.ValidID(id) {
		return nil, errTicketNotFound
	}
	t, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errTicketNotFound
	}
	return t, err
}
