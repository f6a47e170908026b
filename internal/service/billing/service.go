package billing

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
	billingrepo "webhost-storefront/internal/repository/billing"
)

// Service exposes orders and invoices to their owners and to admins.
type Service struct {
	repo   billingrepo.Repository
	logger logrus.FieldLogger
}

func New(repo billingrepo.Repository, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, logger: logging.OrDiscard(logger)}
}

func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *Service) GetUserOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	if !domain.ValidID(orderID) {
		return nil, errOrderNotFound
	}
	o, err := s.repo.GetOrderForUser(ctx, userID, orderID)
	return o, orNotFound(err, errOrderNotFound)
}

func (s *Service) ListUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	return s.repo.ListInvoicesByUser(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if !domain.ValidID(id) {
		return nil, errOrderNotFound
	}
	o, err := s.repo.GetOrder(ctx, id)
	return o, orNotFound(err, errOrderNotFound)
}

// UpdateOrderStatus sets the order status; the invoice follows.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("invalid status")
	}
	if !domain.ValidID(id) {
		return nil, errOrderNotFound
	}
	o, err := s.repo.SetOrderStatus(ctx, id, status)
	if err != nil {
		return nil, orNotFound(err, errOrderNotFound)
	}
	s.logger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("billing: order status changed")
	return o, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *Service) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	if !domain.ValidID(id) {
		return nil, errInvoiceNotFound
	}
	inv, err := s.repo.GetInvoice(ctx, id)
	return inv, orNotFound(err, errInvoiceNotFound)
}

// UpdateInvoiceStatus sets the invoice status; the order follows.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !status.Valid() {
		return nil, domain.Invalid("invalid status")
	}
	if !domain.ValidID(id) {
		return nil, errInvoiceNotFound
	}
	inv, err := s.repo.SetInvoiceStatus(ctx, id, status)
	if err != nil {
		return nil, orNotFound(err, errInvoiceNotFound)
	}
	s.logger.WithFields(logrus.Fields{"invoice_id": id, "status": status}).Info("billing: invoice status changed")
	return inv, nil
}

var (
	errOrderNotFound   = domain.Errorf(domain.ErrNotFound, "order not found")
	errInvoiceNotFound = domain.Errorf(domain.ErrNotFound, "invoice not found")
)

func orNotFound(err, notFound error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	return err
}
