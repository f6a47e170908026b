package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/events"
	"webhost-storefront/internal/logging"
	"webhost-storefront/internal/metrics"
	"webhost-storefront/internal/payment"
)

type billingRepo interface {
	PlaceOrder(ctx context.Context, userID string, now time.Time) (*domain.Order, *domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	SettleInvoice(ctx context.Context, eventID, eventType, invoiceID string, paidAt time.Time) (*domain.Invoice, bool, error)
}

// Service turns carts into orders and reconciles gateway payments.
type Service struct {
	billing     billingRepo
	gateway     payment.Gateway
	events      events.Publisher
	frontendURL string
	logger      logrus.FieldLogger
	now         func() time.Time
}

func New(billing billingRepo, gateway payment.Gateway, publisher events.Publisher, frontendURL string, logger logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		billing:     billing,
		gateway:     gateway,
		events:      publisher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logging.OrDiscard(logger),
		now:         time.Now,
	}
}

type Result struct {
	Order   *domain.Order   `json:"order"`
	Invoice *domain.Invoice `json:"invoice"`
}

// Checkout places an order for everything in the user's cart.
func (s *Service) Checkout(ctx context.Context, userID string) (*Result, error) {
	order, inv, err := s.billing.PlaceOrder(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	metrics.RecordOrderPlaced()
	s.logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"invoice_id":  inv.ID,
		"user_id":     userID,
		"total_cents": order.TotalCents,
	}).Info("checkout: order placed")

	var domains []string
	for _, it := range order.Items {
		if it.ItemType == domain.ItemDomain {
			domains = append(domains, it.Name)
		}
	}
	if err := s.events.PublishOrderPlaced(ctx, events.OrderPlaced{
		OrderID:    order.ID,
		InvoiceID:  inv.ID,
		UserID:     userID,
		TotalCents: order.TotalCents,
		ItemCount:  len(order.Items),
		Domains:    domains,
		PlacedAt:   order.CreatedAt,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("checkout: publish order placed")
	}
	return &Result{Order: order, Invoice: inv}, nil
}

type PaymentSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreatePaymentSession opens a hosted checkout for an unpaid invoice of userID.
func (s *Service) CreatePaymentSession(ctx context.Context, userID, invoiceID string) (*PaymentSession, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, domain.Invalid("invoiceId is required")
	}
	inv, err := s.ownedInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, domain.Invalid("invoice already paid")
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionInput{
		InvoiceID:   inv.ID,
		OrderID:     inv.OrderID,
		UserID:      userID,
		AmountCents: inv.AmountCents,
		SuccessURL:  s.frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}&invoice_id=" + url.QueryEscape(inv.ID),
		CancelURL:   s.frontendURL + "/checkout",
	})
	if err != nil {
		return nil, domain.Upstream("payment gateway", err)
	}
	s.logger.WithFields(logrus.Fields{"invoice_id": inv.ID, "session_id": sess.ID}).Info("checkout: payment session created")
	return &PaymentSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// HandleWebhook verifies and applies a gateway notification. Deliveries of an
// event id that was already applied are acknowledged without side effects.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if errors.Is(err, payment.ErrNotConfigured) {
		return domain.Upstream("payment gateway", err)
	}
	if err != nil {
		s.logger.WithError(err).Warn("checkout: webhook rejected")
		return domain.Invalid("webhook signature verification failed")
	}

	log := s.logger.WithFields(logrus.Fields{"event_id": ev.ID, "event_type": ev.Type})
	switch ev.Type {
	case payment.EventCheckoutCompleted:
		return s.settle(ctx, ev, log)
	case payment.EventCheckoutExpired:
		log.Info("checkout: session expired")
	default:
		log.Debug("checkout: event ignored")
	}
	return nil
}

func (s *Service) settle(ctx context.Context, ev *payment.Event, log logrus.FieldLogger) error {
	if ev.Session == nil || !domain.ValidID(ev.Session.InvoiceID) {
		log.Warn("checkout: completed session without invoice reference")
		return nil
	}

	inv, applied, err := s.billing.SettleInvoice(ctx, ev.ID, ev.Type, ev.Session.InvoiceID, s.now())
	if errors.Is(err, domain.ErrNotFound) {
		log.WithField("invoice_id", ev.Session.InvoiceID).Warn("checkout: invoice for session not found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("settle invoice: %w", err)
	}
	metrics.RecordPaymentSettled(applied)
	if !applied {
		log.WithField("invoice_id", inv.ID).Info("checkout: duplicate event skipped")
		return nil
	}

	log.WithField("invoice_id", inv.ID).Info("checkout: invoice paid")
	paidAt := s.now()
	if inv.PaidAt != nil {
		paidAt = *inv.PaidAt
	}
	if err := s.events.PublishInvoicePaid(ctx, events.InvoicePaid{
		InvoiceID:   inv.ID,
		OrderID:     inv.OrderID,
		UserID:      inv.UserID,
		AmountCents: inv.AmountCents,
		PaidAt:      paidAt,
	}); err != nil {
		log.WithError(err).Warn("checkout: publish invoice paid")
	}
	return nil
}

// SessionStatus reports the gateway's view of a hosted checkout.
func (s *Service) SessionStatus(ctx context.Context, sessionID string) (*payment.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.Invalid("sessionId is required")
	}
	sess, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domain.Upstream("payment gateway", err)
	}
	return sess, nil
}

type Verification struct {
	Status  domain.InvoiceStatus `json:"status"`
	Paid    bool                 `json:"paid"`
	Invoice *domain.Invoice      `json:"invoice"`
}

// VerifyPayment reports whether an invoice has been settled. Only the owner
// and admins may ask.
func (s *Service) VerifyPayment(ctx context.Context, user *domain.User, invoiceID string) (*Verification, error) {
	if !domain.ValidID(invoiceID) {
		return nil, domain.Errorf(domain.ErrNotFound, "invoice not found")
	}
	inv, err := s.billing.GetInvoice(ctx, invoiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "invoice not found")
	}
	if err != nil {
		return nil, err
	}
	if inv.UserID != user.ID && user.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return &Verification{Status: inv.Status, Paid: inv.Status == domain.InvoicePaid, Invoice: inv}, nil
}

func (s *Service) ownedInvoice(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	if !domain.ValidID(invoiceID) {
		return nil, domain.Errorf(domain.ErrNotFound, "invoice not found")
	}
	inv, err := s.billing.GetInvoice(ctx, invoiceID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && inv.UserID != userID) {
		return nil, domain.Errorf(domain.ErrNotFound, "invoice not found")
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}
