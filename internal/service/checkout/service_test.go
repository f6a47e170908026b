package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/events"
	"webhost-storefront/internal/payment"
)

const (
	invoiceID = "7d0c6c55-6a0e-4b7c-8d5b-0d5e2a1f9a01"
	orderID   = "7d0c6c55-6a0e-4b7c-8d5b-0d5e2a1f9a02"
)

type stubBilling struct {
	order      *domain.Order
	invoice    *domain.Invoice
	placeErr   error
	getErr     error
	settled    map[string]bool
	settleErr  error
	settleCall int
}

func (s *stubBilling) PlaceOrder(context.Context, string, time.Time) (*domain.Order, *domain.Invoice, error) {
	if s.placeErr != nil {
		return nil, nil, s.placeErr
	}
	return s.order, s.invoice, nil
}

func (s *stubBilling) GetInvoice(_ context.Context, id string) (*domain.Invoice, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.invoice == nil || s.invoice.ID != id {
		return nil, domain.ErrNotFound
	}
	clone := *s.invoice
	return &clone, nil
}

func (s *stubBilling) SettleInvoice(_ context.Context, eventID, _, id string, paidAt time.Time) (*domain.Invoice, bool, error) {
	s.settleCall++
	if s.settleErr != nil {
		return nil, false, s.settleErr
	}
	if s.invoice == nil || s.invoice.ID != id {
		return nil, false, domain.ErrNotFound
	}
	if s.settled == nil {
		s.settled = map[string]bool{}
	}
	if s.settled[eventID] {
		clone := *s.invoice
		return &clone, false, nil
	}
	s.settled[eventID] = true
	s.invoice.Status = domain.InvoicePaid
	s.invoice.PaidAt = &paidAt
	clone := *s.invoice
	return &clone, true, nil
}

type stubGateway struct {
	lastInput payment.SessionInput
	event     *payment.Event
	parseErr  error
	createErr error
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, in payment.SessionInput) (*payment.Session, error) {
	g.lastInput = in
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.Session{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (g *stubGateway) GetSession(_ context.Context, id string) (*payment.Session, error) {
	return &payment.Session{ID: id, Status: "complete", PaymentStatus: "paid", InvoiceID: invoiceID}, nil
}

func (g *stubGateway) ParseWebhook([]byte, string) (*payment.Event, error) {
	return g.event, g.parseErr
}

type recordingPublisher struct {
	events.Noop
	placed []events.OrderPlaced
	paid   []events.InvoicePaid
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, ev events.OrderPlaced) error {
	p.placed = append(p.placed, ev)
	return nil
}

func (p *recordingPublisher) PublishInvoicePaid(_ context.Context, ev events.InvoicePaid) error {
	p.paid = append(p.paid, ev)
	return nil
}

func newInvoice() *domain.Invoice {
	return &domain.Invoice{ID: invoiceID, OrderID: orderID, UserID: "u1", AmountCents: 14999, Status: domain.InvoiceUnpaid}
}

func TestCheckoutPublishesOrderPlaced(t *testing.T) {
	billing := &stubBilling{
		order: &domain.Order{ID: orderID, UserID: "u1", TotalCents: 14999, Items: []domain.CartItem{
			{ItemType: domain.ItemDomain, Name: "example.com", PriceCents: 10000},
			{ItemType: domain.ItemHosting, Name: "Starter", PriceCents: 4999},
		}},
		invoice: newInvoice(),
	}
	pub := &recordingPublisher{}
	svc := New(billing, &stubGateway{}, pub, "http://shop.test", nil)

	res, err := svc.Checkout(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, orderID, res.Order.ID)
	assert.Equal(t, invoiceID, res.Invoice.ID)

	require.Len(t, pub.placed, 1)
	assert.Equal(t, []string{"example.com"}, pub.placed[0].Domains)
	assert.Equal(t, 2, pub.placed[0].ItemCount)
}

func TestCheckoutEmptyCart(t *testing.T) {
	pub := &recordingPublisher{}
	svc := New(&stubBilling{placeErr: domain.Invalid("cart is empty")}, &stubGateway{}, pub, "", nil)

	_, err := svc.Checkout(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "cart is empty", err.Error())
	assert.Empty(t, pub.placed)
}

func TestCreatePaymentSession(t *testing.T) {
	gw := &stubGateway{}
	svc := New(&stubBilling{invoice: newInvoice()}, gw, nil, "http://shop.test/", nil)

	sess, err := svc.CreatePaymentSession(context.Background(), "u1", invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.SessionID)
	assert.Equal(t, int64(14999), gw.lastInput.AmountCents)
	assert.Equal(t, orderID, gw.lastInput.OrderID)
	assert.Equal(t, "http://shop.test/checkout", gw.lastInput.CancelURL)
	assert.True(t, strings.HasPrefix(gw.lastInput.SuccessURL, "http://shop.test/payment-success?session_id={CHECKOUT_SESSION_ID}&invoice_id="))
	assert.True(t, strings.HasSuffix(gw.lastInput.SuccessURL, invoiceID))
}

func TestCreatePaymentSessionRejects(t *testing.T) {
	paid := newInvoice()
	paid.Status = domain.InvoicePaid

	cases := []struct {
		name    string
		invoice *domain.Invoice
		userID  string
		id      string
		want    error
	}{
		{"other user", newInvoice(), "u2", invoiceID, domain.ErrNotFound},
		{"missing", newInvoice(), "u1", orderID, domain.ErrNotFound},
		{"malformed id", newInvoice(), "u1", "abc", domain.ErrNotFound},
		{"already paid", paid, "u1", invoiceID, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		svc := New(&stubBilling{invoice: tc.invoice}, &stubGateway{}, nil, "", nil)
		_, err := svc.CreatePaymentSession(context.Background(), tc.userID, tc.id)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestCreatePaymentSessionGatewayFailure(t *testing.T) {
	svc := New(&stubBilling{invoice: newInvoice()}, &stubGateway{createErr: payment.ErrNotConfigured}, nil, "", nil)
	_, err := svc.CreatePaymentSession(context.Background(), "u1", invoiceID)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestHandleWebhookSettlesOnce(t *testing.T) {
	billing := &stubBilling{invoice: newInvoice()}
	pub := &recordingPublisher{}
	gw := &stubGateway{event: &payment.Event{
		ID:      "evt_1",
		Type:    payment.EventCheckoutCompleted,
		Session: &payment.Session{ID: "cs_test_1", InvoiceID: invoiceID},
	}}
	svc := New(billing, gw, pub, "", nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	assert.Equal(t, 2, billing.settleCall)
	assert.Equal(t, domain.InvoicePaid, billing.invoice.Status)
	require.Len(t, pub.paid, 1)
	assert.Equal(t, orderID, pub.paid[0].OrderID)
}

func TestHandleWebhookBadSignature(t *testing.T) {
	billing := &stubBilling{invoice: newInvoice()}
	svc := New(billing, &stubGateway{parseErr: payment.ErrInvalidSignature}, nil, "", nil)

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "bad")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, billing.settleCall)
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	for _, typ := range []string{payment.EventCheckoutExpired, "payment_intent.created"} {
		billing := &stubBilling{invoice: newInvoice()}
		svc := New(billing, &stubGateway{event: &payment.Event{ID: "evt", Type: typ}}, nil, "", nil)
		require.NoError(t, svc.HandleWebhook(context.Background(), nil, "sig"))
		assert.Zero(t, billing.settleCall, typ)
	}
}

func TestHandleWebhookUnknownInvoiceAcknowledged(t *testing.T) {
	billing := &stubBilling{invoice: newInvoice()}
	gw := &stubGateway{event: &payment.Event{
		ID:      "evt_2",
		Type:    payment.EventCheckoutCompleted,
		Session: &payment.Session{InvoiceID: orderID},
	}}
	svc := New(billing, gw, nil, "", nil)
	assert.NoError(t, svc.HandleWebhook(context.Background(), nil, "sig"))
}

func TestHandleWebhookStorageFailureIsRetried(t *testing.T) {
	billing := &stubBilling{invoice: newInvoice(), settleErr: errors.New("db down")}
	gw := &stubGateway{event: &payment.Event{
		ID:      "evt_3",
		Type:    payment.EventCheckoutCompleted,
		Session: &payment.Session{InvoiceID: invoiceID},
	}}
	svc := New(billing, gw, nil, "", nil)
	err := svc.HandleWebhook(context.Background(), nil, "sig")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVerifyPayment(t *testing.T) {
	billing := &stubBilling{invoice: newInvoice()}
	svc := New(billing, &stubGateway{}, nil, "", nil)
	ctx := context.Background()

	v, err := svc.VerifyPayment(ctx, &domain.User{ID: "u1", Role: domain.RoleCustomer}, invoiceID)
	require.NoError(t, err)
	assert.False(t, v.Paid)
	assert.Equal(t, domain.InvoiceUnpaid, v.Status)

	_, err = svc.VerifyPayment(ctx, &domain.User{ID: "u2", Role: domain.RoleCustomer}, invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	v, err = svc.VerifyPayment(ctx, &domain.User{ID: "admin", Role: domain.RoleAdmin}, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, invoiceID, v.Invoice.ID)

	_, err = svc.VerifyPayment(ctx, &domain.User{ID: "u1"}, orderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStatus(t *testing.T) {
	svc := New(&stubBilling{}, &stubGateway{}, nil, "", nil)
	sess, err := svc.SessionStatus(context.Background(), "cs_test_9")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_9", sess.ID)
	assert.Equal(t, "paid", sess.PaymentStatus)

	_, err = svc.SessionStatus(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
