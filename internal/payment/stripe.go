package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Stripe is a Gateway backed by Stripe Checkout.
type Stripe struct {
	api           *client.API
	secretKey     string
	webhookSecret string
	currency      string
}

// NewStripe builds a Stripe gateway. Missing keys are reported lazily by
// the methods that need them.
func NewStripe(secretKey, webhookSecret, currency string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	if currency == "" {
		currency = "zar"
	}
	return &Stripe{
		api:           api,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		currency:      strings.ToLower(currency),
	}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, in SessionInput) (*Session, error) {
	if s.secretKey == "" {
		return nil, ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Order #" + in.OrderID),
						Description: stripe.String("Invoice " + in.InvoiceID),
					},
					UnitAmount: stripe.Int64(in.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.InvoiceID),
	}
	params.Context = ctx
	params.AddMetadata("invoiceId", in.InvoiceID)
	params.AddMetadata("userId", in.UserID)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return toSession(sess), nil
}

func (s *Stripe) GetSession(ctx context.Context, id string) (*Session, error) {
	if s.secretKey == "" {
		return nil, ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return toSession(sess), nil
}

func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if s.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if strings.HasPrefix(out.Type, "checkout.session.") && ev.Data != nil {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = toSession(&sess)
	}
	return out, nil
}

func toSession(sess *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            sess.ID,
		URL:           sess.URL,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		InvoiceID:     sess.Metadata["invoiceId"],
	}
	if out.InvoiceID == "" {
		out.InvoiceID = sess.ClientReferenceID
	}
	return out
}
