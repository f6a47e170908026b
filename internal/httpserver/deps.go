package httpserver

import (
	"context"
	"errors"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/payment"
	authsvc "webhost-storefront/internal/service/auth"
	checkoutsvc "webhost-storefront/internal/service/checkout"
	registrarsvc "webhost-storefront/internal/service/registrar"
	ticketsvc "webhost-storefront/internal/service/ticket"
)

type AuthService interface {
	authenticator
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*authsvc.LoginResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in authsvc.ProfileInput) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in authsvc.ResetPasswordInput) error
}

type RegistrarService interface {
	Search(ctx context.Context, name string) (*domain.Availability, error)
	Register(ctx context.Context, userID, name string) (*registrarsvc.RegisterResult, error)
	ListMine(ctx context.Context, userID string) ([]domain.Domain, error)
}

type CatalogService interface {
	ListHosting(ctx context.Context) ([]domain.HostingPlan, error)
	GetHosting(ctx context.Context, id string) (*domain.HostingPlan, error)
	CreateHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error)
	UpdateHosting(ctx context.Context, id string, p domain.HostingPlan) (*domain.HostingPlan, error)
	DeleteHosting(ctx context.Context, id string) error

	ListWordpress(ctx context.Context) ([]domain.WordpressPlan, error)
	GetWordpress(ctx context.Context, id string) (*domain.WordpressPlan, error)
	CreateWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error)
	UpdateWordpress(ctx context.Context, id string, p domain.WordpressPlan) (*domain.WordpressPlan, error)
	DeleteWordpress(ctx context.Context, id string) error

	ListAddons(ctx context.Context) ([]domain.Addon, error)
	GetAddon(ctx context.Context, id string) (*domain.Addon, error)
	CreateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error)
	UpdateAddon(ctx context.Context, id string, a domain.Addon) (*domain.Addon, error)
	DeleteAddon(ctx context.Context, id string) error
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddHosting(ctx context.Context, userID, planID string) (*domain.Cart, error)
	AddWordpress(ctx context.Context, userID, planID string) (*domain.Cart, error)
	AddAddon(ctx context.Context, userID, addonID string) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string) (*checkoutsvc.Result, error)
	CreatePaymentSession(ctx context.Context, userID, invoiceID string) (*checkoutsvc.PaymentSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	SessionStatus(ctx context.Context, sessionID string) (*payment.Session, error)
	VerifyPayment(ctx context.Context, user *domain.User, invoiceID string) (*checkoutsvc.Verification, error)
}

type BillingService interface {
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error)
}

type TicketService interface {
	Open(ctx context.Context, userID string, in ticketsvc.OpenInput) (*domain.Ticket, error)
	ListMine(ctx context.Context, userID string) ([]domain.Ticket, error)
	AddMessage(ctx context.Context, user *domain.User, ticketID, message string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListOpen(ctx context.Context) ([]domain.Ticket, error)
	ListUnresolved(ctx context.Context) ([]domain.Ticket, error)
	Reply(ctx context.Context, ticketID, message string) (*domain.Ticket, error)
	Resolve(ctx context.Context, ticketID string) (*domain.Ticket, error)
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

// Pinger reports database reachability for /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries the services the router dispatches to.
type Deps struct {
	Auth      AuthService
	Registrar RegistrarService
	Catalog   CatalogService
	Cart      CartService
	Checkout  CheckoutService
	Billing   BillingService
	Tickets   TicketService
	Users     UserService
}

func (d Deps) validate() error {
	switch {
	case d.Auth == nil:
		return errors.New("auth service is required")
	case d.Registrar == nil:
		return errors.New("registrar service is required")
	case d.Catalog == nil:
		return errors.New("catalog service is required")
	case d.Cart == nil:
		return errors.New("cart service is required")
	case d.Checkout == nil:
		return errors.New("checkout service is required")
	case d.Billing == nil:
		return errors.New("billing service is required")
	case d.Tickets == nil:
		return errors.New("ticket service is required")
	case d.Users == nil:
		return errors.New("user service is required")
	}
	return nil
}

// Options tunes router behaviour.
type Options struct {
	GinMode        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}
