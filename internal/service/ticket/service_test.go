package ticket

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhost-storefront/internal/domain"
	ticketrepo "webhost-storefront/internal/repository/ticket"
)

// memoryRepo mirrors the closed-ticket guard of the Postgres repository.
type memoryRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *memoryRepo) Create(_ context.Context, t domain.Ticket, first domain.TicketMessage) (*domain.Ticket, error) {
	r.seq++
	t.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", r.seq)
	t.Messages = []domain.TicketMessage{first}
	r.tickets[t.ID] = &t
	clone := t
	return &clone, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memoryRepo) List(_ context.Context, f ticketrepo.Filter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.NotStatus != "" && t.Status == f.NotStatus {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *memoryRepo) AppendMessage(_ context.Context, id string, msg domain.TicketMessage, status domain.TicketStatus) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if t.Status == domain.TicketClosed {
		return nil, ticketrepo.ErrClosed
	}
	t.Messages = append(t.Messages, msg)
	t.Status = status
	clone := *t
	return &clone, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Status = status
	clone := *t
	return &clone, nil
}

var (
	customer = &domain.User{ID: "u1", Role: domain.RoleCustomer}
	stranger = &domain.User{ID: "u2", Role: domain.RoleCustomer}
	agent    = &domain.User{ID: "s1", Role: domain.RoleSupport}
)

func openTicket(t *testing.T, svc *Service) *domain.Ticket {
	t.Helper()
	tk, err := svc.Open(context.Background(), customer.ID, OpenInput{Subject: "Email down", Message: "Cannot send mail"})
	require.NoError(t, err)
	return tk
}

func TestOpenDefaultsAndValidation(t *testing.T) {
	svc := New(newMemoryRepo(), nil)

	tk := openTicket(t, svc)
	assert.Equal(t, domain.TicketOpen, tk.Status)
	assert.Equal(t, domain.DeptGeneral, tk.Department)
	require.Len(t, tk.Messages, 1)
	assert.Equal(t, domain.SenderUser, tk.Messages[0].Sender)

	_, err := svc.Open(context.Background(), "u1", OpenInput{Subject: " ", Message: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "subject and message required", err.Error())

	_, err = svc.Open(context.Background(), "u1", OpenInput{Subject: "s", Message: "m", Department: "legal"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tk, err = svc.Open(context.Background(), "u1", OpenInput{Subject: "s", Message: "m", Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, domain.DeptSales, tk.Department)
}

func TestAddMessageSenderAndStatus(t *testing.T) {
	svc := New(newMemoryRepo(), nil)
	tk := openTicket(t, svc)
	ctx := context.Background()

	got, err := svc.AddMessage(ctx, agent, tk.ID, "Looking into it")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPending, got.Status)
	assert.Equal(t, domain.SenderSupport, got.Messages[len(got.Messages)-1].Sender)

	got, err = svc.AddMessage(ctx, customer, tk.ID, "Still broken")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, got.Status)
	assert.Equal(t, domain.SenderUser, got.Messages[len(got.Messages)-1].Sender)
	assert.Len(t, got.Messages, 3)
}

func TestAddMessageAccess(t *testing.T) {
	svc := New(newMemoryRepo(), nil)
	tk := openTicket(t, svc)
	ctx := context.Background()

	_, err := svc.AddMessage(ctx, stranger, tk.ID, "hi")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AddMessage(ctx, customer, "00000000-0000-4000-8000-999999999999", "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddMessage(ctx, customer, "bogus", "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddMessage(ctx, customer, tk.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClosedTicketRejectsMessages(t *testing.T) {
	svc := New(newMemoryRepo(), nil)
	tk := openTicket(t, svc)
	ctx := context.Background()

	resolved, err := svc.Resolve(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketClosed, resolved.Status)

	_, err = svc.AddMessage(ctx, customer, tk.ID, "one more thing")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "ticket is closed", err.Error())

	_, err = svc.Reply(ctx, tk.ID, "reopening?")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "ticket is closed", err.Error())
}

func TestSupportListings(t *testing.T) {
	svc := New(newMemoryRepo(), nil)
	ctx := context.Background()
	a := openTicket(t, svc)
	b := openTicket(t, svc)
	c := openTicket(t, svc)

	_, err := svc.Reply(ctx, b.ID, "pending now")
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, c.ID)
	require.NoError(t, err)

	all, _ := svc.ListAll(ctx)
	open, _ := svc.ListOpen(ctx)
	unresolved, _ := svc.ListUnresolved(ctx)
	assert.Len(t, all, 3)
	require.Len(t, open, 1)
	assert.Equal(t, a.ID, open[0].ID)
	assert.Len(t, unresolved, 2)
}

func TestReplyAndResolveMissing(t *testing.T) {
	svc := New(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Reply(ctx, "00000000-0000-4000-8000-000000000042", "hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Reply(ctx, "", "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Resolve(ctx, "00000000-0000-4000-8000-000000000042")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
