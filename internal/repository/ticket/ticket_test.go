package ticket

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/testutil"
)

func TestAppendMessage_ClosedTicketRejected(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM tickets").
		WithArgs("t-1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("closed"))
	mock.ExpectRollback()

	_, err = NewPostgres(mock).AppendMessage(context.Background(), "t-1",
		domain.TicketMessage{Sender: domain.SenderSupport, Message: "hello"}, domain.TicketPending)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_TicketFlow(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Postgres(t)

	var userID string
	require.NoError(t, pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash) VALUES ('Tess', 'tess@example.com', 'x')
RETURNING id::text`).Scan(&userID))

	repo := NewPostgres(pool)
	created, err := repo.Create(ctx,
		domain.Ticket{UserID: userID, Status: domain.TicketOpen, Subject: "Site down", Department: domain.DeptSupport},
		domain.TicketMessage{Sender: domain.SenderUser, Message: "my site is down"},
	)
	require.NoError(t, err)
	require.Len(t, created.Messages, 1)
	assert.Equal(t, "tess@example.com", created.User.Email)

	second, err := repo.Create(ctx,
		domain.Ticket{UserID: userID, Status: domain.TicketOpen, Subject: "Billing", Department: domain.DeptAccount},
		domain.TicketMessage{Sender: domain.SenderUser, Message: "invoice question"},
	)
	require.NoError(t, err)

	replied, err := repo.AppendMessage(ctx, created.ID, domain.TicketMessage{Sender: domain.SenderSupport, Message: "looking"}, domain.TicketPending)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPending, replied.Status)
	require.Len(t, replied.Messages, 2)
	assert.Equal(t, domain.SenderSupport, replied.Messages[1].Sender)

	_, err = repo.SetStatus(ctx, second.ID, domain.TicketClosed)
	require.NoError(t, err)

	_, err = repo.AppendMessage(ctx, second.ID, domain.TicketMessage{Sender: domain.SenderUser, Message: "again"}, domain.TicketOpen)
	assert.ErrorIs(t, err, ErrClosed)

	mine, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")

	unresolved, err := repo.List(ctx, Filter{NotStatus: domain.TicketClosed})
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Len(t, unresolved[0].Messages, 2)

	open, err := repo.List(ctx, Filter{Status: domain.TicketOpen})
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = repo.SetStatus(ctx, "00000000-0000-0000-0000-000000000000", domain.TicketClosed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
