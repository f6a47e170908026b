package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
)

const ticketColumns = `t.id::text, t.user_id::text, t.status, t.subject, t.department, t.created_at, t.updated_at, u.name, u.email`

// ErrClosed is returned when writing to a closed ticket.
var ErrClosed = domain.Invalid("ticket is closed")

type postgresRepo struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, t domain.Ticket, first domain.TicketMessage) (*domain.Ticket, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	if err := tx.QueryRow(ctx, `
INSERT INTO tickets (user_id, status, subject, department)
VALUES ($1, $2, $3, $4)
RETURNING id::text`, t.UserID, string(t.Status), t.Subject, string(t.Department)).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	if err := insertMessage(ctx, tx, id, first); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return getTicket(ctx, r.pool, id)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return r.list(ctx, `WHERE t.user_id = $1`, userID)
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Ticket, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if f.NotStatus != "" {
		args = append(args, string(f.NotStatus))
		conds = append(conds, fmt.Sprintf("t.status <> $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return r.list(ctx, where, args...)
}

func (r *postgresRepo) AppendMessage(ctx context.Context, id string, msg domain.TicketMessage, status domain.TicketStatus) (*domain.Ticket, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current string
	if err := tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if domain.TicketStatus(current) == domain.TicketClosed {
		return nil, ErrClosed
	}

	if err := insertMessage(ctx, tx, id, msg); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE tickets SET status = $2, updated_at = now() WHERE id = $1`, id, string(status)); err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("set ticket status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *postgresRepo) list(ctx context.Context, where string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+ticketColumns+`
FROM tickets t
JOIN users u ON u.id = t.user_id
`+where+`
ORDER BY t.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	tickets := []domain.Ticket{}
	index := map[string]int{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[t.ID] = len(tickets)
		tickets = append(tickets, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	msgRows, err := r.pool.Query(ctx, `
SELECT ticket_id::text, id::text, sender, message, created_at
FROM ticket_messages
WHERE ticket_id::text = ANY($1)
ORDER BY created_at ASC, id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("list ticket messages: %w", err)
	}
	defer msgRows.Close()
	for msgRows.Next() {
		var ticketID string
		m, err := scanMessage(msgRows, &ticketID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[ticketID]; ok {
			tickets[i].Messages = append(tickets[i].Messages, m)
		}
	}
	return tickets, msgRows.Err()
}

func getTicket(ctx context.Context, q db.Querier, id string) (*domain.Ticket, error) {
	t, err := scanTicket(q.QueryRow(ctx, `
SELECT `+ticketColumns+`
FROM tickets t
JOIN users u ON u.id = t.user_id
WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `
SELECT ticket_id::text, id::text, sender, message, created_at
FROM ticket_messages
WHERE ticket_id = $1
ORDER BY created_at ASC, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list ticket messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ticketID string
		m, err := scanMessage(rows, &ticketID)
		if err != nil {
			return nil, err
		}
		t.Messages = append(t.Messages, m)
	}
	return t, rows.Err()
}

func insertMessage(ctx context.Context, q db.Querier, ticketID string, m domain.TicketMessage) error {
	if _, err := q.Exec(ctx, `
INSERT INTO ticket_messages (ticket_id, sender, message)
VALUES ($1, $2, $3)`, ticketID, string(m.Sender), m.Message); err != nil {
		return fmt.Errorf("insert ticket message: %w", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var status, dept, name, email string
	if err := row.Scan(&t.ID, &t.UserID, &status, &t.Subject, &dept, &t.CreatedAt, &t.UpdatedAt, &name, &email); err != nil {
		return nil, err
	}
	t.Status = domain.TicketStatus(status)
	t.Department = domain.Department(dept)
	t.User = &domain.UserSummary{ID: t.UserID, Name: name, Email: email}
	t.Messages = []domain.TicketMessage{}
	return &t, nil
}

func scanMessage(row pgx.Row, ticketID *string) (domain.TicketMessage, error) {
	var m domain.TicketMessage
	var sender string
	if err := row.Scan(ticketID, &m.ID, &sender, &m.Message, &m.CreatedAt); err != nil {
		return m, err
	}
	m.Sender = domain.Sender(sender)
	return m, nil
}
