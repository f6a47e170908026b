package domain

import "time"

type TicketStatus string

const (
	TicketOpen    TicketStatus = "open"
	TicketPending TicketStatus = "pending"
	TicketClosed  TicketStatus = "closed"
)

type Department string

const (
	DeptGeneral Department = "general"
	DeptAccount Department = "account"
	DeptSales   Department = "sales"
	DeptSupport Department = "support"
)

func (d Department) Valid() bool {
	switch d {
	case DeptGeneral, DeptAccount, DeptSales, DeptSupport:
		return true
	}
	return false
}

type Sender string

const (
	SenderUser    Sender = "user"
	SenderSupport Sender = "support"
)

type Ticket struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	User       *UserSummary    `json:"user,omitempty"`
	Status     TicketStatus    `json:"status"`
	Subject    string          `json:"subject"`
	Department Department      `json:"department"`
	Messages   []TicketMessage `json:"messages"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type TicketMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
