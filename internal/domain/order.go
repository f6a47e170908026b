package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	User       *UserSummary `json:"user,omitempty"`
	Items      []CartItem   `json:"items"`
	TotalCents int64        `json:"totalCents"`
	Status     OrderStatus  `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceUnpaid || s == InvoicePaid
}

// InvoiceDueAfter is the payment window granted at checkout.
const InvoiceDueAfter = 7 * 24 * time.Hour

type Invoice struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"orderId"`
	UserID      string        `json:"userId"`
	User        *UserSummary  `json:"user,omitempty"`
	AmountCents int64         `json:"amountCents"`
	Status      InvoiceStatus `json:"status"`
	DueDate     time.Time     `json:"dueDate"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
