package domain

import "time"

type DomainStatus string

const (
	DomainAvailable  DomainStatus = "available"
	DomainRegistered DomainStatus = "registered"
	DomainExpired    DomainStatus = "expired"
	DomainPending    DomainStatus = "pending"
)

// Domain is a domain name held, or being bought, through the storefront.
type Domain struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	PriceCents         int64        `json:"priceCents"`
	Status             DomainStatus `json:"status"`
	UserID             *string      `json:"userId,omitempty"`
	ExpiryDate         *time.Time   `json:"expiryDate,omitempty"`
	AutoRenew          bool         `json:"autoRenew"`
	RegistrationPeriod int          `json:"registrationPeriod"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// Availability is the outcome of a domain search.
type Availability struct {
	DomainName string `json:"domainName"`
	Available  bool   `json:"available"`
	Status     string `json:"status"`
}
