package domain

import "time"

type ItemType string

const (
	ItemDomain    ItemType = "domain"
	ItemHosting   ItemType = "hosting"
	ItemWordpress ItemType = "wordpress"
	ItemAddon     ItemType = "addon"
)

type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	TotalCents int64      `json:"totalCents"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CartItem is a priced snapshot of a catalog entry or a pending domain.
type CartItem struct {
	ItemType           ItemType     `json:"itemType"`
	ItemID             string       `json:"itemId"`
	Name               string       `json:"name"`
	PriceCents         int64        `json:"priceCents"`
	BillingCycle       BillingCycle `json:"billingCycle,omitempty"`
	RegistrationPeriod int          `json:"registrationPeriod,omitempty"`
}

// SumItems returns the total of all item prices.
func SumItems(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.PriceCents
	}
	return total
}
