package domain

import "time"

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
	BillingOneTime BillingCycle = "one-time"
)

type AddonType string

const (
	AddonAntivirus AddonType = "antivirus"
	AddonBackup    AddonType = "backup"
	AddonOther     AddonType = "other"
)

type HostingResources struct {
	Storage         string `json:"storage"`
	Bandwidth       string `json:"bandwidth"`
	Databases       int    `json:"databases"`
	WebsitesAllowed int    `json:"websitesAllowed"`
	EmailAccounts   int    `json:"emailAccounts"`
	SSLIncluded     string `json:"sslIncluded"`
}

type HostingPlan struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	PriceCents   int64            `json:"priceCents"`
	BillingCycle BillingCycle     `json:"billingCycle"`
	Resources    HostingResources `json:"resources"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type WordpressResources struct {
	Storage         string `json:"storage"`
	Databases       int    `json:"databases"`
	WebsitesAllowed int    `json:"websitesAllowed"`
	EmailAccounts   int    `json:"emailAccounts"`
	SSLIncluded     string `json:"sslIncluded"`
	DailyBackups    string `json:"dailyBackups"`
	ControlPanel    string `json:"controlPanel"`
	SiteBuilder     string `json:"siteBuilder"`
	Bandwidth       string `json:"bandwidth"`
}

type WordpressPlan struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	PriceCents   int64              `json:"priceCents"`
	BillingCycle BillingCycle       `json:"billingCycle"`
	Resources    WordpressResources `json:"resources"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type Addon struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	PriceCents   int64        `json:"priceCents"`
	BillingCycle BillingCycle `json:"billingCycle"`
	Type         AddonType    `json:"type"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
