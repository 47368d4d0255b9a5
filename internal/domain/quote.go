package domain

import "time"

// QuoteBreakdown is the priced outcome for one yacht. Computed fresh per request.
type QuoteBreakdown struct {
	BasePrice int64  `json:"basePrice"`
	APA       int64  `json:"apa"`
	VAT       int64  `json:"vat"`
	Extras    int64  `json:"extras"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
}

// Quote is a persisted breakdown tied to a tenant, a yacht and optionally a lead.
type Quote struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenantId"`
	LeadID   *string `json:"leadId,omitempty"`
	YachtID  string  `json:"yachtId"`
	Weeks    int64   `json:"weeks"`
	QuoteBreakdown
	CreatedAt time.Time `json:"createdAt"`
}
