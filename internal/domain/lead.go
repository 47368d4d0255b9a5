package domain

import "time"

const (
	LeadStatusNew    = "new"
	LeadStatusParsed = "parsed"
)

type Lead struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Notes     string    `json:"notes"`
	PartySize int       `json:"partySize"`
	Location  *string   `json:"location,omitempty"`
	Dates     *string   `json:"dates,omitempty"`
	Budget    *int64    `json:"budget,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tenant is a charter company; SMTP settings are optional per tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SMTPHost  *string   `json:"smtpHost,omitempty"`
	SMTPPort  *int      `json:"smtpPort,omitempty"`
	SMTPUser  *string   `json:"smtpUser,omitempty"`
	SMTPPass  *string   `json:"-"`
	FromName  *string   `json:"fromName,omitempty"`
	FromEmail *string   `json:"fromEmail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is an append-only record of something that happened for a tenant.
type Event struct {
	ID        string
	TenantID  string
	Type      string
	EntityID  *string
	Payload   []byte // JSON
	CreatedAt time.Time
}

// DeadLetter keeps a delivery job that exhausted its retries.
type DeadLetter struct {
	ID        string
	TenantID  string
	Kind      string // email|webhook
	Payload   []byte // JSON
	Error     string
	Attempts  int
	CreatedAt time.Time
}
