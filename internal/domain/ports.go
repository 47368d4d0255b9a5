package domain

import (
	"context"
	"time"
)

// InventoryProvider supplies a tenant's yachts. The matcher never caches them.
type InventoryProvider interface {
	SearchYachts(ctx context.Context, tenantID string, f YachtFilter) (YachtPage, error)
}

type YachtRepository interface {
	InventoryProvider
	CreateYacht(ctx context.Context, y Yacht) (Yacht, error)
	GetYacht(ctx context.Context, id string) (Yacht, error)
}

type LeadRepository interface {
	CreateLead(ctx context.Context, l Lead) (Lead, error)
	GetLead(ctx context.Context, id string) (Lead, error)
}

type QuoteRepository interface {
	CreateQuote(ctx context.Context, q Quote) (Quote, error)
	GetQuote(ctx context.Context, id string) (Quote, error)
}

type TenantRepository interface {
	UpsertTenant(ctx context.Context, t Tenant) (Tenant, error)
	GetTenant(ctx context.Context, id string) (Tenant, error)
}

type EventLog interface {
	LogEvent(ctx context.Context, e Event) error
}

type DeadLetterStore interface {
	StoreDeadLetter(ctx context.Context, d DeadLetter) error
}

// Store is everything the application layer needs from persistence.
type Store interface {
	YachtRepository
	LeadRepository
	QuoteRepository
	TenantRepository
	EventLog
	DeadLetterStore
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// IdempotencyStore remembers responses for client-supplied idempotency keys.
type IdempotencyStore interface {
	Lookup(ctx context.Context, tenantID, key string, dst any) (bool, error)
	Remember(ctx context.Context, tenantID, key string, v any, ttl time.Duration) error
}

// EmailJob is one outbound message for a tenant.
type EmailJob struct {
	TenantID string `json:"tenantId"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"` // HTML
	LeadID   string `json:"leadId,omitempty"`
}

type MailQueue interface {
	Enqueue(job EmailJob) bool
}
