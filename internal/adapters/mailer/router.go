package mailer

import (
	"context"
	"sync"

	"yacht_automate/internal/domain"
)

// TenantRouter picks the sender for a tenant: its own SMTP when configured,
// else the fallback (LogSender by default).
type TenantRouter struct {
	tenants  domain.TenantRepository
	fallback Sender
	perSec   int

	mu    sync.Mutex
	cache map[string]*SMTPSender
}

func NewTenantRouter(t domain.TenantRepository, fallback Sender, perSec int) *TenantRouter {
	if fallback == nil {
		fallback = LogSender{}
	}
	return &TenantRouter{tenants: t, fallback: fallback, perSec: perSec, cache: map[string]*SMTPSender{}}
}

// Resolve returns the sender and the From identity to use for tenantID.
func (r *TenantRouter) Resolve(ctx context.Context, tenantID string) (Sender, Message, error) {
	t, err := r.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, Message{}, err
	}
	from := Message{FromName: "Yacht Charter"}
	if t.FromName != nil {
		from.FromName = *t.FromName
	}
	if t.FromEmail != nil {
		from.FromEmail = *t.FromEmail
	}

	cfg := SMTPConfig{Host: deref(t.SMTPHost), User: deref(t.SMTPUser), Pass: deref(t.SMTPPass)}
	if t.SMTPPort != nil {
		cfg.Port = *t.SMTPPort
	}
	cfg = cfg.withDefaults()
	if !cfg.Configured() {
		return r.fallback, from, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.cache[tenantID]
	if !ok || s.cfg != cfg {
		s = NewSMTPSender(cfg, r.perSec)
		r.cache[tenantID] = s
	}
	return s, from, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
