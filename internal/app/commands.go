package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"yacht_automate/internal/adapters/mailer"
	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/quote"
	"yacht_automate/internal/shared"
)

const maxLeadCandidates = 10

// ---- leads ----

type LeadService struct {
	leads   domain.LeadRepository
	events  domain.EventLog
	matcher *MatchService
	queue   domain.MailQueue
}

func NewLeadService(leads domain.LeadRepository, ev domain.EventLog, m *MatchService, q domain.MailQueue) *LeadService {
	return &LeadService{leads: leads, events: ev, matcher: m, queue: q}
}

type SubmitResult struct {
	Lead        domain.Lead    `json:"lead"`
	Candidates  []domain.Yacht `json:"candidates"`
	MatchCount  int            `json:"matchCount"`
	ReplyQueued bool           `json:"replyQueued"`
}

// Submit matches a lead strictly, stores it and queues a reply when anything
// fits. Nothing is stored when matching fails, so a retry cannot duplicate it.
func (s *LeadService) Submit(ctx context.Context, tenantID string, in LeadInput) (SubmitResult, error) {
	if err := in.validate(); err != nil {
		return SubmitResult{}, err
	}
	strict := true
	out, err := s.matcher.Match(ctx, tenantID, MatchInput{
		Notes: in.Notes, PartySize: in.PartySize, Location: in.Location, Strict: &strict, Limit: maxLeadCandidates,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("match lead: %w", err)
	}

	l := in.toLead(tenantID)
	l.ID = uuid.NewString()
	l, err = s.leads.CreateLead(ctx, l)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create lead: %w", err)
	}
	observability.ObserveLead("form")

	res := SubmitResult{Lead: l, Candidates: make([]domain.Yacht, 0, len(out.Matches))}
	for _, m := range out.Matches {
		res.Candidates = append(res.Candidates, m.Yacht)
	}
	res.MatchCount = len(res.Candidates)

	if res.MatchCount > 0 && s.queue != nil {
		area := strings.TrimSpace(in.Location)
		if area == "" {
			area = string(res.Candidates[0].Region)
		}
		job, err := mailer.LeadReply(l, area, res.Candidates)
		if err != nil {
			log.Error().Err(err).Str("lead", l.ID).Msg("build lead reply")
		} else {
			res.ReplyQueued = s.queue.Enqueue(job)
		}
	}

	logEvent(ctx, s.events, tenantID, "lead_created", &l.ID, map[string]any{
		"leadId":     l.ID,
		"email":      shared.RedactEmail(l.Email),
		"emailHash":  shared.HashPII(strings.ToLower(l.Email)),
		"partySize":  l.PartySize,
		"matchCount": res.MatchCount,
	})
	log.Info().Str("tenant", tenantID).Str("lead", l.ID).Int("matches", res.MatchCount).Msg("lead submitted")
	return res, nil
}

type IngestResult struct {
	Lead      domain.Lead `json:"lead"`
	PartySize int         `json:"partySize"`
	Location  *string     `json:"location"`
}

// IngestEmail turns a raw inbound e-mail into a parsed lead.
func (s *LeadService) IngestEmail(ctx context.Context, tenantID string, in EmailInput) (IngestResult, error) {
	ve := &ValidationError{}
	if !validEmail(strings.TrimSpace(in.From)) {
		ve.add("from", "must be a valid address")
	}
	if strings.TrimSpace(in.Subject) == "" && strings.TrimSpace(in.Body) == "" {
		ve.add("body", "subject or body is required")
	}
	if err := ve.orNil(); err != nil {
		return IngestResult{}, err
	}

	combined := strings.ToLower(in.Subject + " " + in.Body)
	res := IngestResult{PartySize: parsePartySize(combined)}
	if r, ok := parseLocation(combined); ok {
		loc := string(r)
		res.Location = &loc
	}

	l, err := s.leads.CreateLead(ctx, domain.Lead{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Email:     strings.TrimSpace(in.From),
		Notes:     in.Subject + "\n\n" + in.Body,
		PartySize: res.PartySize,
		Location:  res.Location,
		Status:    domain.LeadStatusParsed,
	})
	if err != nil {
		return IngestResult{}, fmt.Errorf("create lead: %w", err)
	}
	res.Lead = l
	observability.ObserveLead("email")

	logEvent(ctx, s.events, tenantID, "email_ingested", &l.ID, map[string]any{
		"from":            shared.RedactEmail(l.Email),
		"fromHash":        shared.HashPII(strings.ToLower(l.Email)),
		"subject":         in.Subject,
		"parsedPartySize": res.PartySize,
		"parsedLocation":  res.Location,
	})
	return res, nil
}

// ---- quotes ----

type quoteStore interface {
	domain.QuoteRepository
	GetYacht(ctx context.Context, id string) (domain.Yacht, error)
	GetLead(ctx context.Context, id string) (domain.Lead, error)
}

type QuoteService struct {
	store  quoteStore
	events domain.EventLog
}

func NewQuoteService(s quoteStore, ev domain.EventLog) *QuoteService {
	return &QuoteService{store: s, events: ev}
}

type QuoteResult struct {
	Quote     domain.Quote `json:"quote"`
	Formatted string       `json:"formatted"`
}

// Calculate prices a tenant's yacht and stores the quote. Yachts and leads of
// other tenants are reported as not found.
func (s *QuoteService) Calculate(ctx context.Context, tenantID string, in QuoteInput) (QuoteResult, error) {
	if strings.TrimSpace(in.YachtID) == "" {
		return QuoteResult{}, &ValidationError{Fields: map[string]string{"yachtId": "is required"}}
	}
	weeks, extras := quote.DefaultWeeks, quote.DefaultExtras
	if in.Weeks != nil {
		weeks = *in.Weeks
	}
	if in.Extras != nil {
		extras = *in.Extras
	}

	y, err := s.store.GetYacht(ctx, in.YachtID)
	if err != nil || y.TenantID != tenantID {
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return QuoteResult{}, fmt.Errorf("yacht %s: %w", in.YachtID, domain.ErrNotFound)
		}
		return QuoteResult{}, err
	}
	if in.LeadID != nil {
		l, err := s.store.GetLead(ctx, *in.LeadID)
		if err != nil || l.TenantID != tenantID {
			if err == nil || errors.Is(err, domain.ErrNotFound) {
				return QuoteResult{}, fmt.Errorf("lead %s: %w", *in.LeadID, domain.ErrNotFound)
			}
			return QuoteResult{}, err
		}
	}

	b, err := quote.Calculate(y, weeks, extras)
	if err != nil {
		return QuoteResult{}, err
	}
	q, err := s.store.CreateQuote(ctx, domain.Quote{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		LeadID:         in.LeadID,
		YachtID:        y.ID,
		Weeks:          weeks,
		QuoteBreakdown: b,
	})
	if err != nil {
		return QuoteResult{}, fmt.Errorf("create quote: %w", err)
	}
	observability.ObserveQuote()

	logEvent(ctx, s.events, tenantID, "quote_calculated", &q.ID, map[string]any{
		"yachtId": y.ID, "weeks": weeks, "total": b.Total,
	})
	return QuoteResult{Quote: q, Formatted: quote.FormatBreakdown(b)}, nil
}

func (s *QuoteService) Get(ctx context.Context, tenantID, id string) (QuoteResult, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return QuoteResult{}, err
	}
	if q.TenantID != tenantID {
		return QuoteResult{}, domain.ErrNotFound
	}
	return QuoteResult{Quote: q, Formatted: quote.FormatBreakdown(q.QuoteBreakdown)}, nil
}

// ---- seeding ----

type yachtWriter interface {
	CreateYacht(ctx context.Context, y domain.Yacht) (domain.Yacht, error)
	GetTenant(ctx context.Context, id string) (domain.Tenant, error)
}

type SeedService struct {
	store  yachtWriter
	events domain.EventLog
	search *SearchService
}

func NewSeedService(s yachtWriter, ev domain.EventLog, search *SearchService) *SeedService {
	return &SeedService{store: s, events: ev, search: search}
}

// SeedFleet inserts the demo fleet for an existing tenant and returns how many yachts were added.
func (s *SeedService) SeedFleet(ctx context.Context, tenantID string) (int, error) {
	if _, err := s.store.GetTenant(ctx, tenantID); err != nil {
		return 0, err
	}
	fleet := make([]domain.Yacht, 0, len(shared.DemoFleet))
	for _, y := range shared.DemoFleet {
		y.TenantID = tenantID
		fleet = append(fleet, y)
	}
	n, err := s.insert(ctx, tenantID, fleet)
	if err != nil {
		return n, err
	}
	logEvent(ctx, s.events, tenantID, "yachts_seeded", nil, map[string]any{"count": n})
	log.Info().Str("tenant", tenantID).Int("count", n).Msg("fleet seeded")
	return n, nil
}

// Upload adds a tenant's own inventory. Every row is validated before the
// first insert; an id already in use fails with ErrConflict.
func (s *SeedService) Upload(ctx context.Context, tenantID string, in []YachtInput) (int, error) {
	if _, err := s.store.GetTenant(ctx, tenantID); err != nil {
		return 0, err
	}
	yachts, err := toYachts(tenantID, in)
	if err != nil {
		return 0, err
	}
	n, err := s.insert(ctx, tenantID, yachts)
	if err != nil {
		return n, err
	}
	logEvent(ctx, s.events, tenantID, "yachts_uploaded", nil, map[string]any{"count": n})
	log.Info().Str("tenant", tenantID).Int("count", n).Msg("inventory uploaded")
	return n, nil
}

// insert writes yachts in order and drops the tenant's cached searches once
// anything was written, even if a later row failed.
func (s *SeedService) insert(ctx context.Context, tenantID string, yachts []domain.Yacht) (int, error) {
	n := 0
	var err error
	for _, y := range yachts {
		if y.ID == "" {
			y.ID = uuid.NewString()
		}
		if _, err = s.store.CreateYacht(ctx, y); err != nil {
			err = fmt.Errorf("insert %s: %w", y.Name, err)
			break
		}
		n++
	}
	if n > 0 && s.search != nil {
		if ierr := s.search.InvalidateTenant(ctx, tenantID); ierr != nil {
			log.Warn().Err(ierr).Str("tenant", tenantID).Msg("invalidate search cache")
		}
	}
	return n, err
}

// ---- tenants ----

type TenantService struct {
	repo   domain.TenantRepository
	events domain.EventLog
}

func NewTenantService(r domain.TenantRepository, ev domain.EventLog) *TenantService {
	return &TenantService{repo: r, events: ev}
}

func (s *TenantService) Upsert(ctx context.Context, in TenantInput) (domain.Tenant, error) {
	if err := in.validate(); err != nil {
		return domain.Tenant{}, err
	}
	t, err := s.repo.UpsertTenant(ctx, in.toTenant())
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("upsert tenant: %w", err)
	}
	logEvent(ctx, s.events, t.ID, "tenant_created", nil, map[string]any{"tenantId": t.ID, "name": t.Name})
	return t, nil
}

func (s *TenantService) Get(ctx context.Context, id string) (domain.Tenant, error) {
	return s.repo.GetTenant(ctx, id)
}
