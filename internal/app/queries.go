package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/matching"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	defaultMatchLimit  = 10
)

type SearchService struct {
	repo     domain.InventoryProvider
	events   domain.EventLog
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSearchService(r domain.InventoryProvider, ev domain.EventLog, c domain.Cache, ttl time.Duration) *SearchService {
	return &SearchService{repo: r, events: ev, cache: c, cacheTTL: ttl}
}

// Search returns one page of a tenant's inventory, served from cache when possible.
func (s *SearchService) Search(ctx context.Context, tenantID string, f domain.YachtFilter) (domain.YachtPage, error) {
	if err := validateFilter(&f); err != nil {
		return domain.YachtPage{}, err
	}

	key := searchKey(tenantID, f)
	var page domain.YachtPage
	hit := false
	if s.cache != nil {
		hit, _ = s.cache.Get(ctx, key, &page)
	}
	if !hit {
		var err error
		page, err = s.repo.SearchYachts(ctx, tenantID, f)
		if err != nil {
			return domain.YachtPage{}, err
		}
		if page.Items == nil {
			page.Items = []domain.Yacht{}
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
		}
	}

	logEvent(ctx, s.events, tenantID, "yacht_search", nil, map[string]any{
		"filter": f, "resultCount": len(page.Items), "cached": hit,
	})
	return page, nil
}

// InvalidateTenant drops every cached search for the tenant.
func (s *SearchService) InvalidateTenant(ctx context.Context, tenantID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DelPrefix(ctx, searchPrefix(tenantID))
}

func validateFilter(f *domain.YachtFilter) error {
	ve := &ValidationError{}
	if f.Limit == 0 {
		f.Limit = defaultSearchLimit
	}
	if f.Limit < 0 || f.Limit > maxSearchLimit {
		ve.add("limit", "must be between 1 and 100")
	}
	if f.Offset < 0 {
		ve.add("offset", "must not be negative")
	}
	if f.Guests < 0 {
		ve.add("guests", "must not be negative")
	}
	if f.MinLength > 0 && f.MaxLength > 0 && f.MinLength > f.MaxLength {
		ve.add("minLength", "must not exceed maxLength")
	}
	if f.Region != nil {
		r, ok := domain.ParseRegion(string(*f.Region))
		if !ok {
			ve.add("area", "unknown region")
		} else {
			f.Region = &r
		}
	}
	return ve.orNil()
}

// ---- matching ----

type MatchService struct {
	matcher *matching.Matcher
}

func NewMatchService(p domain.InventoryProvider) *MatchService {
	return &MatchService{matcher: matching.NewMatcher(p)}
}

type MatchView struct {
	domain.MatchResult
	Breakdown *matching.Breakdown `json:"breakdown,omitempty"`
}

type MatchOutput struct {
	Tokens  []string    `json:"tokens"`
	Regions []string    `json:"regions"`
	Total   int         `json:"total"`
	Matches []MatchView `json:"matches"`
}

// Match ranks the tenant's inventory for an inquiry. Strict guest matching is the default.
func (s *MatchService) Match(ctx context.Context, tenantID string, in MatchInput) (MatchOutput, error) {
	ve := &ValidationError{}
	if in.PartySize < 1 {
		ve.add("partySize", "must be at least 1")
	}
	if in.Limit < 0 || in.Limit > maxSearchLimit {
		ve.add("limit", "must be between 1 and 100")
	}
	if err := ve.orNil(); err != nil {
		return MatchOutput{}, err
	}
	strict := in.Strict == nil || *in.Strict
	limit := in.Limit
	if limit == 0 {
		limit = defaultMatchLimit
	}

	q, results, err := s.matcher.Match(ctx, domain.Inquiry{
		TenantID: tenantID, Notes: in.Notes, PartySize: in.PartySize, Location: in.Location,
	}, strict)
	if err != nil {
		return MatchOutput{}, err
	}
	observability.ObserveMatch(len(results))

	out := MatchOutput{Tokens: q.Tokens, Regions: q.Regions.Strings(), Total: len(results), Matches: []MatchView{}}
	if out.Tokens == nil {
		out.Tokens = []string{}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	for _, r := range results {
		v := MatchView{MatchResult: r}
		if in.Explain {
			b := matching.Explain(r.Yacht, q.Tokens, q.Regions, q.PartySize)
			v.Breakdown = &b
		}
		out.Matches = append(out.Matches, v)
	}
	return out, nil
}

// logEvent appends to the tenant's event log. Failures are logged, never returned.
func logEvent(ctx context.Context, ev domain.EventLog, tenantID, typ string, entityID *string, payload any) {
	if ev == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		b = []byte("{}")
	}
	e := domain.Event{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Type:      typ,
		EntityID:  entityID,
		Payload:   b,
		CreatedAt: time.Now().UTC(),
	}
	if err := ev.LogEvent(ctx, e); err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("type", typ).Msg("log event")
	}
}
