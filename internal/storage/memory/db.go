package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"yacht_automate/internal/domain"
)

// DB is a mutex-guarded in-memory domain.Store. Search semantics match the MySQL repo.
type DB struct {
	mu          sync.RWMutex
	tenants     map[string]domain.Tenant
	yachts      map[string]domain.Yacht
	leads       map[string]domain.Lead
	quotes      map[string]domain.Quote
	events      []domain.Event
	deadLetters []domain.DeadLetter
	now         func() time.Time
}

func New() *DB {
	return &DB{
		tenants: make(map[string]domain.Tenant),
		yachts:  make(map[string]domain.Yacht),
		leads:   make(map[string]domain.Lead),
		quotes:  make(map[string]domain.Quote),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ---- tenants ----

func (db *DB) UpsertTenant(_ context.Context, t domain.Tenant) (domain.Tenant, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.now()
	if prev, ok := db.tenants[t.ID]; ok {
		t.CreatedAt = prev.CreatedAt
	} else {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	db.tenants[t.ID] = t
	return t, nil
}

func (db *DB) GetTenant(_ context.Context, id string) (domain.Tenant, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tenants[id]
	if !ok {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, nil
}

// ---- yachts ----

func (db *DB) CreateYacht(_ context.Context, y domain.Yacht) (domain.Yacht, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tenants[y.TenantID]; !ok {
		return domain.Yacht{}, fmt.Errorf("create yacht %q: %w", y.Name, domain.ErrTenantNotFound)
	}
	if y.ID == "" {
		y.ID = uuid.NewString()
	}
	if _, dup := db.yachts[y.ID]; dup {
		return domain.Yacht{}, fmt.Errorf("create yacht %q: id %s: %w", y.Name, y.ID, domain.ErrConflict)
	}
	if y.Currency == "" {
		y.Currency = "EUR"
	}
	now := db.now()
	y.CreatedAt, y.UpdatedAt = now, now
	db.yachts[y.ID] = y
	return y, nil
}

func (db *DB) GetYacht(_ context.Context, id string) (domain.Yacht, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	y, ok := db.yachts[id]
	if !ok {
		return domain.Yacht{}, domain.ErrNotFound
	}
	return y, nil
}

func (db *DB) SearchYachts(_ context.Context, tenantID string, f domain.YachtFilter) (domain.YachtPage, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var items []domain.Yacht
	for _, y := range db.yachts {
		if y.TenantID == tenantID && matches(y, f) {
			items = append(items, y)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].WeeklyRate != items[j].WeeklyRate {
			return items[i].WeeklyRate < items[j].WeeklyRate
		}
		return items[i].ID < items[j].ID
	})

	total := len(items)
	if f.Offset > 0 {
		if f.Offset >= len(items) {
			items = nil
		} else {
			items = items[f.Offset:]
		}
	}
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return domain.YachtPage{Items: items, Total: total}, nil
}

func matches(y domain.Yacht, f domain.YachtFilter) bool {
	if f.Region != nil && !strings.EqualFold(string(y.Region), string(*f.Region)) {
		return false
	}
	if f.Q != nil && *f.Q != "" {
		q := strings.ToLower(*f.Q)
		if !strings.Contains(strings.ToLower(y.Name), q) &&
			!strings.Contains(strings.ToLower(y.Builder), q) &&
			!strings.Contains(strings.ToLower(y.Type), q) {
			return false
		}
	}
	if f.Type != nil && *f.Type != "" && !strings.EqualFold(y.Type, *f.Type) {
		return false
	}
	if f.Guests > 0 {
		if y.Guests < f.Guests {
			return false
		}
		if f.StrictGuests && y.Guests-f.Guests > 2 {
			return false
		}
	}
	if f.MinLength > 0 && y.LengthM < f.MinLength {
		return false
	}
	if f.MaxLength > 0 && y.LengthM > f.MaxLength {
		return false
	}
	if f.MaxPrice > 0 && y.WeeklyRate > f.MaxPrice {
		return false
	}
	return true
}

// ---- leads ----

func (db *DB) CreateLead(_ context.Context, l domain.Lead) (domain.Lead, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	l.CreatedAt = db.now()
	db.leads[l.ID] = l
	return l, nil
}

func (db *DB) GetLead(_ context.Context, id string) (domain.Lead, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	l, ok := db.leads[id]
	if !ok {
		return domain.Lead{}, domain.ErrNotFound
	}
	return l, nil
}

// ---- quotes ----

func (db *DB) CreateQuote(_ context.Context, q domain.Quote) (domain.Quote, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.yachts[q.YachtID]; !ok {
		return domain.Quote{}, fmt.Errorf("create quote for yacht %s: %w", q.YachtID, domain.ErrNotFound)
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = db.now()
	db.quotes[q.ID] = q
	return q, nil
}

func (db *DB) GetQuote(_ context.Context, id string) (domain.Quote, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	q, ok := db.quotes[id]
	if !ok {
		return domain.Quote{}, domain.ErrNotFound
	}
	return q, nil
}

// ---- events & dead letters ----

func (db *DB) LogEvent(_ context.Context, e domain.Event) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = db.now()
	db.events = append(db.events, e)
	return nil
}

func (db *DB) StoreDeadLetter(_ context.Context, d domain.DeadLetter) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = db.now()
	db.deadLetters = append(db.deadLetters, d)
	return nil
}

// Events returns a copy of the logged events of one type ("" for all).
func (db *DB) Events(eventType string) []domain.Event {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []domain.Event
	for _, e := range db.events {
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (db *DB) DeadLetters() []domain.DeadLetter {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return append([]domain.DeadLetter(nil), db.deadLetters...)
}
