package memory_test

import (
	"context"
	"errors"
	"testing"

	"yacht_automate/internal/domain"
	"yacht_automate/internal/storage/memory"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, db *memory.DB) {
	t.Helper()
	ctx := context.Background()
	if _, err := db.UpsertTenant(ctx, domain.Tenant{ID: "t1", Name: "Demo"}); err != nil {
		t.Fatalf("UpsertTenant: %v", err)
	}
	for _, y := range []domain.Yacht{
		{TenantID: "t1", Name: "AQUA", Builder: "Benetti", Type: "Motor Yacht", LengthM: 73, Region: domain.RegionMediterranean, Guests: 12, WeeklyRate: 195000},
		{TenantID: "t1", Name: "WIND", Builder: "Perini Navi", Type: "Sailing Yacht", LengthM: 56, Region: domain.RegionMediterranean, Guests: 10, WeeklyRate: 120000},
		{TenantID: "t1", Name: "CAT", Builder: "Sunreef", Type: "Catamaran", LengthM: 24, Region: domain.RegionCaribbean, Guests: 8, WeeklyRate: 45000},
	} {
		if _, err := db.CreateYacht(ctx, y); err != nil {
			t.Fatalf("CreateYacht: %v", err)
		}
	}
}

func TestSearchYachts_Filters(t *testing.T) {
	db := memory.New()
	seed(t, db)
	ctx := context.Background()

	all, _ := db.SearchYachts(ctx, "t1", domain.YachtFilter{})
	if all.Total != 3 || all.Items[0].Name != "CAT" || all.Items[2].Name != "AQUA" {
		t.Fatalf("expected 3 yachts ordered by rate, got %+v", all.Items)
	}

	med, _ := db.SearchYachts(ctx, "t1", domain.YachtFilter{Region: ptr(domain.Region("mediterranean"))})
	if med.Total != 2 {
		t.Fatalf("region filter total = %d", med.Total)
	}

	strict, _ := db.SearchYachts(ctx, "t1", domain.YachtFilter{Guests: 9, StrictGuests: true})
	if strict.Total != 1 || strict.Items[0].Name != "WIND" {
		t.Fatalf("strict guests: %+v", strict.Items)
	}

	q, _ := db.SearchYachts(ctx, "t1", domain.YachtFilter{Q: ptr("sun")})
	if q.Total != 1 || q.Items[0].Name != "CAT" {
		t.Fatalf("q filter: %+v", q.Items)
	}

	paged, _ := db.SearchYachts(ctx, "t1", domain.YachtFilter{Limit: 1, Offset: 1})
	if paged.Total != 3 || len(paged.Items) != 1 || paged.Items[0].Name != "WIND" {
		t.Fatalf("paging: total=%d items=%+v", paged.Total, paged.Items)
	}

	other, _ := db.SearchYachts(ctx, "t2", domain.YachtFilter{})
	if other.Total != 0 {
		t.Fatalf("tenant isolation broken: %d", other.Total)
	}
}

func TestCreateYacht_UnknownTenant(t *testing.T) {
	db := memory.New()
	_, err := db.CreateYacht(context.Background(), domain.Yacht{TenantID: "nope", Name: "X"})
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestQuoteAndLeadRoundTrip(t *testing.T) {
	db := memory.New()
	seed(t, db)
	ctx := context.Background()

	page, _ := db.SearchYachts(ctx, "t1", domain.YachtFilter{Limit: 1})
	y := page.Items[0]

	l, err := db.CreateLead(ctx, domain.Lead{TenantID: "t1", Email: "a@b.c", Notes: "hi", PartySize: 4})
	if err != nil || l.ID == "" || l.Status != domain.LeadStatusNew {
		t.Fatalf("CreateLead: %+v %v", l, err)
	}

	q, err := db.CreateQuote(ctx, domain.Quote{TenantID: "t1", YachtID: y.ID, LeadID: &l.ID, Weeks: 1,
		QuoteBreakdown: domain.QuoteBreakdown{BasePrice: 1, Total: 1, Currency: "EUR"}})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	got, err := db.GetQuote(ctx, q.ID)
	if err != nil || got.YachtID != y.ID || *got.LeadID != l.ID {
		t.Fatalf("GetQuote: %+v %v", got, err)
	}

	if _, err := db.GetQuote(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateYacht_DuplicateID(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	if _, err := db.UpsertTenant(ctx, domain.Tenant{ID: "t1", Name: "Demo"}); err != nil {
		t.Fatalf("UpsertTenant: %v", err)
	}
	y := domain.Yacht{ID: "y-1", TenantID: "t1", Name: "AQUA", Region: domain.RegionMediterranean, Guests: 12, WeeklyRate: 195000}
	if _, err := db.CreateYacht(ctx, y); err != nil {
		t.Fatalf("CreateYacht: %v", err)
	}
	if _, err := db.CreateYacht(ctx, y); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
