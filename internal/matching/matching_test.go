package matching_test

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"yacht_automate/internal/domain"
	"yacht_automate/internal/matching"
)

func spectre() domain.Yacht {
	return domain.Yacht{
		ID: "y-spectre", Name: "SPECTRE", Builder: "Sunseeker", Type: "Motor Yacht",
		Region: domain.RegionMediterranean, Guests: 10, Cabins: 5, WeeklyRate: 175000, Currency: "EUR",
	}
}

func TestMapRegions(t *testing.T) {
	cases := []struct {
		in   string
		want domain.RegionSet
	}{
		{"Looking for a charter near Nassau", domain.RegionSet{domain.RegionBahamas}},
		{"French Riviera in July", domain.RegionSet{domain.RegionMediterranean}},
		{"ST LUCIA or Grenada", domain.RegionSet{domain.RegionCaribbean}},
		{"medical conference", domain.RegionSet{domain.RegionMediterranean}},
		{"Greece then the BVI", domain.RegionSet{domain.RegionMediterranean, domain.RegionCaribbean}},
		{"", nil},
		{"   ", nil},
		{"Norway fjords", nil},
	}
	for _, c := range cases {
		got := matching.MapRegions(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("MapRegions(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := matching.Tokenize("Luxury Motor-Yacht, 8 guests!!")
	want := []string{"luxury", "motor", "yacht", "guests"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	if toks := matching.Tokenize("a an to !! ??"); len(toks) != 0 {
		t.Fatalf("expected no tokens, got %v", toks)
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	for _, in := range []string{
		"Luxury Motor-Yacht, 8 guests!!",
		"Sailing/catamaran   in the BVI; 12 pax (maybe 14)",
		"Ünïcode café — crème brûlée",
		"",
	} {
		first := matching.Tokenize(in)
		second := matching.Tokenize(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) && !(len(first) == 0 && len(second) == 0) {
			t.Fatalf("not idempotent for %q: %v vs %v", in, first, second)
		}
	}
}

func TestScore_Spectre(t *testing.T) {
	got := matching.Score(spectre(), []string{"motor", "luxury"}, domain.RegionSet{domain.RegionMediterranean}, 10)
	if got != 195 {
		t.Fatalf("score = %d, want 195", got)
	}

	b := matching.Explain(spectre(), []string{"motor", "luxury"}, domain.RegionSet{domain.RegionMediterranean}, 10)
	if b.Region != 100 || b.Tokens != 10 || b.Guests != 50 || b.TypeBonus != 20 || b.Luxury != 15 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
	if b.Total() != got {
		t.Fatalf("breakdown total %d != score %d", b.Total(), got)
	}
}

func TestScore_RegionBonusOnlyWhenInSet(t *testing.T) {
	y := spectre()
	sets := []domain.RegionSet{
		nil,
		{domain.RegionCaribbean},
		{domain.RegionMediterranean},
		{domain.RegionBahamas, domain.RegionMediterranean},
	}
	for _, rs := range sets {
		b := matching.Explain(y, nil, rs, 0)
		want := 0
		if rs.Contains(y.Region) {
			want = 100
		}
		if b.Region != want {
			t.Fatalf("regions %v: bonus %d, want %d", rs, b.Region, want)
		}
	}
}

func TestGuestBonus_MonotonicInDistance(t *testing.T) {
	prev := matching.GuestBonus(10, 10)
	for d := 1; d <= 10; d++ {
		up := matching.GuestBonus(10+d, 10)
		down := matching.GuestBonus(10-d, 10)
		if up != down {
			t.Fatalf("asymmetric bonus at distance %d: %d vs %d", d, up, down)
		}
		if up > prev {
			t.Fatalf("bonus increased at distance %d: %d > %d", d, up, prev)
		}
		prev = up
	}
	if matching.GuestBonus(12, 10) != 30 || matching.GuestBonus(14, 10) != 10 || matching.GuestBonus(15, 10) != 0 {
		t.Fatalf("unexpected guest bonus table")
	}
}

func TestScore_TypeBonusesStack(t *testing.T) {
	cat := domain.Yacht{Name: "LIR", Builder: "Sunreef", Type: "Sailing Catamaran", Guests: 8, WeeklyRate: 40000}
	// "sailing" contains "sail", so the token earns both bonuses.
	b := matching.Explain(cat, []string{"sail", "catamaran", "luxury"}, nil, 20)
	if b.Tokens != 20 {
		t.Fatalf("token bonus = %d, want 20", b.Tokens)
	}
	if b.TypeBonus != 40 {
		t.Fatalf("type bonus = %d, want 40", b.TypeBonus)
	}
	if b.Luxury != 0 {
		t.Fatalf("luxury should not apply under the rate floor, got %d", b.Luxury)
	}
}

func TestCandidates_StrictBand(t *testing.T) {
	inv := []domain.Yacht{
		{ID: "a", Guests: 9, Region: domain.RegionCaribbean},
		{ID: "b", Guests: 8, Region: domain.RegionCaribbean},
		{ID: "c", Guests: 6, Region: domain.RegionMediterranean},
		{ID: "d", Guests: 5, Region: domain.RegionCaribbean},
	}

	strict := matching.Candidates(inv, 6, nil, true)
	if ids(strict) != "b,c" {
		t.Fatalf("strict candidates = %s", ids(strict))
	}

	loose := matching.Candidates(inv, 6, nil, false)
	if ids(loose) != "a,b,c" {
		t.Fatalf("loose candidates = %s", ids(loose))
	}

	carib := matching.Candidates(inv, 6, domain.RegionSet{domain.RegionCaribbean}, false)
	if ids(carib) != "a,b" {
		t.Fatalf("region-filtered candidates = %s", ids(carib))
	}
}

func TestRank_Ordering(t *testing.T) {
	inv := []domain.Yacht{
		{ID: "pricey", Name: "A", Type: "Motor Yacht", Guests: 8, WeeklyRate: 90000},
		{ID: "cheap", Name: "B", Type: "Motor Yacht", Guests: 8, WeeklyRate: 60000},
		{ID: "best", Name: "C", Type: "Motor Yacht", Guests: 6, WeeklyRate: 120000},
		{ID: "sail", Name: "D", Type: "Sailing Yacht", Guests: 6, WeeklyRate: 30000},
	}
	res := matching.Rank(inv, []string{"motor"}, nil, 6)
	if len(res) != 4 {
		t.Fatalf("expected 4 results, got %d", len(res))
	}
	for i := 1; i < len(res); i++ {
		a, b := res[i-1], res[i]
		if a.Score < b.Score || (a.Score == b.Score && a.Yacht.WeeklyRate > b.Yacht.WeeklyRate) {
			t.Fatalf("results out of order at %d: %+v then %+v", i, a, b)
		}
	}
	if res[0].Yacht.ID != "best" || res[1].Yacht.ID != "cheap" || res[2].Yacht.ID != "pricey" {
		t.Fatalf("unexpected order: %s", resultIDs(res))
	}
}

type fakeInventory struct {
	items []domain.Yacht
	got   domain.YachtFilter
}

func (f *fakeInventory) SearchYachts(ctx context.Context, tenantID string, flt domain.YachtFilter) (domain.YachtPage, error) {
	f.got = flt
	return domain.YachtPage{Items: f.items, Total: len(f.items)}, nil
}

func TestMatcher_Match(t *testing.T) {
	inv := &fakeInventory{items: []domain.Yacht{
		spectre(),
		{ID: "carib", Name: "CARIB", Type: "Motor Yacht", Region: domain.RegionCaribbean, Guests: 10, WeeklyRate: 85000},
		{ID: "big", Name: "BIG", Type: "Motor Yacht", Region: domain.RegionMediterranean, Guests: 16, WeeklyRate: 350000},
	}}
	m := matching.NewMatcher(inv)

	q, res, err := m.Match(context.Background(), domain.Inquiry{
		TenantID: "t1", Notes: "Luxury motor yacht please", PartySize: 10, Location: "Monaco",
	}, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !inv.got.StrictGuests || inv.got.Guests != 10 {
		t.Fatalf("provider filter not forwarded: %+v", inv.got)
	}
	if !reflect.DeepEqual(q.Regions, domain.RegionSet{domain.RegionMediterranean}) {
		t.Fatalf("regions = %v", q.Regions)
	}
	if len(res) != 1 || res[0].Yacht.ID != "y-spectre" {
		t.Fatalf("unexpected results: %s", resultIDs(res))
	}
	// region 100, motor+yacht 20, guests 50, motor type 20, luxury 15
	if res[0].Score != 205 {
		t.Fatalf("score = %d, want 205", res[0].Score)
	}
}

func ids(ys []domain.Yacht) string {
	out := make([]string, len(ys))
	for i, y := range ys {
		out[i] = y.ID
	}
	return strings.Join(out, ",")
}

func resultIDs(rs []domain.MatchResult) string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Yacht.ID
	}
	return strings.Join(out, ",")
}
