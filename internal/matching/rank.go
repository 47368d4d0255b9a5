package matching

import (
	"context"
	"sort"

	"yacht_automate/internal/domain"
)

// strictGuestBand is how many berths above the party size strict mode tolerates.
const strictGuestBand = 2

// FitsParty applies the guest-capacity rule used before scoring.
func FitsParty(guests, partySize int, strict bool) bool {
	if guests < partySize {
		return false
	}
	return !strict || guests-partySize <= strictGuestBand
}

// Candidates keeps the yachts that fit the party and, when regions is
// non-empty, sit in one of those regions. inventory is not modified.
func Candidates(inventory []domain.Yacht, partySize int, regions domain.RegionSet, strict bool) []domain.Yacht {
	out := make([]domain.Yacht, 0, len(inventory))
	for _, y := range inventory {
		if !FitsParty(y.Guests, partySize, strict) {
			continue
		}
		if !regions.Empty() && !regions.Contains(y.Region) {
			continue
		}
		out = append(out, y)
	}
	return out
}

// Rank scores every yacht and orders by score desc, then weekly rate asc.
func Rank(inventory []domain.Yacht, tokens []string, regions domain.RegionSet, partySize int) []domain.MatchResult {
	out := make([]domain.MatchResult, len(inventory))
	for i, y := range inventory {
		out[i] = domain.MatchResult{Yacht: y, Score: Score(y, tokens, regions, partySize)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Yacht.WeeklyRate < out[j].Yacht.WeeklyRate
	})
	return out
}

// Matcher runs the whole pipeline against an inventory provider.
type Matcher struct {
	inventory domain.InventoryProvider
}

func NewMatcher(p domain.InventoryProvider) *Matcher { return &Matcher{inventory: p} }

// Query is the tokenized, region-mapped form of an inquiry.
type Query struct {
	Tokens    []string
	Regions   domain.RegionSet
	PartySize int
}

func ParseInquiry(in domain.Inquiry) Query {
	return Query{
		Tokens:    Tokenize(in.Notes),
		Regions:   MapRegions(in.Location),
		PartySize: in.PartySize,
	}
}

// Match fetches the tenant's inventory, filters it and returns ranked results.
// The provider is asked for the guest pre-filter; Candidates re-applies it so
// a provider that ignores filters still yields correct output.
func (m *Matcher) Match(ctx context.Context, in domain.Inquiry, strict bool) (Query, []domain.MatchResult, error) {
	q := ParseInquiry(in)

	page, err := m.inventory.SearchYachts(ctx, in.TenantID, domain.YachtFilter{
		Guests:       in.PartySize,
		StrictGuests: strict,
	})
	if err != nil {
		return q, nil, err
	}

	cands := Candidates(page.Items, q.PartySize, q.Regions, strict)
	return q, Rank(cands, q.Tokens, q.Regions, q.PartySize), nil
}
