package matching

import (
	"strings"

	"yacht_automate/internal/domain"
)

const (
	regionBonus      = 100
	tokenBonus       = 10
	typeKeywordBonus = 20
	luxuryBonus      = 15
	luxuryRateFloor  = 50000
)

// typeKeywords maps a query token to the substring it must find in yacht.Type.
var typeKeywords = map[string]string{
	"motor":     "motor",
	"sail":      "sail",
	"catamaran": "catamaran",
}

// Breakdown is the per-rule contribution to a yacht's score.
type Breakdown struct {
	Region      int      `json:"region"`
	Tokens      int      `json:"tokens"`
	Guests      int      `json:"guests"`
	TypeBonus   int      `json:"typeBonus"`
	Luxury      int      `json:"luxury"`
	MatchedText []string `json:"matchedTokens,omitempty"`
}

func (b Breakdown) Total() int {
	return b.Region + b.Tokens + b.Guests + b.TypeBonus + b.Luxury
}

// GuestBonus rewards capacity close to the party size; it never increases
// as the difference grows.
func GuestBonus(guests, partySize int) int {
	diff := guests - partySize
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 50
	case diff <= 2:
		return 30
	case diff <= 4:
		return 10
	default:
		return 0
	}
}

// Explain scores y against the query and reports each contribution.
// Type and luxury bonuses stack on top of the generic token bonus.
func Explain(y domain.Yacht, tokens []string, regions domain.RegionSet, partySize int) Breakdown {
	var b Breakdown

	if !regions.Empty() && regions.Contains(y.Region) {
		b.Region = regionBonus
	}

	searchable := strings.ToLower(y.Name + " " + y.Builder + " " + y.Type)
	yType := strings.ToLower(y.Type)
	for _, tok := range tokens {
		if strings.Contains(searchable, tok) {
			b.Tokens += tokenBonus
			b.MatchedText = append(b.MatchedText, tok)
		}
		if want, ok := typeKeywords[tok]; ok && strings.Contains(yType, want) {
			b.TypeBonus += typeKeywordBonus
		}
		if tok == "luxury" && y.WeeklyRate > luxuryRateFloor {
			b.Luxury += luxuryBonus
		}
	}

	b.Guests = GuestBonus(y.Guests, partySize)
	return b
}

// Score returns the additive fitness of y for the query. Deterministic.
func Score(y domain.Yacht, tokens []string, regions domain.RegionSet, partySize int) int {
	return Explain(y, tokens, regions, partySize).Total()
}
