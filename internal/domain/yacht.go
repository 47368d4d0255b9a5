package domain

import (
	"strings"
	"time"
)

// Region is one of the charter areas a yacht operates in.
type Region string

const (
	RegionMediterranean Region = "Mediterranean"
	RegionCaribbean     Region = "Caribbean"
	RegionBahamas       Region = "Bahamas"
)

// Regions lists every known region in display order.
var Regions = []Region{RegionMediterranean, RegionCaribbean, RegionBahamas}

// ParseRegion matches s case-insensitively against the known regions.
func ParseRegion(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Regions {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// RegionSet is an ordered set of regions. An empty set means "no region filter".
type RegionSet []Region

func (s RegionSet) Contains(r Region) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

func (s RegionSet) Empty() bool { return len(s) == 0 }

func (s RegionSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Yacht is a charter vessel owned by a tenant's inventory. Never mutated once created.
type Yacht struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	Name       string    `json:"name"`
	Builder    string    `json:"builder"`
	Type       string    `json:"type"`
	LengthM    int       `json:"length"`
	Region     Region    `json:"area"`
	Cabins     int       `json:"cabins"`
	Guests     int       `json:"guests"`
	WeeklyRate int64     `json:"weeklyRate"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// YachtFilter narrows an inventory search. Zero values mean "not set".
type YachtFilter struct {
	Region       *Region
	Q            *string
	Type         *string
	Guests       int
	StrictGuests bool
	MinLength    int
	MaxLength    int
	MaxPrice     int64
	Limit        int
	Offset       int
}

type YachtPage struct {
	Items []Yacht `json:"items"`
	Total int     `json:"total"`
}

// Inquiry is a customer request to match against an inventory. Not persisted.
type Inquiry struct {
	TenantID  string
	Notes     string
	PartySize int
	Location  string
}

// MatchResult pairs a yacht with its fitness score for one inquiry.
type MatchResult struct {
	Yacht Yacht `json:"yacht"`
	Score int   `json:"score"`
}
