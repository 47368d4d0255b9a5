// internal/matching/region.go
package matching

import (
	"strings"

	"yacht_automate/internal/domain"
)

// regionKeywords is checked with plain substring containment, so "med" also
// hits words like "medical". Order here is the order of the returned set.
var regionKeywords = []struct {
	region   domain.Region
	keywords []string
}{
	{domain.RegionMediterranean, []string{"med", "mediterranean", "france", "italy", "spain", "greece", "croatia", "monaco", "riviera"}},
	{domain.RegionCaribbean, []string{"caribbean", "barbados", "antigua", "st lucia", "grenada", "martinique", "dominica", "bvi", "virgin islands"}},
	{domain.RegionBahamas, []string{"bahamas", "nassau", "exuma", "eleuthera"}},
}

// MapRegions returns every region whose keywords appear in location.
// Empty or unrecognised input yields an empty set.
func MapRegions(location string) domain.RegionSet {
	low := strings.ToLower(location)
	if strings.TrimSpace(low) == "" {
		return nil
	}
	var out domain.RegionSet
	for _, rk := range regionKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(low, kw) {
				out = append(out, rk.region)
				break
			}
		}
	}
	return out
}
