// internal/quote/calculator.go
package quote

import (
	"github.com/shopspring/decimal"

	"yacht_automate/internal/domain"
)

const (
	DefaultWeeks  int64 = 1
	DefaultExtras int64 = 0
)

var (
	apaRate          = decimal.New(25, -2) // 25% of base, every region
	mediterraneanVAT = decimal.New(22, -2)
	zeroVAT          = decimal.Zero
)

// vatRate returns the VAT applied to the base charter fee in region r.
func vatRate(r domain.Region) decimal.Decimal {
	if r == domain.RegionMediterranean {
		return mediterraneanVAT
	}
	return zeroVAT
}

// Calculate prices a charter of weeks on y plus a flat extras amount.
// Percentages are applied with exact decimal arithmetic and rounded half away
// from zero to whole currency units, so each term is off by at most half a unit.
func Calculate(y domain.Yacht, weeks, extras int64) (domain.QuoteBreakdown, error) {
	if err := validate(y, weeks, extras); err != nil {
		return domain.QuoteBreakdown{}, err
	}

	base := y.WeeklyRate * weeks
	baseD := decimal.NewFromInt(base)
	apa := baseD.Mul(apaRate).Round(0).IntPart()
	vat := baseD.Mul(vatRate(y.Region)).Round(0).IntPart()

	return domain.QuoteBreakdown{
		BasePrice: base,
		APA:       apa,
		VAT:       vat,
		Extras:    extras,
		Total:     base + apa + vat + extras,
		Currency:  y.Currency,
	}, nil
}

// Priced pairs a yacht with its breakdown.
type Priced struct {
	Yacht domain.Yacht          `json:"yacht"`
	Quote domain.QuoteBreakdown `json:"quote"`
}

// CalculateMany prices every yacht with the same duration and extras.
func CalculateMany(yachts []domain.Yacht, weeks, extras int64) ([]Priced, error) {
	out := make([]Priced, 0, len(yachts))
	for _, y := range yachts {
		b, err := Calculate(y, weeks, extras)
		if err != nil {
			return nil, err
		}
		out = append(out, Priced{Yacht: y, Quote: b})
	}
	return out, nil
}

func validate(y domain.Yacht, weeks, extras int64) error {
	ie := newInputError()
	if weeks < 1 {
		ie.add("weeks", "must be at least 1")
	}
	if extras < 0 {
		ie.add("extras", "must not be negative")
	}
	if y.WeeklyRate <= 0 {
		ie.add("weeklyRate", "must be positive")
	}
	if ie.empty() {
		return nil
	}
	return ie
}
