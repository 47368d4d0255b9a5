package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"

	"yacht_automate/internal/domain"
)

// ---- request inputs ----

type LeadInput struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Notes     string `json:"notes"`
	PartySize int    `json:"partySize"`
	Location  string `json:"location,omitempty"`
	Dates     string `json:"dates,omitempty"`
	Budget    *int64 `json:"budget,omitempty"`
}

type EmailInput struct {
	From       string `json:"from"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	ReceivedAt string `json:"receivedAt,omitempty"`
}

type QuoteInput struct {
	YachtID string  `json:"yachtId"`
	Weeks   *int64  `json:"weeks,omitempty"`
	Extras  *int64  `json:"extras,omitempty"`
	LeadID  *string `json:"leadId,omitempty"`
}

type TenantInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SMTPHost  string `json:"smtpHost,omitempty"`
	SMTPPort  int    `json:"smtpPort,omitempty"`
	SMTPUser  string `json:"smtpUser,omitempty"`
	SMTPPass  string `json:"smtpPass,omitempty"`
	FromName  string `json:"fromName,omitempty"`
	FromEmail string `json:"fromEmail,omitempty"`
}

type MatchInput struct {
	Notes     string `json:"notes"`
	PartySize int    `json:"partySize"`
	Location  string `json:"location,omitempty"`
	Strict    *bool  `json:"strict,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Explain   bool   `json:"explain,omitempty"`
}

// YachtInput is one row of a tenant inventory upload.
type YachtInput struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Builder    string `json:"builder"`
	Type       string `json:"type"`
	LengthM    int    `json:"length"`
	Area       string `json:"area"`
	Cabins     int    `json:"cabins"`
	Guests     int    `json:"guests"`
	WeeklyRate int64  `json:"weeklyRate"`
	Currency   string `json:"currency,omitempty"`
}

const maxUploadYachts = 1000

// ---- validation + mapping ----

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

func (in LeadInput) validate() error {
	ve := &ValidationError{}
	if !validEmail(strings.TrimSpace(in.Email)) {
		ve.add("email", "must be a valid address")
	}
	if in.PartySize < 1 {
		ve.add("partySize", "must be at least 1")
	}
	if in.Budget != nil && *in.Budget < 0 {
		ve.add("budget", "must not be negative")
	}
	return ve.orNil()
}

func (in LeadInput) toLead(tenantID string) domain.Lead {
	return domain.Lead{
		TenantID:  tenantID,
		Email:     strings.TrimSpace(in.Email),
		Name:      optStr(in.Name),
		Notes:     in.Notes,
		PartySize: in.PartySize,
		Location:  optStr(in.Location),
		Dates:     optStr(in.Dates),
		Budget:    in.Budget,
		Status:    domain.LeadStatusNew,
	}
}

func (in TenantInput) validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(in.ID) == "" {
		ve.add("id", "is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.add("name", "is required")
	}
	if in.SMTPPort < 0 || in.SMTPPort > 65535 {
		ve.add("smtpPort", "out of range")
	}
	if in.FromEmail != "" && !validEmail(in.FromEmail) {
		ve.add("fromEmail", "must be a valid address")
	}
	return ve.orNil()
}

func (in TenantInput) toTenant() domain.Tenant {
	t := domain.Tenant{
		ID:        strings.TrimSpace(in.ID),
		Name:      strings.TrimSpace(in.Name),
		SMTPHost:  optStr(in.SMTPHost),
		SMTPUser:  optStr(in.SMTPUser),
		SMTPPass:  optStr(in.SMTPPass),
		FromName:  optStr(in.FromName),
		FromEmail: optStr(in.FromEmail),
	}
	if in.SMTPPort > 0 {
		p := in.SMTPPort
		t.SMTPPort = &p
	}
	return t
}

// toYachts validates a whole upload before anything is written. Field errors
// are keyed by row, e.g. "yachts[2].area".
func toYachts(tenantID string, in []YachtInput) ([]domain.Yacht, error) {
	ve := &ValidationError{}
	switch {
	case len(in) == 0:
		ve.add("yachts", "must contain at least one yacht")
	case len(in) > maxUploadYachts:
		ve.add("yachts", "at most 1000 yachts per upload")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	out := make([]domain.Yacht, 0, len(in))
	seen := map[string]int{}
	for i, y := range in {
		field := func(name string) string { return "yachts[" + strconv.Itoa(i) + "]." + name }
		id := strings.TrimSpace(y.ID)
		if id != "" {
			if j, dup := seen[id]; dup {
				ve.add(field("id"), "duplicates yachts["+strconv.Itoa(j)+"].id")
			}
			seen[id] = i
		}
		name := strings.TrimSpace(y.Name)
		if name == "" {
			ve.add(field("name"), "is required")
		}
		region, ok := domain.ParseRegion(y.Area)
		if !ok {
			ve.add(field("area"), "must be Mediterranean, Caribbean or Bahamas")
		}
		if y.Guests < 1 {
			ve.add(field("guests"), "must be at least 1")
		}
		if y.Cabins < 0 {
			ve.add(field("cabins"), "must not be negative")
		}
		if y.LengthM < 0 {
			ve.add(field("length"), "must not be negative")
		}
		if y.WeeklyRate <= 0 {
			ve.add(field("weeklyRate"), "must be positive")
		}
		code := "EUR"
		if c := strings.TrimSpace(y.Currency); c != "" {
			u, err := currency.ParseISO(c)
			if err != nil {
				ve.add(field("currency"), "must be an ISO 4217 code")
			}
			code = u.String()
		}
		out = append(out, domain.Yacht{
			ID: id, TenantID: tenantID, Name: name,
			Builder: strings.TrimSpace(y.Builder), Type: strings.TrimSpace(y.Type),
			LengthM: y.LengthM, Region: region, Cabins: y.Cabins, Guests: y.Guests,
			WeeklyRate: y.WeeklyRate, Currency: code,
		})
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ---- inbound e-mail parsing ----

const defaultPartySize = 4

var partySizeRe = regexp.MustCompile(`(\d+)\s*(?:guests?|people|persons?|pax)`)

// parsePartySize finds the first "<n> guests" style phrase in lower-cased text.
func parsePartySize(text string) int {
	m := partySizeRe.FindStringSubmatch(text)
	if m == nil {
		return defaultPartySize
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return defaultPartySize
	}
	return n
}

// parseLocation picks the first region hinted at. "med" is a plain substring
// check, so words like "medium" also count as Mediterranean.
func parseLocation(text string) (domain.Region, bool) {
	switch {
	case strings.Contains(text, "mediterranean"), strings.Contains(text, "med"):
		return domain.RegionMediterranean, true
	case strings.Contains(text, "caribbean"):
		return domain.RegionCaribbean, true
	case strings.Contains(text, "bahamas"):
		return domain.RegionBahamas, true
	}
	return "", false
}

// ---- cache keys ----

// searchKey hashes the filter so equal searches share one cache entry.
func searchKey(tenantID string, f domain.YachtFilter) string {
	b, _ := json.Marshal(f)
	sum := sha1.Sum(b)
	return searchPrefix(tenantID) + hex.EncodeToString(sum[:])
}

func searchPrefix(tenantID string) string { return "yachts:" + tenantID + ":" }
