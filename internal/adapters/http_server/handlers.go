// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/app"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/quote"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Search  *app.SearchService
	Match   *app.MatchService
	Leads   *app.LeadService
	Quotes  *app.QuoteService
	Seed    *app.SeedService
	Tenants *app.TenantService
	Monitor *observability.Monitor // optional

	AdminKey      string
	RatePerMinute int
	Idem          domain.IdempotencyStore // optional
	IdemTTL       time.Duration
	Version       string
	Env           string
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.banner)
	s.mux.Get("/health", h.health)

	s.mux.Route("/admin", func(r chi.Router) {
		r.Use(AdminOnly(h.AdminKey))
		r.Use(Idempotency(h.Idem, h.IdemTTL))
		r.Post("/tenants", h.upsertTenant)
		r.Post("/yachts/seed", h.seedYachts)
		r.Post("/yachts/upload", h.uploadYachts)
		r.Get("/status", h.status)
	})

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(TenantScope(h.Tenants))
		r.Use(RateLimit(h.RatePerMinute))
		r.Use(Idempotency(h.Idem, h.IdemTTL))
		r.Get("/yachts", h.searchYachts)
		r.Post("/match", h.match)
		r.Post("/leads", h.createLead)
		r.Post("/quotes", h.createQuote)
		r.Get("/quotes/{id}", h.getQuote)
		r.Post("/ingest/email", h.ingestEmail)
	})
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *app.ValidationError
	if errors.As(err, &ve) {
		writeProblemBody(w, problem{Type: "about:blank", Title: "Invalid Request", Status: http.StatusBadRequest, Errors: ve.Fields})
		return
	}
	if ie := quote.AsInputError(err); ie != nil {
		writeProblemBody(w, problem{Type: "about:blank", Title: "Invalid Request", Status: http.StatusBadRequest, Errors: ie.Fields()})
		return
	}
	switch {
	case errors.Is(err, domain.ErrTenantNotFound):
		writeProblem(w, http.StatusNotFound, "Tenant Not Found", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg("request failed")
		if h.Monitor != nil {
			h.Monitor.RecordError(err, routeOf(r))
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		detail := "body must be a JSON object"
		if errors.Is(err, io.EOF) {
			detail = "request body is empty"
		}
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", detail)
		return false
	}
	return true
}

// ---- public ----

func (h *Handlers) banner(w http.ResponseWriter, r *http.Request) {
	v := h.Version
	if v == "" {
		v = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Yacht Automate - Charter API",
		"status":  "operational",
		"version": v,
		"endpoints": map[string]string{
			"health": "GET /health",
			"search": "GET /v1/yachts (requires X-Tenant-Id)",
			"match":  "POST /v1/match (requires X-Tenant-Id)",
			"lead":   "POST /v1/leads (requires X-Tenant-Id)",
			"quote":  "POST /v1/quotes (requires X-Tenant-Id)",
			"ingest": "POST /v1/ingest/email (requires X-Tenant-Id)",
			"admin":  "/admin/* (requires X-Admin-Key)",
		},
	})
}

func (h *Handlers) healthStatus() observability.HealthStatus {
	if h.Monitor == nil {
		now := time.Now().UTC()
		return observability.HealthStatus{Status: "healthy", Timestamp: now, LastHealthCheck: now, Environment: h.Env}
	}
	return h.Monitor.Status()
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	st := h.healthStatus()
	code := http.StatusOK
	if st.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, st)
}

// ---- admin ----

func (h *Handlers) upsertTenant(w http.ResponseWriter, r *http.Request) {
	var in app.TenantInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.Tenants.Upsert(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tenant": t})
}

func (h *Handlers) seedYachts(w http.ResponseWriter, r *http.Request) {
	tenantID := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
	if tenantID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Tenant", "X-Tenant-Id header required for seeding")
		return
	}
	n, err := h.Seed.SeedFleet(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "seeded": n})
}

type uploadRequest struct {
	Yachts []app.YachtInput `json:"yachts"`
}

func (h *Handlers) uploadYachts(w http.ResponseWriter, r *http.Request) {
	tenantID := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
	if tenantID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Tenant", "X-Tenant-Id header required for upload")
		return
	}
	var in uploadRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	n, err := h.Seed.Upload(r.Context(), tenantID, in.Yachts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": n})
}

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	v := h.Version
	if v == "" {
		v = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"health":      h.healthStatus(),
		"environment": h.Env,
		"version":     v,
	})
}

// ---- tenant scoped ----

type yachtsResponse struct {
	Yachts []domain.Yacht `json:"yachts"`
	Count  int            `json:"count"`
	Total  int            `json:"total"`
}

func (h *Handlers) searchYachts(w http.ResponseWriter, r *http.Request) {
	f, err := parseYachtFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.Search.Search(r.Context(), tenantFrom(r.Context()), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeWithETag(w, r, yachtsResponse{Yachts: page.Items, Count: len(page.Items), Total: page.Total})
}

// parseYachtFilter reads the search query string. strictGuests defaults to on.
func parseYachtFilter(r *http.Request) (domain.YachtFilter, error) {
	q := r.URL.Query()
	ve := &app.ValidationError{Fields: map[string]string{}}
	num := func(name string) int64 {
		s := q.Get(name)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			ve.Fields[name] = "must be an integer"
		}
		return n
	}

	f := domain.YachtFilter{
		Guests:       int(num("guests")),
		StrictGuests: true,
		MinLength:    int(num("minLength")),
		MaxLength:    int(num("maxLength")),
		MaxPrice:     num("maxPrice"),
		Limit:        int(num("limit")),
		Offset:       int(num("offset")),
	}
	switch strings.ToLower(q.Get("strictGuests")) {
	case "", "1", "true":
	case "0", "false":
		f.StrictGuests = false
	default:
		ve.Fields["strictGuests"] = "must be 0 or 1"
	}
	if a := q.Get("area"); a != "" {
		reg := domain.Region(a)
		f.Region = &reg
	}
	if s := strings.TrimSpace(q.Get("q")); s != "" {
		f.Q = &s
	}
	if s := strings.TrimSpace(q.Get("type")); s != "" {
		f.Type = &s
	}
	if len(ve.Fields) > 0 {
		return f, ve
	}
	return f, nil
}

func (h *Handlers) match(w http.ResponseWriter, r *http.Request) {
	var in app.MatchInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if r.URL.Query().Get("explain") == "1" {
		in.Explain = true
	}
	out, err := h.Match.Match(r.Context(), tenantFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createLead(w http.ResponseWriter, r *http.Request) {
	var in app.LeadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.Leads.Submit(r.Context(), tenantFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) createQuote(w http.ResponseWriter, r *http.Request) {
	var in app.QuoteInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.Quotes.Calculate(r.Context(), tenantFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/quotes/"+res.Quote.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) getQuote(w http.ResponseWriter, r *http.Request) {
	res, err := h.Quotes.Get(r.Context(), tenantFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeWithETag(w, r, res)
}

func (h *Handlers) ingestEmail(w http.ResponseWriter, r *http.Request) {
	var in app.EmailInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.Leads.IngestEmail(r.Context(), tenantFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
