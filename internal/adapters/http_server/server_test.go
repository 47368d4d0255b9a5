package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	httpserver "yacht_automate/internal/adapters/http_server"
	"yacht_automate/internal/adapters/mailer"
	"yacht_automate/internal/adapters/observability"
	redisad "yacht_automate/internal/adapters/redis"
	"yacht_automate/internal/app"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/storage/memory"
)

const adminKey = "test-admin"

type env struct {
	srv   *httptest.Server
	db    *memory.DB
	queue *mailer.Queue
}

func newEnv(t *testing.T, ratePerMinute int) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	db := memory.New()
	q := mailer.NewQueue(16)
	search := app.NewSearchService(db, db, cache, time.Minute)
	match := app.NewMatchService(db)
	h := &httpserver.Handlers{
		Search:        search,
		Match:         match,
		Leads:         app.NewLeadService(db, db, match, q),
		Quotes:        app.NewQuoteService(db, db),
		Seed:          app.NewSeedService(db, db, search),
		Tenants:       app.NewTenantService(db, db),
		Monitor:       observability.NewMonitor(observability.MonitorConfig{Interval: time.Minute, Env: "test"}, nil),
		AdminKey:      adminKey,
		RatePerMinute: ratePerMinute,
		Idem:          redisad.NewIdempotency(cache),
		IdemTTL:       time.Hour,
		Env:           "test",
	}
	s := httpserver.New()
	s.MountHandlers(h)
	srv := httptest.NewServer(s.Mux())
	t.Cleanup(srv.Close)
	return &env{srv: srv, db: db, queue: q}
}

func (e *env) do(t *testing.T, method, path string, body any, hdr map[string]string) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, e.srv.URL+path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func admin() map[string]string { return map[string]string{"X-Admin-Key": adminKey} }

func tenant(id string) map[string]string { return map[string]string{"X-Tenant-Id": id} }

// provision creates tenant t1 with the demo fleet.
func (e *env) provision(t *testing.T) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/admin/tenants", map[string]any{"id": "t1", "name": "Blue Charters"}, admin())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create tenant: %d %s", resp.StatusCode, body)
	}
	h := admin()
	h["X-Tenant-Id"] = "t1"
	resp, body = e.do(t, http.MethodPost, "/admin/yachts/seed", nil, h)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"seeded":40`) {
		t.Fatalf("seed: %d %s", resp.StatusCode, body)
	}
}

func TestHealthAndBanner(t *testing.T) {
	e := newEnv(t, 0)
	resp, body := e.do(t, http.MethodGet, "/health", nil, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"status":"healthy"`) {
		t.Fatalf("health: %d %s", resp.StatusCode, body)
	}
	resp, body = e.do(t, http.MethodGet, "/", nil, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "operational") {
		t.Fatalf("banner: %d %s", resp.StatusCode, body)
	}
}

func TestAdmin_RequiresKey(t *testing.T) {
	e := newEnv(t, 0)
	resp, _ := e.do(t, http.MethodPost, "/admin/tenants", map[string]any{"id": "t1", "name": "x"}, map[string]string{"X-Admin-Key": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type = %q", ct)
	}
	resp, body := e.do(t, http.MethodPost, "/admin/tenants", map[string]any{"name": "no id"}, admin())
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), `"id"`) {
		t.Fatalf("validation: %d %s", resp.StatusCode, body)
	}
}

func TestTenantScope(t *testing.T) {
	e := newEnv(t, 0)
	if resp, _ := e.do(t, http.MethodGet, "/v1/yachts", nil, nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing tenant: %d", resp.StatusCode)
	}
	if resp, _ := e.do(t, http.MethodGet, "/v1/yachts", nil, tenant("ghost")); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown tenant: %d", resp.StatusCode)
	}
}

func TestSearchYachts_ETag(t *testing.T) {
	e := newEnv(t, 0)
	e.provision(t)

	resp, body := e.do(t, http.MethodGet, "/v1/yachts?area=Mediterranean&guests=8&limit=5", nil, tenant("t1"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: %d %s", resp.StatusCode, body)
	}
	var out struct {
		Yachts []domain.Yacht `json:"yachts"`
		Count  int            `json:"count"`
		Total  int            `json:"total"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 5 || out.Total < 5 {
		t.Fatalf("count=%d total=%d", out.Count, out.Total)
	}
	for _, y := range out.Yachts {
		if y.Region != domain.RegionMediterranean || y.Guests < 8 || y.Guests > 10 {
			t.Fatalf("yacht outside filter: %+v", y)
		}
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	h := tenant("t1")
	h["If-None-Match"] = etag
	resp, _ = e.do(t, http.MethodGet, "/v1/yachts?area=Mediterranean&guests=8&limit=5", nil, h)
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}

	resp, _ = e.do(t, http.MethodGet, "/v1/yachts?guests=abc", nil, tenant("t1"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad guests: %d", resp.StatusCode)
	}
}

func TestMatch_Explain(t *testing.T) {
	e := newEnv(t, 0)
	e.provision(t)
	resp, body := e.do(t, http.MethodPost, "/v1/match?explain=1",
		map[string]any{"notes": "luxury motor yacht", "partySize": 10, "location": "Monaco"}, tenant("t1"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("match: %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"breakdown"`) || !strings.Contains(string(body), `"Mediterranean"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestQuotes_CreateGetAndValidate(t *testing.T) {
	e := newEnv(t, 0)
	e.provision(t)
	page, _ := e.db.SearchYachts(context.Background(), "t1", domain.YachtFilter{Q: strPtr("SPECTRE")})
	id := page.Items[0].ID

	resp, body := e.do(t, http.MethodPost, "/v1/quotes", map[string]any{"yachtId": id}, tenant("t1"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, body)
	}
	var res app.QuoteResult
	_ = json.Unmarshal(body, &res)
	if res.Quote.Total != 257250 || !strings.Contains(res.Formatted, "EUR 257,250") {
		t.Fatalf("quote = %+v", res)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/quotes/"+res.Quote.ID {
		t.Fatalf("location = %q", loc)
	}

	resp, _ = e.do(t, http.MethodGet, "/v1/quotes/"+res.Quote.ID, nil, tenant("t1"))
	if resp.StatusCode != http.StatusOK || resp.Header.Get("ETag") == "" {
		t.Fatalf("get: %d", resp.StatusCode)
	}
	resp, _ = e.do(t, http.MethodGet, "/v1/quotes/nope", nil, tenant("t1"))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing quote: %d", resp.StatusCode)
	}

	resp, body = e.do(t, http.MethodPost, "/v1/quotes", map[string]any{"yachtId": id, "weeks": 0, "extras": -1}, tenant("t1"))
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), `"weeks"`) || !strings.Contains(string(body), `"extras"`) {
		t.Fatalf("validation: %d %s", resp.StatusCode, body)
	}
}

func TestLeads_IdempotentReplay(t *testing.T) {
	e := newEnv(t, 0)
	e.provision(t)
	h := tenant("t1")
	h["Idempotency-Key"] = "lead-123"
	in := map[string]any{"email": "guest@example.com", "notes": "sailing yacht", "partySize": 8, "location": "Greece"}

	resp1, body1 := e.do(t, http.MethodPost, "/v1/leads", in, h)
	if resp1.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp1.StatusCode, body1)
	}
	resp2, body2 := e.do(t, http.MethodPost, "/v1/leads", in, h)
	if resp2.StatusCode != http.StatusCreated || resp2.Header.Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay: %d %v", resp2.StatusCode, resp2.Header)
	}
	if !bytes.Equal(body1, body2) {
		t.Fatalf("replayed body differs")
	}
	if n := len(e.db.Events("lead_created")); n != 1 {
		t.Fatalf("lead_created events = %d, want 1", n)
	}
	if e.queue.Len() != 1 {
		t.Fatalf("queued replies = %d", e.queue.Len())
	}
}

func TestLeads_IdempotencyKeyReusedWithOtherBody(t *testing.T) {
	e := newEnv(t, 0)
	e.provision(t)
	h := tenant("t1")
	h["Idempotency-Key"] = "lead-456"

	resp, body := e.do(t, http.MethodPost, "/v1/leads", map[string]any{"email": "a@example.com", "notes": "motor", "partySize": 6}, h)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, body)
	}
	resp, body = e.do(t, http.MethodPost, "/v1/leads", map[string]any{"email": "b@example.com", "notes": "sail", "partySize": 4}, h)
	if resp.StatusCode != http.StatusUnprocessableEntity || resp.Header.Get("Idempotent-Replayed") != "" {
		t.Fatalf("expected 422 without replay, got %d %s", resp.StatusCode, body)
	}
	if n := len(e.db.Events("lead_created")); n != 1 {
		t.Fatalf("lead_created events = %d, want 1", n)
	}
}

func TestAdmin_UploadYachts(t *testing.T) {
	e := newEnv(t, 0)
	if resp, body := e.do(t, http.MethodPost, "/admin/tenants", map[string]any{"id": "t1", "name": "Blue Charters"}, admin()); resp.StatusCode != http.StatusOK {
		t.Fatalf("create tenant: %d %s", resp.StatusCode, body)
	}
	h := admin()
	h["X-Tenant-Id"] = "t1"
	rows := map[string]any{"yachts": []map[string]any{
		{"id": "own-1", "name": "SALT", "builder": "Lagoon", "type": "Catamaran", "length": 18, "area": "Bahamas", "cabins": 4, "guests": 8, "weeklyRate": 30000, "currency": "USD"},
	}}

	resp, body := e.do(t, http.MethodPost, "/admin/yachts/upload", rows, h)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"count":1`) {
		t.Fatalf("upload: %d %s", resp.StatusCode, body)
	}
	resp, body = e.do(t, http.MethodGet, "/v1/yachts?area=Bahamas", nil, tenant("t1"))
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"SALT"`) || !strings.Contains(string(body), `"total":1`) {
		t.Fatalf("search after upload: %d %s", resp.StatusCode, body)
	}

	if resp, body := e.do(t, http.MethodPost, "/admin/yachts/upload", rows, h); resp.StatusCode != http.StatusConflict {
		t.Fatalf("reused id: %d %s", resp.StatusCode, body)
	}
	bad := map[string]any{"yachts": []map[string]any{{"name": "X", "area": "Baltic", "guests": 4, "weeklyRate": 1000}}}
	if resp, body := e.do(t, http.MethodPost, "/admin/yachts/upload", bad, h); resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), `"yachts[0].area"`) {
		t.Fatalf("invalid row: %d %s", resp.StatusCode, body)
	}
	if resp, _ := e.do(t, http.MethodPost, "/admin/yachts/upload", rows, admin()); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing tenant: %d", resp.StatusCode)
	}
	if resp, _ := e.do(t, http.MethodPost, "/admin/yachts/upload", rows, tenant("t1")); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing admin key: %d", resp.StatusCode)
	}
}

func TestAdmin_Status(t *testing.T) {
	e := newEnv(t, 0)
	resp, body := e.do(t, http.MethodGet, "/admin/status", nil, admin())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d %s", resp.StatusCode, body)
	}
	var out struct {
		Health      observability.HealthStatus `json:"health"`
		Environment string                     `json:"environment"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Environment != "test" || out.Health.Status != "healthy" || out.Health.Environment != "test" {
		t.Fatalf("status = %+v", out)
	}
	if resp, _ := e.do(t, http.MethodGet, "/admin/status", nil, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without key: %d", resp.StatusCode)
	}
}

func TestIngestEmail(t *testing.T) {
	e := newEnv(t, 0)
	e.provision(t)
	resp, body := e.do(t, http.MethodPost, "/v1/ingest/email",
		map[string]any{"from": "c@example.com", "subject": "Bahamas charter", "body": "We are 6 guests"}, tenant("t1"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("ingest: %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"partySize":6`) || !strings.Contains(string(body), `"location":"Bahamas"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestRateLimitPerTenant(t *testing.T) {
	e := newEnv(t, 2)
	e.provision(t)
	for i := 0; i < 2; i++ {
		if resp, _ := e.do(t, http.MethodGet, "/v1/yachts", nil, tenant("t1")); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: %d", i, resp.StatusCode)
		}
	}
	resp, _ := e.do(t, http.MethodGet, "/v1/yachts", nil, tenant("t1"))
	if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", resp.StatusCode)
	}
}

func TestLogger_TraceID(t *testing.T) {
	var buf bytes.Buffer
	h := httpserver.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tid := trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}
	sid := trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled,
	}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if !strings.Contains(line, `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`) || !strings.Contains(line, `"status":418`) {
		t.Fatalf("log line = %s", line)
	}
}

func strPtr(s string) *string { return &s }
