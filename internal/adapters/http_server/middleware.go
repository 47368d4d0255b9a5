package httpserver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/domain"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// ---- status-recording ResponseWriter ----

type srw struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *srw) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &srw{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		observability.ObserveHTTP(routeOf(r), r.Method, sw.Status(), time.Since(start))
	})
}

// ---- Structured logging middleware ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			th := &tenantHolder{}
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), tenantHolderKey, th)))

			ev := l.Info()
			if sw.Status() >= 500 {
				ev = l.Error()
			}
			ev = ev.
				Str("route", routeOf(r)).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", remoteIP(r)).
				Str("ua", r.UserAgent()).
				Str("request_id", chimw.GetReqID(r.Context()))
			if th.id != "" {
				ev = ev.Str("tenant", th.id)
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				ev = ev.Str("trace_id", sc.TraceID().String())
			}
			ev.Msg("http_request")
		})
	}
}

// Picks first X-Forwarded-For IP, else X-Real-IP, else RemoteAddr host.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// ---- tenant scoping ----

type ctxKey int

const (
	tenantKey ctxKey = iota
	tenantHolderKey
)

func withTenant(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tenantKey, id)
}

func tenantFrom(ctx context.Context) string {
	id, _ := ctx.Value(tenantKey).(string)
	return id
}

// Logger runs outside the tenant scope; the scope reports the tenant back through this.
type tenantHolder struct{ id string }

type tenantGetter interface {
	Get(ctx context.Context, id string) (domain.Tenant, error)
}

// TenantScope requires X-Tenant-Id naming an existing tenant.
func TenantScope(tenants tenantGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
			if id == "" {
				writeProblem(w, http.StatusBadRequest, "Missing Tenant", "X-Tenant-Id header required")
				return
			}
			if _, err := tenants.Get(r.Context(), id); err != nil {
				if errors.Is(err, domain.ErrTenantNotFound) {
					writeProblem(w, http.StatusNotFound, "Tenant Not Found", "unknown tenant "+id)
					return
				}
				log.Error().Err(err).Str("tenant", id).Msg("tenant lookup")
				writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "tenant lookup failed")
				return
			}
			if h, ok := r.Context().Value(tenantHolderKey).(*tenantHolder); ok {
				h.id = id
			}
			next.ServeHTTP(w, r.WithContext(withTenant(r.Context(), id)))
		})
	}
}

// AdminOnly checks X-Admin-Key in constant time.
func AdminOnly(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ---- per-tenant rate limiting ----

type tenantLimiter struct {
	perMinute int
	mu        sync.Mutex
	byTenant  map[string]*rate.Limiter
}

func newTenantLimiter(perMinute int) *tenantLimiter {
	return &tenantLimiter{perMinute: perMinute, byTenant: map[string]*rate.Limiter{}}
}

func (t *tenantLimiter) get(tenant string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.byTenant[tenant]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(t.perMinute)), t.perMinute)
		t.byTenant[tenant] = l
	}
	return l
}

// RateLimit allows perMinute requests per tenant with an equal burst. <= 0 disables it.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	tl := newTenantLimiter(perMinute)
	retry := strconv.Itoa(int(math.Ceil(60 / float64(perMinute))))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tl.get(tenantFrom(r.Context())).Allow() {
				w.Header().Set("Retry-After", retry)
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ---- idempotency ----

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
	RequestHash string `json:"requestHash"`
}

type recorder struct {
	srw
	buf bytes.Buffer
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.srw.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Only 2xx responses are remembered, scoped per tenant ("admin" outside one).
// Reusing a key with a different body is answered with 422.
func Idempotency(store domain.IdempotencyStore, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if store == nil || key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > 255 {
				writeProblem(w, http.StatusBadRequest, "Invalid Idempotency-Key", "key longer than 255 characters")
				return
			}
			scope := tenantFrom(r.Context())
			if scope == "" {
				scope = "admin"
			}
			scopedKey := r.URL.Path + ":" + key

			// read up to one byte past the limit so decodeJSON still rejects oversized bodies
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
			if err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid Request", "could not read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)
			reqHash := hex.EncodeToString(sum[:])

			var prev storedResponse
			if ok, err := store.Lookup(r.Context(), scope, scopedKey, &prev); err != nil {
				log.Warn().Err(err).Msg("idempotency lookup")
			} else if ok && prev.RequestHash != reqHash {
				writeProblem(w, http.StatusUnprocessableEntity, "Idempotency-Key Reused",
					"the key was already used with a different request body")
				return
			} else if ok {
				w.Header().Set("Content-Type", prev.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(prev.Status)
				_, _ = w.Write(prev.Body)
				return
			}

			rec := &recorder{srw: srw{ResponseWriter: w}}
			next.ServeHTTP(rec, r)
			if st := rec.Status(); st >= 200 && st < 300 {
				resp := storedResponse{Status: st, ContentType: w.Header().Get("Content-Type"), Body: rec.buf.Bytes(), RequestHash: reqHash}
				if err := store.Remember(r.Context(), scope, scopedKey, resp, ttl); err != nil {
					log.Warn().Err(err).Msg("idempotency remember")
				}
			}
		})
	}
}
