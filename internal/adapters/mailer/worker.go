package mailer

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/shared"
)

// Queue is a bounded in-process mail queue.
type Queue struct{ ch chan domain.EmailJob }

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{ch: make(chan domain.EmailJob, size)}
}

// Enqueue never blocks; false means the queue is full and the job was dropped.
func (q *Queue) Enqueue(job domain.EmailJob) bool {
	select {
	case q.ch <- job:
		return true
	default:
		observability.ObserveEmail("dropped")
		log.Warn().Str("tenant", job.TenantID).Str("to", shared.RedactEmail(job.To)).Msg("mail queue full, job dropped")
		return false
	}
}

func (q *Queue) Len() int { return len(q.ch) }

type resolver interface {
	Resolve(ctx context.Context, tenantID string) (Sender, Message, error)
}

type workerStore interface {
	domain.EventLog
	domain.DeadLetterStore
}

// Worker drains a Queue, retrying failed sends and parking exhausted jobs as dead letters.
type Worker struct {
	q          *Queue
	senders    resolver
	store      workerStore
	maxRetries int
	backoff    func(i int) time.Duration
	onError    func(err error, where string)
}

func NewWorker(q *Queue, senders resolver, store workerStore, maxRetries int) *Worker {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Worker{q: q, senders: senders, store: store, maxRetries: maxRetries, backoff: backoff}
}

// OnError registers a hook for delivery failures (the health monitor).
func (w *Worker) OnError(fn func(err error, where string)) { w.onError = fn }

// Run processes jobs until ctx is done. Jobs still queued at shutdown are left unsent.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if n := w.q.Len(); n > 0 {
				log.Warn().Int("pending", n).Msg("mail worker stopping with queued jobs")
			}
			return nil
		case job := <-w.q.ch:
			w.process(ctx, job)
		}
	}
}

func (w *Worker) process(ctx context.Context, job domain.EmailJob) {
	var lastErr error
	for i := 0; i < w.maxRetries; i++ {
		delivered, err := w.deliver(ctx, job)
		if err == nil {
			status := "logged"
			if delivered {
				status = "sent"
			}
			observability.ObserveEmail(status)
			w.event(ctx, job, "email_sent", map[string]any{"to": shared.RedactEmail(job.To), "subject": job.Subject, "delivered": delivered})
			return
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Str("tenant", job.TenantID).Msg("email send failed")
		if i < w.maxRetries-1 && !sleepCtx(ctx, w.backoff(i)) {
			break
		}
	}

	observability.ObserveEmail("failed")
	if w.onError != nil {
		w.onError(lastErr, "mailer")
	}
	// ctx may already be cancelled; still record the failure.
	bg := context.WithoutCancel(ctx)
	payload, _ := json.Marshal(job)
	if err := w.store.StoreDeadLetter(bg, domain.DeadLetter{
		ID:        uuid.NewString(),
		TenantID:  job.TenantID,
		Kind:      "email",
		Payload:   payload,
		Error:     lastErr.Error(),
		Attempts:  w.maxRetries,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		log.Error().Err(err).Msg("store dead letter")
	}
	w.event(bg, job, "email_failed", map[string]any{"to": shared.RedactEmail(job.To), "error": lastErr.Error()})
}

func (w *Worker) deliver(ctx context.Context, job domain.EmailJob) (bool, error) {
	s, from, err := w.senders.Resolve(ctx, job.TenantID)
	if err != nil {
		return false, err
	}
	from.To = job.To
	from.Subject = job.Subject
	from.HTML = job.Body
	return s.Send(ctx, from)
}

func (w *Worker) event(ctx context.Context, job domain.EmailJob, typ string, payload map[string]any) {
	b, _ := json.Marshal(payload)
	e := domain.Event{ID: uuid.NewString(), TenantID: job.TenantID, Type: typ, Payload: b, CreatedAt: time.Now().UTC()}
	if job.LeadID != "" {
		id := job.LeadID
		e.EntityID = &id
	}
	if err := w.store.LogEvent(ctx, e); err != nil {
		log.Error().Err(err).Str("type", typ).Msg("log event")
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
