package observability

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Alerter delivers an operator alert (e-mail, pager, log).
type Alerter interface {
	Alert(ctx context.Context, msg string) error
}

// LogAlerter only writes alerts to the log.
type LogAlerter struct{}

func (LogAlerter) Alert(_ context.Context, msg string) error {
	log.Error().Str("alert", msg).Msg("system alert")
	return nil
}

type MonitorConfig struct {
	Interval  time.Duration // heartbeat period; the error count decays by one per tick
	MaxErrors int           // alert when the error count reaches this
	Env       string
}

type HealthStatus struct {
	Status          string    `json:"status"`
	UptimeSeconds   float64   `json:"uptime"`
	ErrorCount      int       `json:"errorCount"`
	LastHealthCheck time.Time `json:"lastHealthCheck"`
	Goroutines      int       `json:"goroutines"`
	HeapAllocBytes  uint64    `json:"heapAllocBytes"`
	Timestamp       time.Time `json:"timestamp"`
	Environment     string    `json:"environment"`
}

var ErrMonitorRunning = errors.New("monitor already started")

// Monitor tracks process health. It is constructed explicitly and owns its
// heartbeat goroutine between Start and Stop.
type Monitor struct {
	cfg      MonitorConfig
	alerter  Alerter
	now      func() time.Time
	readHeap func() uint64

	mu       sync.Mutex
	started  time.Time
	lastTick time.Time
	heap     uint64 // sampled per tick; ReadMemStats stops the world
	errors   int
	alerted  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewMonitor(cfg MonitorConfig, a Alerter) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 10
	}
	if a == nil {
		a = LogAlerter{}
	}
	now := time.Now()
	m := &Monitor{cfg: cfg, alerter: a, now: time.Now, readHeap: heapAlloc, started: now, lastTick: now}
	m.heap = m.readHeap()
	return m
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// Start launches the heartbeat. It stops when ctx is done or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return ErrMonitorRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.lastTick = m.now()

	go func(done chan struct{}) {
		defer close(done)
		t := time.NewTicker(m.cfg.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.tick()
			}
		}
	}(m.done)
	return nil
}

// Stop halts the heartbeat and waits for it to exit. Safe to call twice.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) tick() {
	heap := m.readHeap()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTick = m.now()
	m.heap = heap
	if m.errors > 0 {
		m.errors--
	}
	if m.errors < m.cfg.MaxErrors {
		m.alerted = false
	}
}

// RecordError counts err against the health budget and alerts once per
// threshold crossing.
func (m *Monitor) RecordError(err error, where string) {
	m.mu.Lock()
	m.errors++
	count := m.errors
	fire := count >= m.cfg.MaxErrors && !m.alerted
	if fire {
		m.alerted = true
	}
	m.mu.Unlock()

	log.Error().Err(err).Str("context", where).Int("error_count", count).Msg("monitored error")

	if fire {
		msg := fmt.Sprintf("High error rate detected: %d errors in system", count)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if aerr := m.alerter.Alert(ctx, msg); aerr != nil {
				log.Error().Err(aerr).Msg("failed to send alert")
			}
		}()
	}
}

func (m *Monitor) Status() HealthStatus {
	m.mu.Lock()
	last, count, started, heap := m.lastTick, m.errors, m.started, m.heap
	m.mu.Unlock()

	now := m.now()
	status := "healthy"
	if now.Sub(last) >= 2*m.cfg.Interval {
		status = "unhealthy"
	}
	return HealthStatus{
		Status:          status,
		UptimeSeconds:   now.Sub(started).Seconds(),
		ErrorCount:      count,
		LastHealthCheck: last.UTC(),
		Goroutines:      runtime.NumGoroutine(),
		HeapAllocBytes:  heap,
		Timestamp:       now.UTC(),
		Environment:     m.cfg.Env,
	}
}
