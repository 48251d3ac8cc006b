package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	transitions     *CounterVec
	reactionRuns    *CounterVec
	reactionLatency *HistogramVec
	statusCount     *GaugeVec
	sseClients      *Gauge
	sseDropped      *Counter

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	scrapeInterval time.Duration
}

type Counter struct{ inner *CounterVec }

func NewCounter(name, help string) *Counter {
	return &Counter{inner: NewCounterVec(name, help, nil)}
}

func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.inner.Inc()
}

func (c *Counter) Value() float64 {
	if c == nil {
		return 0
	}
	return c.inner.Value()
}

func (c *Counter) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.inner.WritePrometheus(w)
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when disabled,
// and every Metrics method is a no-op on a nil receiver.
func Init(enabled bool, scrapeInterval time.Duration) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New(scrapeInterval)
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New builds an unshared registry.
func New(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = 10 * time.Second
	}
	return &Metrics{
		apiRequests: NewCounterVec("applyflow_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"applyflow_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("applyflow_api_inflight_requests", "In-flight API requests."),

		aggregateOps:       NewHistogramVec("applyflow_aggregate_operation_seconds", "Aggregate write latency by operation/status.", []string{"op", "status"}, nil),
		aggregateConflicts: NewCounterVec("applyflow_aggregate_conflicts_total", "Optimistic concurrency conflicts by operation.", []string{"op"}),
		aggregateRetries:   NewCounterVec("applyflow_aggregate_retryable_total", "Retryable aggregate failures by operation.", []string{"op"}),

		transitions:     NewCounterVec("applyflow_transitions_total", "Status transition attempts by from/to/outcome.", []string{"from", "to", "outcome"}),
		reactionRuns:    NewCounterVec("applyflow_reactions_total", "Reaction executions by reaction/status.", []string{"reaction", "status"}),
		reactionLatency: NewHistogramVec("applyflow_reaction_duration_seconds", "Reaction latency by reaction.", []string{"reaction"}, nil),
		statusCount:     NewGaugeVec("applyflow_applications", "Applications per status from the analytics counters.", []string{"status"}),
		sseClients:      NewGauge("applyflow_sse_clients", "Connected SSE clients."),
		sseDropped:      NewCounter("applyflow_sse_dropped_total", "SSE messages dropped because a client buffer was full."),

		dbStats:   NewGaugeVec("applyflow_db_pool", "database/sql pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("applyflow_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("applyflow_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: scrapeInterval,
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aggregateOps, m.aggregateConflicts, m.aggregateRetries,
		m.transitions, m.reactionRuns, m.reactionLatency, m.statusCount,
		m.sseClients, m.sseDropped,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// StartServer serves the exposition on a dedicated listener until ctx ends.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(op)
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(op)
}

// IncTransition records one transition attempt. outcome is "committed" or an
// aggregate error code.
func (m *Metrics) IncTransition(from, to, outcome string) {
	if m == nil {
		return
	}
	m.transitions.Inc(from, to, outcome)
}

func (m *Metrics) ObserveReaction(reaction, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.reactionRuns.Inc(reaction, status)
	m.reactionLatency.Observe(dur.Seconds(), reaction)
}

func (m *Metrics) ReactionCount(reaction, status string) float64 {
	if m == nil {
		return 0
	}
	return m.reactionRuns.Value(reaction, status)
}

func (m *Metrics) SetStatusCount(status string, n int64) {
	if m == nil {
		return
	}
	m.statusCount.Set(float64(n), status)
}

func (m *Metrics) SSEClientConnected() {
	if m == nil {
		return
	}
	m.sseClients.Inc()
}

func (m *Metrics) SSEClientDisconnected() {
	if m == nil {
		return
	}
	m.sseClients.Dec()
}

func (m *Metrics) IncSSEDropped() {
	if m == nil {
		return
	}
	m.sseDropped.Inc()
}

// StartDBCollector samples database/sql pool stats on the scrape interval.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings the shared client on the scrape interval.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
