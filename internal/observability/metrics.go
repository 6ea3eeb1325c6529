package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

const (
	SourceStore  = "store"
	SourceCache  = "cache"
	SourceShared = "shared"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op.
type Metrics struct {
	apiRequests     *CounterVec
	apiLatency      *HistogramVec
	apiInflight     *Gauge
	collectionReads *CounterVec
	collectionSize  *HistogramVec
	eventsPublished *CounterVec
	cacheErrors     *CounterVec
	dbPool          *GaugeVec
	storeUp         *Gauge
	cacheUp         *Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("catalog_http_requests_total", "HTTP requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("catalog_http_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight: NewGauge("catalog_http_inflight_requests", "HTTP requests currently being served."),
		collectionReads: NewCounterVec("catalog_collection_reads_total",
			"Collection reads by resource, source (store|cache|shared) and outcome.",
			[]string{"resource", "source", "outcome"}),
		collectionSize: NewHistogramVec("catalog_collection_items", "Matching items per successful collection read.",
			[]string{"resource"}, []float64{0, 1, 10, 50, 100, 200, 500}),
		eventsPublished: NewCounterVec("catalog_events_published_total", "Change events by type and status.", []string{"type", "status"}),
		cacheErrors:     NewCounterVec("catalog_cache_errors_total", "Collection cache failures by operation.", []string{"op"}),
		dbPool:          NewGaugeVec("catalog_db_pool", "database/sql pool statistics.", []string{"stat"}),
		storeUp:         NewGauge("catalog_store_up", "1 when the last store ping succeeded."),
		cacheUp:         NewGauge("catalog_cache_up", "1 when the last cache ping succeeded."),
	}
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

func (m *Metrics) InflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) InflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveCollectionRead(resource, source, outcome string, items int) {
	if m == nil {
		return
	}
	m.collectionReads.Inc(resource, source, outcome)
	if outcome == "ok" {
		m.collectionSize.Observe(float64(items), resource)
	}
}

func (m *Metrics) CollectionReads(resource, source, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.collectionReads.Value(resource, source, outcome)
}

func (m *Metrics) IncEvent(eventType string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.eventsPublished.Inc(eventType, status)
}

func (m *Metrics) IncCacheError(op string) {
	if m == nil {
		return
	}
	m.cacheErrors.Inc(op)
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
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.collectionReads,
		m.collectionSize,
		m.eventsPublished,
		m.cacheErrors,
		m.dbPool,
		m.storeUp,
		m.cacheUp,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// StartStoreCollector samples pool statistics and store reachability every interval until ctx ends.
func (m *Metrics) StartStoreCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sampleStore(ctx, log, db)
			}
		}
	}()
}

func (m *Metrics) sampleStore(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: pool stats unavailable", "error", err)
		}
		return
	}
	stats := sqlDB.Stats()
	m.dbPool.Set(float64(stats.OpenConnections), "open_connections")
	m.dbPool.Set(float64(stats.InUse), "in_use")
	m.dbPool.Set(float64(stats.Idle), "idle")
	m.dbPool.Set(float64(stats.WaitCount), "wait_count")
	m.dbPool.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.dbPool.Set(float64(stats.MaxOpenConnections), "max_open_connections")

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		m.storeUp.Set(0)
		if log != nil {
			log.Warn("metrics: store ping failed", "error", err)
		}
		return
	}
	m.storeUp.Set(1)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// StartCacheCollector pings the collection cache every interval until ctx ends.
func (m *Metrics) StartCacheCollector(ctx context.Context, log *logger.Logger, cache pinger, interval time.Duration) {
	if m == nil || cache == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				err := cache.Ping(pingCtx)
				cancel()
				if err != nil {
					m.cacheUp.Set(0)
					if log != nil {
						log.Warn("metrics: cache ping failed", "error", err)
					}
					continue
				}
				m.cacheUp.Set(1)
			}
		}
	}()
}
