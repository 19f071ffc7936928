package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the push pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	pushesTotal     *prometheus.CounterVec
	deliveryTime    *prometheus.HistogramVec
	deliveryRetries prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	pushesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pushes_total",
		Help: "Pushes reaching a terminal status",
	}, []string{"status"})

	deliveryTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "push_delivery_duration_seconds",
		Help:    "Duration of destination delivery attempts",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	deliveryRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "push_delivery_retries_total",
		Help: "Total delivery attempts retried after a retryable failure",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, pushesTotal, deliveryTime, deliveryRetries, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		pushesTotal:     pushesTotal,
		deliveryTime:    deliveryTime,
		deliveryRetries: deliveryRetries,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordPushOutcome counts a push reaching a terminal status.
func (m *MetricsService) RecordPushOutcome(status models.PushStatus) {
	if m == nil {
		return
	}
	m.pushesTotal.WithLabelValues(string(status)).Inc()
}

// ObserveDelivery records the duration of one delivery attempt.
func (m *MetricsService) ObserveDelivery(kind models.DestinationKind, duration time.Duration) {
	if m == nil {
		return
	}
	m.deliveryTime.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

// RecordRetry counts a retried delivery attempt.
func (m *MetricsService) RecordRetry() {
	if m == nil {
		return
	}
	m.deliveryRetries.Inc()
}

// RecordCacheLookup counts a cache hit or miss on the push hot path.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
