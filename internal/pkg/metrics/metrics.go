package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics는 애플리케이션 메트릭을 관리합니다
type Metrics struct {
	// HTTP 메트릭
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// 데이터베이스 메트릭
	DBOperationsTotal   *prometheus.CounterVec
	DBOperationDuration *prometheus.HistogramVec

	// 캐시 메트릭
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// 감사 이벤트 메트릭
	AuditEventsTotal *prometheus.CounterVec
}

var globalMetrics *Metrics

// Init은 메트릭을 초기화합니다
func Init(namespace string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),
		DBOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_operations_total",
				Help:      "Total number of database operations",
			},
			[]string{"operation", "table", "status"},
		),
		DBOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_operation_duration_seconds",
				Help:      "Database operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache_name"},
		),
		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache_name"},
		),
		AuditEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_total",
				Help:      "Total number of published audit events",
			},
			[]string{"action", "resource", "status"},
		),
	}

	globalMetrics = m
	return m
}

// GetMetrics는 글로벌 메트릭 인스턴스를 반환합니다
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return Init("admin_backoffice")
	}
	return globalMetrics
}

// RecordHTTPRequest는 HTTP 요청 메트릭을 기록합니다
func (m *Metrics) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordDBOperation은 데이터베이스 작업 메트릭을 기록합니다
func (m *Metrics) RecordDBOperation(operation, table, status string, duration time.Duration) {
	m.DBOperationsTotal.WithLabelValues(operation, table, status).Inc()
	m.DBOperationDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordCacheHit은 캐시 히트를 기록합니다
func (m *Metrics) RecordCacheHit(cacheName string) {
	m.CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordCacheMiss는 캐시 미스를 기록합니다
func (m *Metrics) RecordCacheMiss(cacheName string) {
	m.CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

// RecordAuditEvent는 감사 이벤트 발행 결과를 기록합니다
func (m *Metrics) RecordAuditEvent(action, resource, status string) {
	m.AuditEventsTotal.WithLabelValues(action, resource, status).Inc()
}
