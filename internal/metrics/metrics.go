// Package metrics собирает и отдает Prometheus-метрики сервиса.
//
//	jobh_transitions_total{entity,action,result} - переходы статусов
//	jobh_notifications_total{channel,result}      - доставка уведомлений
//	jobh_search_duration_seconds{cache}           - время публичного поиска
//	jobh_premium_active_vacancies                 - вакансии с действующим премиумом
//	jobh_http_requests_total{method,route,status} - HTTP запросы
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Collector - набор метрик. Методы безопасны на nil-получателе,
// поэтому тесты сервисов могут не создавать коллектор.
type Collector struct {
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec
	premiumActive prometheus.Gauge
	httpRequests  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector регистрирует метрики в собственном реестре
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobh_transitions_total",
			Help: "Status transitions attempted, by entity, action and result",
		}, []string{"entity", "action", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobh_notifications_total",
			Help: "Notification deliveries, by channel and result",
		}, []string{"channel", "result"}),
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobh_search_duration_seconds",
			Help:    "Public vacancy search latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"cache"}),
		premiumActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobh_premium_active_vacancies",
			Help: "Vacancies whose premium window has not expired",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobh_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}

	reg.MustRegister(c.transitions, c.notifications, c.searchLatency, c.premiumActive, c.httpRequests)
	return c
}

func (c *Collector) RecordTransition(entity, action, result string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(entity, action, result).Inc()
}

func (c *Collector) RecordNotification(channel, result string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(channel, result).Inc()
}

func (c *Collector) ObserveSearch(cacheHit bool, d time.Duration) {
	if c == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	c.searchLatency.WithLabelValues(label).Observe(d.Seconds())
}

func (c *Collector) SetPremiumActive(n int64) {
	if c == nil {
		return
	}
	c.premiumActive.Set(float64(n))
}

func (c *Collector) RecordHTTPRequest(method, route string, status int) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler - эндпоинт /metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
