package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"path", "method", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})

	// ListPagesRendered conta páginas de listagem por estratégia de paginação
	// ("count" ou "overfetch").
	ListPagesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "list_pages_rendered_total",
		Help: "Total number of rendered list pages",
	}, []string{"list", "strategy"})

	ProductCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_cache_lookups_total",
		Help: "Product detail cache lookups",
	}, []string{"result"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "job_processing_seconds",
		Help: "Time taken to process jobs",
	}, []string{"type", "status"})

	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Total number of processed jobs",
	}, []string{"type", "status"})

	JobRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_retries_total",
		Help: "Total number of job retries",
	}, []string{"type"})

	JobsDeadLetter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_dead_letter_total",
		Help: "Total number of jobs moved to dead letter queue",
	}, []string{"type"})

	MailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mails_sent_total",
		Help: "Total number of outgoing mails per provider",
	}, []string{"provider", "status"})

	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sse_connected_clients",
		Help: "Number of connected SSE clients",
	})
)

const (
	StrategyCount     = "count"
	StrategyOverfetch = "overfetch"
)
