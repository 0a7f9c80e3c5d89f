package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	CartPersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart persistence writes",
	})

	PromoApplicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_applications_total",
		Help: "Total number of promo code applications",
	}, []string{"result"})

	OrdersSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of order submissions",
	}, []string{"path", "result"})

	GuestOrdersSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guest_orders_saved_total",
		Help: "Total number of guest orders saved locally",
	})

	OrderSubmitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_submit_latency_seconds",
		Help:    "Latency of order submissions end to end",
		Buckets: prometheus.DefBuckets,
	})

	OrderAPILatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_api_latency_seconds",
		Help:    "Latency of remote order API calls",
		Buckets: prometheus.DefBuckets,
	})

	CatalogProductsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products_loaded",
		Help: "Number of products currently in the catalog lookup",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
