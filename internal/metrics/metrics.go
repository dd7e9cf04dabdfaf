package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RoutesRefreshed *prometheus.CounterVec
	APIErrors       prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	ViewportsFitted *prometheus.CounterVec
	ActiveWorkers   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RoutesRefreshed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_routes_refreshed_total",
			Help: "Total number of background route refreshes by outcome.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "compass_routing_provider_api_errors_total",
			Help: "Total number of errors received from the routing provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_routing_provider_request_duration_seconds",
			Help:    "Duration of requests to the routing provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_route_cache_lookups_total",
			Help: "Route cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		ViewportsFitted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_viewports_fitted_total",
			Help: "Map viewports computed, by whether a device location was included.",
		}, []string{"device"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "compass_active_workers",
			Help: "Current number of active workers refreshing routes.",
		}),
	}
}
