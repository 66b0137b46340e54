package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hungryhub_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hungryhub_http_requests_total",
		Help: "Total HTTP requests served",
	}, []string{"method", "path", "status"})
)

func Init() {
	prometheus.MustRegister(RequestDuration, RequestsTotal)
}
