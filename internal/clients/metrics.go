package clients

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "msquare_admin",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Requests sent to the admin API by method, path and outcome.",
	}, []string{"method", "path", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "msquare_admin",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Latency of admin API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

func observe(method, path, outcome string, started time.Time) {
	requestsTotal.WithLabelValues(method, routeLabel(path), outcome).Inc()
	requestDuration.WithLabelValues(method, routeLabel(path)).Observe(time.Since(started).Seconds())
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// routeLabel keeps label cardinality bounded by dropping path segments after the resource name.
func routeLabel(path string) string {
	const maxSegments = 3
	count := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			count++
			if count > maxSegments {
				return path[:i]
			}
		}
	}
	return path
}
