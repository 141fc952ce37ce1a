package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WaiterRegisterer struct {
	pollsTotal     *prometheus.CounterVec
	waitsSucceeded *prometheus.CounterVec
	waitsFailed    *prometheus.CounterVec
	waitDuration   *prometheus.HistogramVec
}

func NewWaiterRegisterer(registerer prometheus.Registerer) *WaiterRegisterer {
	return &WaiterRegisterer{
		pollsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitfor_polls_total",
				Help: "Total number of polls per target.",
			},
			[]string{"target"},
		),
		waitsSucceeded: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitfor_waits_succeeded_total",
				Help: "Total number of waits that ended with a ready target.",
			},
			[]string{"target"},
		),
		waitsFailed: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitfor_waits_failed_total",
				Help: "Total number of waits that ended with an error or timeout.",
			},
			[]string{"target", "reason"},
		),
		waitDuration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waitfor_wait_duration_seconds",
				Help:    "Duration of whole waits in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target"},
		),
	}
}

func (r *WaiterRegisterer) IncPollStarted(target string) {
	r.pollsTotal.WithLabelValues(target).Inc()
}

func (r *WaiterRegisterer) ObserveWaitSucceeded(target string, duration time.Duration) {
	r.waitsSucceeded.WithLabelValues(target).Inc()
	r.waitDuration.WithLabelValues(target).Observe(duration.Seconds())
}

func (r *WaiterRegisterer) ObserveWaitFailed(target, reason string, duration time.Duration) {
	r.waitsFailed.WithLabelValues(target, reason).Inc()
	r.waitDuration.WithLabelValues(target).Observe(duration.Seconds())
}

func DefaultRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
