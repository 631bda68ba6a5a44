// Package metrics defines the Prometheus metrics for the welcome mailer:
// subscription outcomes, mail sends and HTTP traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Subscriptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "welcome_mailer_subscriptions_total",
		Help: "Subscribe requests by terminal outcome (rejected, persist_failed, sent, send_failed)",
	}, []string{"outcome"})
	Duplicates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "welcome_mailer_duplicates_total",
		Help: "Subscribe requests whose address was already stored",
	})

	// Mail transport
	MailSend = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "welcome_mailer_mail_send_total",
		Help: "Welcome mail send attempts by provider and result",
	}, []string{"provider", "result"})

	// HTTP, recorded by middleware
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "welcome_mailer_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "welcome_mailer_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(Subscriptions)
	prometheus.MustRegister(Duplicates)
	prometheus.MustRegister(MailSend)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPRequestDuration)
}

// ObserveSubscription records the outcome of one subscribe request.
func ObserveSubscription(outcome string, duplicate bool) {
	Subscriptions.WithLabelValues(outcome).Inc()
	if duplicate {
		Duplicates.Inc()
	}
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
