package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vidalaw/intake-api/pkg/metrics"
)

type Metrics struct {
	apiResponseTime  *prometheus.HistogramVec
	apiErrorCounter  *prometheus.CounterVec
	accessDecision   *prometheus.CounterVec
	finalizeCounter  *prometheus.CounterVec
	webhookRetry     *prometheus.CounterVec
	janitorSweepGone *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:  metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:  metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		accessDecision:   metrics.NewCounterVec("share_access_decision", []string{"kind", "result"}),
		finalizeCounter:  metrics.NewCounterVec("resource_finalized", []string{"resource"}),
		webhookRetry:     metrics.NewCounterVec("webhook_retry", []string{"event"}),
		janitorSweepGone: metrics.NewCounterVec("janitor_tokens_swept", nil),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

// AccessDecisionInc records the internal outcome of one link validation.
// Granularity lives here, never in the HTTP response.
func (m *Metrics) AccessDecisionInc(kind, result string) {
	m.accessDecision.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) FinalizeInc(resource string) {
	m.finalizeCounter.WithLabelValues(resource).Inc()
}

func (m *Metrics) WebhookRetryInc(event string) {
	m.webhookRetry.WithLabelValues(event).Inc()
}

func (m *Metrics) JanitorSweptAdd(n float64) {
	m.janitorSweepGone.WithLabelValues().Add(n)
}
