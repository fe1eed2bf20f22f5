package observability

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "reminder_engine"

// Metrics stores the Prometheus collectors for one run of the engine. The
// job is one-shot, so there is no scrape endpoint; collected values are
// pushed to a Pushgateway at the end of the run when one is configured.
type Metrics struct {
	registry *prometheus.Registry

	remindersDueTotal prometheus.Counter
	emailsSentTotal   prometheus.Counter
	emailsFailedTotal *prometheus.CounterVec
	suppressedTotal   *prometheus.CounterVec
	batchSendDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		remindersDueTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "reminder_engine",
				Name:      "reminders_due_total",
				Help:      "Number of reminder definitions selected as due this run.",
			},
		),
		emailsSentTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "reminder_engine",
				Name:      "emails_sent_total",
				Help:      "Total number of emails delivered to the provider.",
			},
		),
		emailsFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reminder_engine",
				Name:      "emails_failed_total",
				Help:      "Total number of emails that ended in an error status, by reason.",
			},
			[]string{"reason"},
		),
		suppressedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reminder_engine",
				Name:      "suppressed_total",
				Help:      "Total number of recipients skipped by suppression, by outcome.",
			},
			[]string{"outcome"},
		),
		batchSendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "reminder_engine",
				Name:      "batch_send_duration_seconds",
				Help:      "Provider batch send duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.remindersDueTotal,
		m.emailsSentTotal,
		m.emailsFailedTotal,
		m.suppressedTotal,
		m.batchSendDuration,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Push sends the run's collected metrics to a Pushgateway. A blank URL is a
// no-op so callers do not have to branch on configuration.
func (m *Metrics) Push(gatewayURL string) error {
	if m == nil || m.registry == nil {
		return nil
	}
	trimmed := strings.TrimSpace(gatewayURL)
	if trimmed == "" {
		return nil
	}

	return push.New(trimmed, pushJobName).
		Gatherer(m.registry).
		Push()
}

func (m *Metrics) AddRemindersDue(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.remindersDueTotal.Add(float64(count))
}

func (m *Metrics) AddEmailsSent(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.emailsSentTotal.Add(float64(count))
}

func (m *Metrics) AddEmailsFailed(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	reasonLabel := strings.TrimSpace(strings.ToLower(reason))
	if reasonLabel == "" {
		reasonLabel = "unknown"
	}
	m.emailsFailedTotal.WithLabelValues(reasonLabel).Add(float64(count))
}

func (m *Metrics) IncSuppressed(outcome string) {
	if m == nil {
		return
	}
	outcomeLabel := strings.TrimSpace(strings.ToLower(outcome))
	if outcomeLabel == "" {
		outcomeLabel = "unknown"
	}
	m.suppressedTotal.WithLabelValues(outcomeLabel).Inc()
}

func (m *Metrics) ObserveBatchSendDuration(duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.batchSendDuration.Observe(seconds)
}
