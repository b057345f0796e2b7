package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for reminders, birthdays and auth.
type ClinicMetrics struct {
	remindersCreated *prometheus.CounterVec
	remindersSent    *prometheus.CounterVec
	accessDenied     *prometheus.CounterVec
	deliveryFailures prometheus.Counter
	birthdaysMatched prometheus.Counter
	authAttempts     *prometheus.CounterVec
	workerLatency    prometheus.Histogram
}

// NewClinicMetrics registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		remindersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "reminders",
			Name:      "created_total",
			Help:      "Reminders created, by source",
		}, []string{"source"}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Reminders marked sent, by channel and trigger",
		}, []string{"channel", "trigger"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "reminders",
			Name:      "access_denied_total",
			Help:      "Reminder mutations rejected by the access policy",
		}, []string{"operation"}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "reminders",
			Name:      "delivery_failures_total",
			Help:      "Email reminders that could not be delivered",
		}),
		birthdaysMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "birthdays",
			Name:      "matched_total",
			Help:      "Patients returned by birthday lookups",
		}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Login and registration attempts, by outcome",
		}, []string{"action", "outcome"}),
		workerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinicdesk",
			Subsystem: "reminders",
			Name:      "worker_batch_seconds",
			Help:      "Duration of one reminder delivery batch",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.remindersCreated, m.remindersSent, m.accessDenied, m.deliveryFailures,
		m.birthdaysMatched, m.authAttempts, m.workerLatency)
	return m
}

func (m *ClinicMetrics) ObserveReminderCreated(source string) {
	if m == nil {
		return
	}
	m.remindersCreated.WithLabelValues(source).Inc()
}

func (m *ClinicMetrics) ObserveReminderSent(channel, trigger string) {
	if m == nil {
		return
	}
	m.remindersSent.WithLabelValues(channel, trigger).Inc()
}

func (m *ClinicMetrics) ObserveAccessDenied(operation string) {
	if m == nil {
		return
	}
	m.accessDenied.WithLabelValues(operation).Inc()
}

func (m *ClinicMetrics) ObserveDeliveryFailure() {
	if m == nil {
		return
	}
	m.deliveryFailures.Inc()
}

func (m *ClinicMetrics) ObserveBirthdays(count int) {
	if m == nil {
		return
	}
	m.birthdaysMatched.Add(float64(count))
}

func (m *ClinicMetrics) ObserveAuth(action, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(action, outcome).Inc()
}

func (m *ClinicMetrics) ObserveWorkerBatch(seconds float64) {
	if m == nil {
		return
	}
	m.workerLatency.Observe(seconds)
}
