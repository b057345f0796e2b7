package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range metric.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestClinicMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)

	m.ObserveReminderCreated("waitlist")
	m.ObserveReminderCreated("waitlist")
	m.ObserveReminderSent("email", "worker")
	m.ObserveAccessDenied("delete")
	m.ObserveDeliveryFailure()
	m.ObserveBirthdays(3)
	m.ObserveAuth("login", "success")
	m.ObserveWorkerBatch(0.2)

	if got := counterValue(t, reg, "clinicdesk_reminders_created_total", map[string]string{"source": "waitlist"}); got != 2 {
		t.Fatalf("expected 2 waitlist reminders, got %v", got)
	}
	if got := counterValue(t, reg, "clinicdesk_birthdays_matched_total", nil); got != 3 {
		t.Fatalf("expected 3 birthdays, got %v", got)
	}
	if got := counterValue(t, reg, "clinicdesk_reminders_access_denied_total", map[string]string{"operation": "delete"}); got != 1 {
		t.Fatalf("expected 1 denied delete, got %v", got)
	}
}

func TestClinicMetricsNilSafe(t *testing.T) {
	var m *ClinicMetrics
	m.ObserveReminderCreated("direct")
	m.ObserveReminderSent("in_app", "user")
	m.ObserveAccessDenied("mark_sent")
	m.ObserveDeliveryFailure()
	m.ObserveBirthdays(1)
	m.ObserveAuth("login", "failure")
	m.ObserveWorkerBatch(0.1)
}
