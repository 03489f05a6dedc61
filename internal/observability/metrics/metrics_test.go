package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var sm *ScheduleMetrics
	var bm *BookingMetrics
	var cm *ChatMetrics

	sm.ObserveResolve(0.1)
	bm.ObserveBooking("ok")
	bm.ObserveCancellation("not_found")
	cm.ObserveRequest("rules")
}

func TestRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	sm := NewScheduleMetrics(reg)
	bm := NewBookingMetrics(reg)
	cm := NewChatMetrics(reg)

	sm.ObserveResolve(0.05)
	bm.ObserveBooking("ok")
	bm.ObserveCancellation("ok")
	cm.ObserveRequest("gemini")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}
