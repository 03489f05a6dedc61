package metrics

import "github.com/prometheus/client_golang/prometheus"

// ScheduleMetrics exposes timings for availability resolution.
type ScheduleMetrics struct {
	resolveLatency prometheus.Histogram
}

func NewScheduleMetrics(reg prometheus.Registerer) *ScheduleMetrics {
	m := &ScheduleMetrics{
		resolveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salonbook",
			Subsystem: "schedule",
			Name:      "resolve_latency_seconds",
			Help:      "Latency of weekly availability resolution",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.resolveLatency)
	return m
}

func (m *ScheduleMetrics) ObserveResolve(seconds float64) {
	if m == nil {
		return
	}
	m.resolveLatency.Observe(seconds)
}

// BookingMetrics exposes counters for booking flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"outcome"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Total cancellation attempts",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.cancellationsTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveCancellation(outcome string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(outcome).Inc()
}

// ChatMetrics counts FAQ assistant traffic per answering backend.
type ChatMetrics struct {
	requestsTotal *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat questions answered",
		}, []string{"backend"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal)
	return m
}

func (m *ChatMetrics) ObserveRequest(backend string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(backend).Inc()
}
