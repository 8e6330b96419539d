package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead ingestion pipeline.
type LeadMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	geoLookupsTotal    *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	boardLatency       prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		geoLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "leads",
			Name:      "geoip_lookups_total",
			Help:      "Total geolocation resolutions by result",
		}, []string{"result"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "Total lead alert notifications by status",
		}, []string{"status"}),
		boardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "leads",
			Name:      "board_dispatch_seconds",
			Help:      "Latency of board record creation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.geoLookupsTotal, m.notificationsTotal, m.boardLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveGeoLookup(result string) {
	if m == nil {
		return
	}
	m.geoLookupsTotal.WithLabelValues(result).Inc()
}

func (m *LeadMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveBoardLatency(seconds float64) {
	if m == nil {
		return
	}
	m.boardLatency.Observe(seconds)
}
