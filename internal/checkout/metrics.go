package checkout

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    prometheus.Histogram
	revenue  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_checkout_total",
				Help: "Checkout attempts by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_checkout_duration_seconds",
				Help:    "Duration of checkout attempts in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		items: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_order_line_items",
				Help:    "Number of line items per placed order",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		revenue: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_order_revenue_cents_total",
				Help: "Sum of placed order totals in cents",
			},
		),
	}
	reg.MustRegister(m.attempts, m.duration, m.items, m.revenue)
	return m
}

// Observe is safe on a nil receiver.
func (m *Metrics) Observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) OrderPlaced(lines int, total int64) {
	if m == nil {
		return
	}
	m.items.Observe(float64(lines))
	m.revenue.Add(float64(total))
}

func (m *Metrics) Attempts() *prometheus.CounterVec { return m.attempts }
