package server

import (
	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "payroll_estimate"

type metrics struct {
	requests  *prometheus.CounterVec
	estimates prometheus.Counter
	rejected  prometheus.Counter
	marketCap prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by response status",
		},
			[]string{"status"},
		),
		estimates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "estimates_total",
			Help:      "Number of estimates computed",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_inputs_total",
			Help:      "Number of estimates refused by strict input validation",
		}),
		marketCap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_market_cap",
			Help:      "Total market cap of the most recent estimate",
		}),
	}

	reg.MustRegister(m.requests, m.estimates, m.rejected, m.marketCap)
	return m
}

func (m *metrics) observe(r estimator.Result) {
	m.estimates.Inc()
	m.marketCap.Set(r.TotalMarketCap)
}
