package recloser

import "github.com/prometheus/client_golang/prometheus"

// PrometheusCollector adapts a Breaker to prometheus.Collector, so a host
// can register it alongside its own collectors. Grounded directly in
// oriys-nova's internal/metrics/prometheus.go, which already declares
// circuitBreakerState (gauge) and circuitBreakerTripsTotal (counter) vector
// metrics for its own, simpler breaker; this carries over the state gauge
// and replaces the trips counter with failure-rate and flap-count gauges
// for a recloser.Breaker.
type PrometheusCollector struct {
	breaker *Breaker

	state        *prometheus.Desc
	failureRate  *prometheus.Desc
	flapCount    *prometheus.Desc
}

// NewPrometheusCollector builds a collector for b, labelled with name (the
// same role the "function" label plays on oriys-nova's circuitBreakerState
// gauge vector).
func NewPrometheusCollector(name string, b *Breaker) *PrometheusCollector {
	labels := prometheus.Labels{"name": name}
	constLabels := prometheus.Labels{}
	for k, v := range labels {
		constLabels[k] = v
	}

	return &PrometheusCollector{
		breaker: b,
		state: prometheus.NewDesc(
			"recloser_state",
			"Current breaker state: 0=Closed, 1=HalfOpen, 2=Open.",
			nil, constLabels,
		),
		failureRate: prometheus.NewDesc(
			"recloser_failure_rate",
			"Failure rate of the current window, or -1 while filling.",
			nil, constLabels,
		),
		flapCount: prometheus.NewDesc(
			"recloser_flap_count",
			"Number of Closed/HalfOpen -> Open transitions without closing.",
			nil, constLabels,
		),
	}
}

func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.state
	ch <- c.failureRate
	ch <- c.flapCount
}

func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, c.breaker.stateGauge())
	ch <- prometheus.MustNewConstMetric(c.failureRate, prometheus.GaugeValue, float64(c.breaker.failureRate()))
	ch <- prometheus.MustNewConstMetric(c.flapCount, prometheus.GaugeValue, float64(c.breaker.FlapCount()))
}
