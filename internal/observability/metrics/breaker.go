package metrics

import (
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// BreakerStateSource reports circuit state per operation, e.g. "closed",
// "half-open" or "open".
type BreakerStateSource interface {
	BreakerStates() map[string]string
}

var breakerStates = []string{"closed", "half-open", "open"}

// breakerCollector reads breaker state at scrape time.
type breakerCollector struct {
	service string
	source  BreakerStateSource
	desc    *prometheus.Desc
}

// RegisterBreakerStates exposes docdigest_resilience_breaker_state, set to 1
// for the current state of each operation's breaker and 0 for the others.
func RegisterBreakerStates(registerer prometheus.Registerer, service string, source BreakerStateSource) {
	registerer.MustRegister(&breakerCollector{
		service: service,
		source:  source,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName("docdigest", "resilience", "breaker_state"),
			"Circuit breaker state per operation.",
			[]string{"service", "operation", "state"},
			nil,
		),
	})
}

func (c *breakerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *breakerCollector) Collect(ch chan<- prometheus.Metric) {
	states := c.source.BreakerStates()
	for _, op := range slices.Sorted(maps.Keys(states)) {
		for _, state := range breakerStates {
			value := 0.0
			if states[op] == state {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, value, c.service, op, state)
		}
	}
}
