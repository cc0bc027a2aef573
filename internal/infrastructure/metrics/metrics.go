// Package metrics exposes Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RefreshMetrics counts bulk price refresh outcomes per item.
type RefreshMetrics struct {
	items     *prometheus.CounterVec
	refreshes prometheus.Counter
}

// NewRefreshMetrics registers the refresh counters on the given registry.
// A nil registry uses the default one.
func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RefreshMetrics{
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tenderdesk",
			Subsystem: "refresh",
			Name:      "items_total",
			Help:      "Line items processed by bulk price refresh, by outcome.",
		}, []string{"outcome"}),
		refreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tenderdesk",
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Bulk price refresh runs.",
		}),
	}
}

// ObserveRefresh implements tender.RefreshMetrics.
func (m *RefreshMetrics) ObserveRefresh(updated, skipped, failed int) {
	m.refreshes.Inc()
	m.items.WithLabelValues("updated").Add(float64(updated))
	m.items.WithLabelValues("skipped").Add(float64(skipped))
	m.items.WithLabelValues("failed").Add(float64(failed))
}

// Handler serves the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
