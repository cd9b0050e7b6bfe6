package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/domain"
)

// Operation result labels.
const (
	resultOK         = "ok"
	resultNotFound   = "not_found"
	resultOutOfRange = "index_out_of_range"
	resultInvalid    = "invalid_input"
	resultError      = "error"
)

// Metrics holds the engine collectors.
type Metrics struct {
	operations *prometheus.CounterVec
	toggles    *prometheus.CounterVec
	malformed  *prometheus.CounterVec
	cartUnits  prometheus.Histogram
}

// NewMetrics registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_engine_operations_total",
			Help: "Cart and wishlist engine operations by result",
		}, []string{"operation", "result"}),
		toggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_wishlist_toggles_total",
			Help: "Wishlist toggles by direction",
		}, []string{"direction"}),
		malformed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_malformed_snapshots_total",
			Help: "Stored snapshots that failed to decode and were reset",
		}, []string{"key"}),
		cartUnits: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_cart_units",
			Help:    "Units in the bag after each state change",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

// ObserveCounters records refreshed counters. It has the notify.CounterFunc
// signature so it can be subscribed to a CounterSync.
func (m *Metrics) ObserveCounters(_ string, c domain.Counters) {
	m.cartUnits.Observe(float64(c.CartQuantity))
}
