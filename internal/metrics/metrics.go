// Package metrics exposes counters for transaction processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rippled"

// Metrics holds the processing counters. A nil *Metrics is valid and records
// nothing, so callers never need to check whether metrics are enabled.
type Metrics struct {
	txApplied       *prometheus.CounterVec
	pathPasses      prometheus.Counter
	offersTaken     prometheus.Counter
	sigCacheHits    prometheus.Counter
	sigCacheLookups prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_applied_total",
			Help:      "Transactions run through the processor, by type and result.",
		}, []string{"type", "result"}),
		pathPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_path_passes_total",
			Help:      "Increments computed by the payment router.",
		}),
		offersTaken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_taken_total",
			Help:      "Resting offers crossed while applying transactions.",
		}),
		sigCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_cache_hits_total",
			Help:      "Signature checks answered from the verification cache.",
		}),
		sigCacheLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_cache_lookups_total",
			Help:      "Signature checks that consulted the verification cache.",
		}),
	}
	for _, c := range []prometheus.Collector{m.txApplied, m.pathPasses, m.offersTaken, m.sigCacheHits, m.sigCacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on a registration error.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) TxApplied(txType, result string) {
	if m == nil {
		return
	}
	m.txApplied.WithLabelValues(txType, result).Inc()
}

func (m *Metrics) PathPass() {
	if m == nil {
		return
	}
	m.pathPasses.Inc()
}

func (m *Metrics) OfferTaken() {
	if m == nil {
		return
	}
	m.offersTaken.Inc()
}

// SignatureLookup records a verification cache lookup and whether it hit.
func (m *Metrics) SignatureLookup(hit bool) {
	if m == nil {
		return
	}
	m.sigCacheLookups.Inc()
	if hit {
		m.sigCacheHits.Inc()
	}
}
