package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes besides the error kinds
const (
	OutcomeOK         = "ok"
	OutcomeBadRequest = "bad_request"
)

type Metrics struct {
	requests           *prometheus.CounterVec
	seqnoFetchDuration prometheus.Histogram
	seqnoFetchErrors   prometheus.Counter
	lastSeqnoGauge     prometheus.Gauge
}

// NewMetrics registers the service metrics on reg (prometheus.DefaultRegisterer in production)
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_boc_requests_total", namespace),
			Help: "Handled BOC generation requests by outcome",
		}, []string{"outcome"}),
		seqnoFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_seqno_fetch_seconds", namespace),
			Help:    "Duration of wallet seqno lookups",
			Buckets: prometheus.DefBuckets,
		}),
		seqnoFetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_seqno_fetch_errors_total", namespace),
			Help: "Failed wallet seqno lookups",
		}),
		lastSeqnoGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_last_seqno", namespace),
			Help: "The latest seqno read for the service wallet",
		}),
	}
	return &m
}

// ObserveRequest counts one handled request. Nil receiver is a no-op.
func (metrics *Metrics) ObserveRequest(outcome string) {
	if metrics == nil {
		return
	}
	metrics.requests.WithLabelValues(outcome).Inc()
}

// ObserveSeqnoFetch records one seqno lookup. Nil receiver is a no-op.
func (metrics *Metrics) ObserveSeqnoFetch(d time.Duration, seqno uint32, err error) {
	if metrics == nil {
		return
	}
	metrics.seqnoFetchDuration.Observe(d.Seconds())
	if err != nil {
		metrics.seqnoFetchErrors.Inc()
		return
	}
	metrics.lastSeqnoGauge.Set(float64(seqno))
}
