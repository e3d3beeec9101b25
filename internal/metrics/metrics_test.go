package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.ObserveRequest(OutcomeOK)
	m.ObserveRequest(OutcomeOK)
	m.ObserveRequest("network")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("network")))

	m.ObserveSeqnoFetch(10*time.Millisecond, 7, nil)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.lastSeqnoGauge))

	m.ObserveSeqnoFetch(10*time.Millisecond, 0, errors.New("timeout"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.seqnoFetchErrors))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.lastSeqnoGauge))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(OutcomeOK)
		m.ObserveSeqnoFetch(time.Second, 1, nil)
	})
}
