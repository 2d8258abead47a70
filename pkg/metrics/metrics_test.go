package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("petbooking", prometheus.NewRegistry())

	m.ReservationCreated("slot")
	m.ReservationCreated("slot")
	m.ReservationConflict("range")
	m.StatusChanged("accepted")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("petbooking", "slot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationConflicts.WithLabelValues("petbooking", "range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("petbooking", "accepted")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ReservationCreated("slot")
		m.ReservationConflict("slot")
		m.StatusChanged("cancelled")
		m.ObserveHTTPRequest("GET", "/", "200", 0.1)
		m.ObserveQuery("select", 0.1, nil)
		m.SetConnections(1, 1, 0)
	})
	assert.Equal(t, "", m.ServiceName())
}
