package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveRequest("GET", 200, 10*time.Millisecond)
	c.ObserveRequest("GET", 200, 20*time.Millisecond)
	c.ObserveRequest("POST", 401, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("POST", "401")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.RequestDuration))
}

func TestCollector_RefreshAndExports(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveRefresh(RefreshOK)
	c.ObserveRefresh(RefreshNoToken)
	c.ObserveRefresh(RefreshOK)
	c.ObserveExport("file", "soap")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RefreshTotal.WithLabelValues(RefreshOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RefreshTotal.WithLabelValues(RefreshNoToken)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExportsTotal.WithLabelValues("file", "soap")))
}

func TestCollector_Track(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	done := c.Track()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.InFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.InFlight))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.ObserveRequest("GET", 200, time.Second)
		c.ObserveRefresh(RefreshFailed)
		c.ObserveExport("s3", "analytics")
		c.Track()()
	})
}

func TestCollector_WriteText(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.ObserveRefresh(RefreshRejected)

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))
	assert.Contains(t, buf.String(), `medscribe_auth_refresh_total{outcome="rejected"} 1`)
}

func TestNewCollector_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		NewCollector(prometheus.NewRegistry())
		NewCollector(prometheus.NewRegistry())
	})
}
