package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c *Collector, name string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			}
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.BlockDropped()
	c.BlockDropped()
	c.BlockFrozen()
	c.BlockDespawned()
	c.LevelCompleted(0, 107)
	c.LevelCompleted(0, 90)

	assert.Equal(t, 2.0, counterValue(t, c, "tower_blocks_dropped_total"))
	assert.Equal(t, 1.0, counterValue(t, c, "tower_blocks_frozen_total"))
	assert.Equal(t, 1.0, counterValue(t, c, "tower_blocks_despawned_total"))
	assert.Equal(t, 2.0, counterValue(t, c, "tower_levels_completed_total"))
}

func TestSessionGauge(t *testing.T) {
	c := New()
	c.SessionStarted()
	c.SessionStarted()
	c.SessionEnded()
	assert.Equal(t, 1.0, counterValue(t, c, "tower_active_sessions"))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.BlockDropped()
	assert.Equal(t, 0.0, counterValue(t, b, "tower_blocks_dropped_total"))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.LevelCompleted(2, 250)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tower_levels_completed_total{level="3"} 1`)
	assert.Contains(t, string(body), "tower_level_score_count 1")
}
