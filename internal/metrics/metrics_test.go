package metrics

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolCollectorWithoutPool(t *testing.T) {
	c := NewPoolCollector(func() *pgxpool.Stat { return nil })

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPoolCollectorDescribesAllMetrics(t *testing.T) {
	c := NewPoolCollector(func() *pgxpool.Stat { return nil })

	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)
	assert.Len(t, ch, 6)
}

func TestRequestCounter(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/movies/", "200"))
	HTTPRequestsTotal.WithLabelValues("GET", "/movies/", "200").Inc()
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/movies/", "200"))
	assert.Equal(t, before+1, after)
}
