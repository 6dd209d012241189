package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/prometheus"
)

func TestRecordRun_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("saturn-test", prometheus.WithRegisterer(reg))
	require.NoError(t, err)
	defer obs.Shutdown()

	obs.RecordRun(context.Background(), "success", 1500*time.Millisecond, 12)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, strings.ReplaceAll(f.GetName(), ".", "_"))
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "runs_completed")
	assert.Contains(t, joined, "runs_duration")
	assert.Contains(t, joined, "stats_published")
}

func TestZeroValueIsSafe(t *testing.T) {
	var obs Observability
	obs.RecordRun(context.Background(), "failure", time.Second, 0)
	obs.Shutdown()
}
