package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestWorkspaceMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	metrics, err := NewWorkspaceMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)
	ctx := context.Background()

	metrics.WorkspaceOpened(ctx)
	metrics.WorkspaceOpened(ctx)
	metrics.WorkspaceClosed(ctx)
	metrics.FetchFailed(ctx, "bookings")
	metrics.FetchFailed(ctx, "bookings")
	metrics.RecordRefresh(ctx, 120*time.Millisecond, RefreshPartial)

	got := collect(t, reader)

	live := got["admin_console.workspaces.live"].Data.(metricdata.Sum[int64])
	require.Len(t, live.DataPoints, 1)
	assert.Equal(t, int64(1), live.DataPoints[0].Value)

	failures := got["admin_console.workspace.fetch.failures"].Data.(metricdata.Sum[int64])
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(2), failures.DataPoints[0].Value)
	collection, _ := failures.DataPoints[0].Attributes.Value(attribute.Key("collection"))
	assert.Equal(t, "bookings", collection.AsString())

	refresh := got["admin_console.workspace.refresh.duration"].Data.(metricdata.Histogram[float64])
	require.Len(t, refresh.DataPoints, 1)
	assert.Equal(t, uint64(1), refresh.DataPoints[0].Count)
	assert.InDelta(t, 120.0, refresh.DataPoints[0].Sum, 0.001)
	outcome, _ := refresh.DataPoints[0].Attributes.Value(attribute.Key("outcome"))
	assert.Equal(t, RefreshPartial, outcome.AsString())
}

func TestWorkspaceMetrics_NilIsNoop(t *testing.T) {
	var metrics *WorkspaceMetrics
	assert.NotPanics(t, func() {
		metrics.WorkspaceOpened(context.Background())
		metrics.FetchFailed(context.Background(), "packages")
		metrics.RecordRefresh(context.Background(), time.Second, RefreshComplete)
		metrics.WorkspaceClosed(context.Background())
	})
}

func TestInitialize_Disabled(t *testing.T) {
	provider, err := Initialize(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, provider)
	assert.NoError(t, provider.Shutdown(context.Background()))
}
