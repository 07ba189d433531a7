package telemetry

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string // host only, e.g. "otlp-gateway-prod-ap-south-1.grafana.net"
	OTLPHeaders    map[string]string
	InstanceID     string
	Enabled        bool
}

// Provider holds the initialized OTEL providers
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Initialize sets up trace and metric export for the console API
func Initialize(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		log.Println("📊 OpenTelemetry disabled")
		return nil, nil
	}

	log.Printf("📊 Initializing OpenTelemetry for %s...", cfg.ServiceName)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
			semconv.ServiceNamespace("travelmate"),
			semconv.ServiceInstanceID(cfg.InstanceID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Grafana Cloud OTLP serves under /otlp
	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithURLPath("/otlp/v1/traces"),
		otlptracehttp.WithHeaders(cfg.OTLPHeaders),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter, trace.WithBatchTimeout(5*time.Second)),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetrichttp.WithURLPath("/otlp/v1/metrics"),
		otlpmetrichttp.WithHeaders(cfg.OTLPHeaders),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(30*time.Second))),
		metric.WithResource(res),
		// refresh latency spans network fetches from a few ms to tens of seconds
		metric.WithView(metric.NewView(
			metric.Instrument{Name: "admin_console.workspace.refresh.duration"},
			metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
			}},
		)),
	)
	otel.SetMeterProvider(meterProvider)

	log.Printf("✓ OpenTelemetry initialized (endpoint: %s)", cfg.OTLPEndpoint)

	return &Provider{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}

// Shutdown flushes and stops the OTEL providers
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	log.Println("📊 Shutting down OpenTelemetry...")

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down meter provider: %v", err)
		}
	}
	return nil
}

// Refresh outcomes recorded on the refresh duration histogram
const (
	RefreshComplete   = "complete"
	RefreshPartial    = "partial"
	RefreshSuperseded = "superseded"
)

// WorkspaceMetrics are the instruments describing admin workspaces. A nil
// *WorkspaceMetrics records nothing.
type WorkspaceMetrics struct {
	refreshDuration otelmetric.Float64Histogram
	fetchFailures   otelmetric.Int64Counter
	live            otelmetric.Int64UpDownCounter
}

// NewWorkspaceMetrics registers the workspace instruments on provider
func NewWorkspaceMetrics(provider otelmetric.MeterProvider) (*WorkspaceMetrics, error) {
	meter := provider.Meter("travelmate-admin-console/workspace")

	refreshDuration, err := meter.Float64Histogram("admin_console.workspace.refresh.duration",
		otelmetric.WithDescription("Time to fetch and commit all collections of a workspace"),
		otelmetric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh histogram: %w", err)
	}

	fetchFailures, err := meter.Int64Counter("admin_console.workspace.fetch.failures",
		otelmetric.WithDescription("Collection fetches that failed during a refresh"))
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch failure counter: %w", err)
	}

	live, err := meter.Int64UpDownCounter("admin_console.workspaces.live",
		otelmetric.WithDescription("Signed-in admin workspaces held in memory"))
	if err != nil {
		return nil, fmt.Errorf("failed to create live workspace counter: %w", err)
	}

	return &WorkspaceMetrics{
		refreshDuration: refreshDuration,
		fetchFailures:   fetchFailures,
		live:            live,
	}, nil
}

// RecordRefresh records how long a refresh took and how it ended
func (m *WorkspaceMetrics) RecordRefresh(ctx context.Context, elapsed time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.refreshDuration.Record(ctx, float64(elapsed.Microseconds())/1000,
		otelmetric.WithAttributes(attribute.String("outcome", outcome)))
}

// FetchFailed counts one failed fetch of collection
func (m *WorkspaceMetrics) FetchFailed(ctx context.Context, collection string) {
	if m == nil {
		return
	}
	m.fetchFailures.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("collection", collection)))
}

// WorkspaceOpened and WorkspaceClosed track the number of live workspaces
func (m *WorkspaceMetrics) WorkspaceOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.live.Add(ctx, 1)
}

func (m *WorkspaceMetrics) WorkspaceClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.live.Add(ctx, -1)
}
