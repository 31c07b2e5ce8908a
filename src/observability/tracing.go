package observability

import (
	"context"
	"fmt"
	"io"
	"time"

	"mms-curvature/src/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope used by the runner stages.
const TracerName = "mms-curvature/analysis"

// TracingConfig governs how stage tracing is initialised.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Writer      io.Writer // span destination, stdout exporter
}

// -----------------------------------------------------------------------------

// InitTracing installs a global tracer provider. When disabled a noop
// provider is installed. The returned function flushes pending spans.
func InitTracing(ctx context.Context, cfg TracingConfig, log *logger.Logger) (func(context.Context) error, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug("tracing disabled; using noop tracer provider")
		return func(context.Context) error { return nil }, nil
	}

	opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if cfg.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
	}
	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info("tracing enabled (service %s)", cfg.ServiceName)
	return tp.Shutdown, nil
}

// -----------------------------------------------------------------------------

// Tracer returns the runner tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// -----------------------------------------------------------------------------

// ShutdownWithTimeout invokes shutdown with a bounded timeout, logging errors.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log *logger.Logger) {
	if shutdown == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warning("tracing shutdown failed: %v", err)
	}
}
