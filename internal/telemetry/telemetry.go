// Package telemetry wires ambient OpenTelemetry tracing around flow and
// task execution. It is carried regardless of spec.md's Non-goals (only
// distributed scheduling/consensus is excluded there) the same way the rest
// of the example pack instruments unit-of-work boundaries.
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/itwasneo/runer/internal/engine"

// Init configures the process-wide tracer provider. When OTEL_EXPORTER_OTLP_ENDPOINT
// is unset, spans are created but never exported (otel's default no-op
// exporter), so tracing costs nothing in the common local-run case.
// It returns a shutdown func the caller should defer at process exit.
func Init(ctx context.Context) (shutdown func(context.Context) error, err error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp.Shutdown, nil
	}

	exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName("runer")))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns the engine's named tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartFlow opens the runer.flow span for one execute_flow call.
func StartFlow(ctx context.Context, flowName string, flowIndex int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "runer.flow", trace.WithAttributes(
		attribute.String("flow.name", flowName),
		attribute.Int("flow.index", flowIndex),
	))
}

// StartTask opens the runer.task span for one task runner's dispatch.
func StartTask(ctx context.Context, taskID int, job string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "runer.task", trace.WithAttributes(
		attribute.Int("task.id", taskID),
		attribute.String("task.job", job),
	))
}
