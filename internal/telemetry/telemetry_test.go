package telemetry

import (
	"context"
	"testing"
)

func TestInit_NoEndpointUsesNoopExporter(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer shutdown(context.Background())

	ctx, span := StartFlow(context.Background(), "build-and-deploy", 0)
	if !span.SpanContext().IsValid() {
		t.Fatal("expected a valid span context")
	}
	_, taskSpan := StartTask(ctx, 1, "shell")
	taskSpan.End()
	span.End()
}
