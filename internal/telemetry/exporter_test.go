package telemetry

import (
	"context"
	"testing"

	"trainwatch/internal/progress"
)

func TestNewExporter_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	e, err := NewExporter(context.Background())
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	if e != nil {
		t.Error("expected nil exporter when endpoint is unset")
	}
}

func TestNilExporter_NoOps(t *testing.T) {
	var e *Exporter
	// All methods must be safe on a nil receiver.
	e.StartRun(context.Background(), "python train.py", "loss")
	e.RecordUpdate(progress.Event{Metric: "loss", Score: 0.5})
	e.EndRun("completed")
	if err := e.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on nil exporter: %v", err)
	}
}
