package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/mrops-br/shopping-cart/internal/infrastructure/config"
)

func decodeLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var record map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &record); err != nil {
		t.Fatalf("decode log line failed: %v", err)
	}
	return record
}

func TestLoggerAddsTraceAndRoute(t *testing.T) {
	var buf bytes.Buffer
	telem, err := NewNoOpTelemetry(&config.OTLPConfig{ServiceName: "cart-test", Environment: "test"}, &buf)
	if err != nil {
		t.Fatalf("telemetry init failed: %v", err)
	}
	t.Cleanup(func() { _ = telem.Shutdown(context.Background()) })

	ctx, span := telem.TracerProvider.Tracer("test").Start(context.Background(), "op")
	ctx = WithHTTPRoute(ctx, "/cart/items/{id}")
	telem.Logger.InfoContext(ctx, "hello")
	span.End()

	record := decodeLastLine(t, &buf)
	if record["service.name"] != "cart-test" {
		t.Errorf("expected service.name, got %v", record["service.name"])
	}
	if record["http.route"] != "/cart/items/{id}" {
		t.Errorf("expected http.route, got %v", record["http.route"])
	}
	if record["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", span.SpanContext().TraceID(), record["trace_id"])
	}
	if _, ok := record["span_id"]; !ok {
		t.Error("expected span_id")
	}
}

func TestLoggerWithoutTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.OTLPConfig{ServiceName: "cart-test"})

	logger.WithGroup("cart").Info("plain", "lines", 2)

	record := decodeLastLine(t, &buf)
	if _, ok := record["trace_id"]; ok {
		t.Error("expected no trace_id without a span")
	}
	if _, ok := record["http.route"]; ok {
		t.Error("expected no http.route without a route")
	}
}

func TestNoOpTelemetryRegistersPrometheus(t *testing.T) {
	var buf bytes.Buffer
	telem, err := NewNoOpTelemetry(&config.OTLPConfig{ServiceName: "cart-test"}, &buf)
	if err != nil {
		t.Fatalf("telemetry init failed: %v", err)
	}
	t.Cleanup(func() { _ = telem.Shutdown(context.Background()) })

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("cart.test.counter")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(context.Background(), 1)

	families, err := telem.Registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "cart_test_counter_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected cart_test_counter_total in registry")
	}
}
