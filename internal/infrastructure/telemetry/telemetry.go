package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mrops-br/shopping-cart/internal/infrastructure/config"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	conn *grpc.ClientConn
}

// NewTelemetry initializes all OpenTelemetry components. When export is
// disabled in cfg it falls back to NewNoOpTelemetry.
func NewTelemetry(ctx context.Context, cfg *config.OTLPConfig) (*Telemetry, error) {
	if !cfg.Enabled {
		return NewNoOpTelemetry(cfg, os.Stdout)
	}

	logger := newLogger(os.Stdout, cfg)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	logger.Info("Tracer provider initialized successfully")

	reg := newRegistry()
	mp, err := initMeterProvider(ctx, conn, res, reg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	setGlobals(tp, mp)

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       reg,
		Logger:         logger,
		conn:           conn,
	}, nil
}

// NewNoOpTelemetry creates providers that export nothing over the network.
// Metrics are still served through the Prometheus registry.
func NewNoOpTelemetry(cfg *config.OTLPConfig, w io.Writer) (*Telemetry, error) {
	logger := newLogger(w, cfg)

	reg := newRegistry()
	promReader, err := newPrometheusReader(reg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider()
	mp := metric.NewMeterProvider(metric.WithReader(promReader))

	setGlobals(tp, mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       reg,
		Logger:         logger,
	}, nil
}

// Shutdown flushes and stops all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func setGlobals(tp *sdktrace.TracerProvider, mp *metric.MeterProvider) {
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
