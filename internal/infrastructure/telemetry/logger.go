package telemetry

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/shopping-cart/internal/infrastructure/config"
)

type contextKey string

const httpRouteKey contextKey = "http.route"

// WithHTTPRoute stores the matched route pattern so every log line of the
// request carries it.
func WithHTTPRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, httpRouteKey, route)
}

// HTTPRouteFromContext returns the route stored by WithHTTPRoute, or "".
func HTTPRouteFromContext(ctx context.Context) string {
	if route, ok := ctx.Value(httpRouteKey).(string); ok {
		return route
	}
	return ""
}

// traceContextHandler adds trace_id, span_id and http.route from the
// context to each record.
type traceContextHandler struct {
	handler slog.Handler
}

func (h *traceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}

	return h.handler.Handle(ctx, r)
}

func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{handler: h.handler.WithGroup(name)}
}

// newLogger builds the JSON logger used by the whole service.
func newLogger(w io.Writer, cfg *config.OTLPConfig) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(&traceContextHandler{handler: jsonHandler}).With(
		slog.String("service.name", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
}
