package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/shopping-cart/internal/infrastructure/telemetry"
)

// RoutePattern returns the chi route pattern matched for r, falling back
// to the raw path before routing has happened.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// ActiveRequestsMiddleware tracks in-flight requests per route. The route
// is only known once chi has matched it, so the increment waits for the
// first write.
func ActiveRequestsMiddleware(meter metric.Meter) func(next http.Handler) http.Handler {
	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &routeAwareWriter{ResponseWriter: w, request: r, activeRequests: activeRequests}
			defer rw.finish()
			next.ServeHTTP(rw, r)
		})
	}
}

type routeAwareWriter struct {
	http.ResponseWriter
	request        *http.Request
	activeRequests metric.Int64UpDownCounter
	attrs          metric.MeasurementOption
}

func (w *routeAwareWriter) WriteHeader(statusCode int) {
	w.start()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *routeAwareWriter) Write(b []byte) (int, error) {
	w.start()
	return w.ResponseWriter.Write(b)
}

func (w *routeAwareWriter) start() {
	if w.attrs != nil {
		return
	}
	w.attrs = metric.WithAttributes(
		attribute.String("http.request.method", w.request.Method),
		attribute.String("http.route", RoutePattern(w.request)),
		attribute.String("server.address", w.request.Host),
	)
	w.activeRequests.Add(w.request.Context(), 1, w.attrs)
}

func (w *routeAwareWriter) finish() {
	w.start()
	w.activeRequests.Add(w.request.Context(), -1, w.attrs)
}

// DurationMillisecondsMiddleware records request duration in milliseconds,
// next to the seconds-based histogram otelhttp emits.
func DurationMillisecondsMiddleware(meter metric.Meter) func(next http.Handler) http.Handler {
	durationHistogram, err := meter.Float64Histogram(
		"http.server.request.duration.ms",
		metric.WithDescription("HTTP server request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			durationHistogram.Record(r.Context(), float64(time.Since(start).Milliseconds()),
				metric.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("http.route", RoutePattern(r)),
					attribute.Int("http.response.status_code", status(ww)),
					attribute.String("server.address", r.Host),
				),
			)
		})
	}
}

// HTTPRouteContext puts the route pattern in the request context so every
// log line of the request carries http.route. Register it inside the
// routed group so the pattern is known.
func HTTPRouteContext() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := telemetry.WithHTTPRoute(r.Context(), RoutePattern(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StructuredLogger logs one JSON line per request, replacing chi's text
// logger.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			code := status(ww)

			attrs := []any{
				slog.String("http.request.method", r.Method),
				slog.String("http.route", RoutePattern(r)),
				slog.String("url.path", r.URL.Path),
				slog.Int("http.response.status_code", code),
				slog.Int("http.response.body.size", ww.BytesWritten()),
				slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
				slog.String("client.address", r.RemoteAddr),
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
				attrs = append(attrs,
					slog.String("trace_id", sc.TraceID().String()),
					slog.String("span_id", sc.SpanID().String()),
				)
			}

			level := slog.LevelInfo
			switch {
			case code >= 500:
				level = slog.LevelError
			case code >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "HTTP request completed", attrs...)
		})
	}
}

// status reports 200 for handlers that wrote a body without a header.
func status(ww chimiddleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
