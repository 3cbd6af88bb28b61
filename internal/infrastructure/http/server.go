package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mrops-br/shopping-cart/internal/infrastructure/config"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/http/handler"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/http/middleware"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/telemetry"
)

// Handlers groups the route handlers the server mounts.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Page    *handler.PageHandler
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	handlers  Handlers
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:    cfg.Address(),
		Handler: s.Handler(),
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	meter := s.telemetry.MeterProvider.Meter("shopping-cart")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRouteContext())

		r.Get("/", s.handlers.Page.Show)
		r.Post("/actions/{id}/{action}", s.handlers.Page.Act)

		r.Route("/products", func(r chi.Router) {
			r.Post("/", s.handlers.Catalog.CreateProduct)
			r.Get("/", s.handlers.Catalog.ListProducts)
			r.Get("/{id}", s.handlers.Catalog.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.handlers.Cart.GetCart)
			r.Post("/items", s.handlers.Cart.AddItem)
			r.Put("/items/{id}", s.handlers.Cart.UpdateItem)
			r.Delete("/items/{id}", s.handlers.Cart.RemoveItem)
			r.Post("/items/{id}/actions/{action}", s.handlers.Cart.ApplyAction)
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Get("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}).ServeHTTP)
}

// Handler returns the router wrapped with otelhttp, which adds the
// standard http.server.* metrics and a span per request.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
