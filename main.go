package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrops-br/shopping-cart/internal/app/service"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/config"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/http"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/http/handler"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/render"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/repository/memory"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/telemetry"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telem, err := telemetry.NewTelemetry(ctx, &cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("shopping-cart")
	meter := telem.MeterProvider.Meter("shopping-cart")
	logger := telem.Logger

	logger.Info("Starting shopping cart")

	repo := memory.NewProductRepository(tracer, logger)
	catalogService := service.NewCatalogService(repo, tracer, meter, logger)
	cartService := service.NewCartService(catalogService, tracer, meter, logger)

	renderer := render.NewRenderer(logger)
	detach := renderer.Attach(cartService)
	defer detach()

	if cfg.Cart.SeedDemo {
		if err := service.SeedDemo(ctx, catalogService, cartService); err != nil {
			logger.Error("Failed to seed demo cart", slog.String("error", err.Error()))
			return
		}
	}

	binder := render.NewBinder(cartService, renderer, logger)

	server := http.NewServer(&cfg.Server, http.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Page:    handler.NewPageHandler(renderer, binder, logger),
	}, logger, telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
