package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/restobar/pricing-service/internal/config"
	"github.com/restobar/pricing-service/internal/handlers"
	"github.com/restobar/pricing-service/internal/middleware"
	"github.com/restobar/pricing-service/internal/pricing"
	"github.com/restobar/pricing-service/internal/repository"
	"github.com/restobar/pricing-service/internal/service"
	"github.com/restobar/pricing-service/pkg/logger"
	"github.com/shopspring/decimal"
)

func main() {
	// Prices serialize as JSON numbers, matching the admin UI
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting pricing service",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Initialize repositories: Postgres when configured, in-memory otherwise
	var (
		priceListRepo repository.PriceListRepository
		productRepo   repository.ProductRepository
	)
	if cfg.Database.URL != "" {
		pool, err := repository.Connect(context.Background(), cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		priceListRepo = repository.NewPostgresPriceListRepository(pool)
		productRepo = repository.NewPostgresProductRepository(pool)
		log.Info("using postgres repositories")
	} else {
		priceListRepo = repository.NewInMemoryPriceListRepository()
		productRepo = repository.NewInMemoryProductRepository()
		log.Info("using in-memory repositories")
	}

	// Initialize the pricing core
	registry := pricing.NewRegistry()
	priceListService := service.NewPriceListService(priceListRepo, registry, log)

	if err := priceListService.Bootstrap(context.Background()); err != nil {
		log.Error("failed to load price lists", "error", err)
		os.Exit(1)
	}
	snap := registry.Snapshot()
	log.Info("price registry loaded", "price_lists", snap.NumPriceLists(), "generation", snap.Generation())

	resolver := pricing.NewResolver(registry)
	var priceResolver service.PriceResolver = resolver
	if cfg.Pricing.CacheEnabled {
		priceResolver = pricing.NewCache(resolver, time.Duration(cfg.Pricing.CacheTTLSeconds)*time.Second)
		log.Info("resolution cache enabled", "ttl_seconds", cfg.Pricing.CacheTTLSeconds)
	}

	quoteService := service.NewQuoteService(productRepo, priceResolver, cfg.Pricing.DefaultLocationID)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productRepo, log)
	priceListHandler := handlers.NewPriceListHandler(priceListService, log)
	quoteHandler := handlers.NewQuoteHandler(quoteService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Read-only menu surface
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		// Price list read surface
		r.Get("/price-lists", priceListHandler.ListPriceLists)
		r.Get("/price-lists/{priceListId}", priceListHandler.GetPriceList)
		r.Get("/price-lists/{priceListId}/products", priceListHandler.ListOverrides)

		// Mutations and quotes require an API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))

			r.Post("/price-lists", priceListHandler.CreatePriceList)
			r.Put("/price-lists/{priceListId}", priceListHandler.UpdatePriceList)
			r.Delete("/price-lists/{priceListId}", priceListHandler.DeletePriceList)
			r.Post("/price-lists/{priceListId}/products/{productId}", priceListHandler.UpsertOverride)
			r.Delete("/price-lists/{priceListId}/products/{productId}", priceListHandler.DeleteOverride)

			r.Post("/quote", quoteHandler.CreateQuote)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
