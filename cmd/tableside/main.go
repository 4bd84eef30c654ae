package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableside/internal/config"
	"tableside/internal/events"
	"tableside/internal/logger"
	"tableside/internal/server"
	"tableside/internal/services/auth"
	"tableside/internal/services/cart"
	"tableside/internal/services/menu"
	"tableside/internal/services/order"
	"tableside/internal/storage"
)

func main() {
	// Parse command line flags
	var (
		configPath = flag.String("config", "config.yaml", "Path to the configuration file")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		backend    = flag.String("storage", "", "Storage backend: memory, file or postgres (overrides config)")
		menuPath   = flag.String("menu", "", "Path to a menu JSON file (default: embedded menu)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}

	// Create logger
	log := logger.New("tableside")
	requestID := logger.GenerateRequestID()

	log.Info("service_started", "Starting tableside", requestID, map[string]interface{}{
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Backend,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	if err := run(ctx, cfg, log, *menuPath, requestID); err != nil {
		log.Error("service_failed", "Service failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, menuPath, requestID string) error {
	// Pick the key-value backend
	store, cleanup, err := newStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer cleanup()

	log.Info("storage_ready", fmt.Sprintf("Using %s storage backend", cfg.Storage.Backend), requestID, nil)

	// Optional order-placed fan-out
	var dispatcher events.Dispatcher = events.NopDispatcher{}
	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		defer publisher.Close()
		dispatcher = publisher

		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
	}

	// Load the dish catalog
	catalog, err := menu.NewCatalog(menuPath, log)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	// Wire the ordering core
	cartManager, err := cart.NewManager(ctx, store, log)
	if err != nil {
		return fmt.Errorf("failed to initialize cart: %w", err)
	}

	orderService := order.NewService(store, cartManager, dispatcher, log, order.SystemClock{})
	authManager := auth.NewManager(log)

	navigateDelay := time.Duration(cfg.Ordering.NavigateDelaySeconds) * time.Second
	handler := server.NewHandler(catalog, cartManager, orderService, authManager, store, log,
		cfg.Server.BaseURL, navigateDelay)

	// Setup HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.SetupRoutes(),
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("server_started", fmt.Sprintf("Listening on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port": cfg.Server.Port,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

// newStore builds the configured storage backend. The returned cleanup
// is a no-op for backends without a connection to release.
func newStore(cfg *config.Config, log *logger.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	case "file":
		return storage.NewFileStore(cfg.Storage.Path), func() {}, nil
	case "postgres":
		pg, err := storage.NewPostgresStore(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
