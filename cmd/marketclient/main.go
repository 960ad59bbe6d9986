package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appcart "github.com/woiladev/marketplace-client/internal/application/cart"
	"github.com/woiladev/marketplace-client/internal/application/checkout"
	appsession "github.com/woiladev/marketplace-client/internal/application/session"
	"github.com/woiladev/marketplace-client/internal/config"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api/clients"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/infrastructure/store"
	"github.com/woiladev/marketplace-client/internal/pkg/clock"
	"github.com/woiladev/marketplace-client/internal/pkg/generator"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	log := logger.NewLogger()
	log.Info("Starting marketplace client")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	durable := buildDurableStore(cfg, log)
	scopes := store.Scopes{
		Durable: durable,
		Session: store.NewMemoryStore(),
	}

	apiClient := api.NewClient(cfg.API, durable, log)
	authClient := clients.NewAuthClient(apiClient)
	cartClient := clients.NewCartClient(apiClient)

	sessionManager := appsession.NewManager(authClient, scopes, log)
	cartManager := appcart.NewManager(cartClient, durable, log)

	ctx := context.Background()
	cartManager.Bind(ctx, sessionManager)
	sessionManager.Restore()

	user := sessionManager.User()
	if user != nil {
		log.Info("Authenticated session", "user_id", user.ID, "email", user.Email)
	} else {
		log.Info("Anonymous session")
	}
	log.Info("Cart state",
		"mode", string(cartManager.Mode()),
		"items", cartManager.TotalItems(),
		"total", cartManager.TotalPrice(),
	)

	checkoutFlow := checkout.NewFlow(
		cartManager,
		clients.NewOrdersClient(apiClient),
		clock.NewRealClock(),
		log,
		checkout.WithPaymentConfig(cfg.Payment),
	)
	log.Info("Checkout ready",
		"step", int(checkoutFlow.Step()),
		"processing_delay", cfg.Payment.ProcessingDelay().String(),
		"success_delay", cfg.Payment.SuccessDelay().String(),
	)

	if !cfg.Metrics.Enabled {
		return
	}

	metricsServer := monitoring.NewMetricsServer(cfg.Metrics.Addr)
	go func() {
		log.Info("Metrics listener starting", "address", cfg.Metrics.Addr)
		if err := metricsServer.Start(); err != nil {
			log.Error("Metrics listener failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := metricsServer.Stop(shutdownCtx); err != nil {
		log.Error("Metrics listener shutdown error", "error", err)
	}
	log.Info("Stopped")
}

func buildDurableStore(cfg *config.Config, log *logger.Logger) store.Store {
	switch cfg.Store.Backend {
	case "redis":
		conn, err := store.NewConnection(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		clientID := os.Getenv("MARKET_CLIENT_ID")
		if clientID == "" {
			clientID = generator.NewGenerator().ClientID()
			fmt.Fprintf(os.Stderr, "generated client id %s; set MARKET_CLIENT_ID to keep state across runs\n", clientID)
		}
		return store.NewRedisStore(conn, clientID, log)
	case "memory":
		return store.NewMemoryStore()
	default:
		return store.OpenFileStore(cfg.Store.FilePath, log)
	}
}
