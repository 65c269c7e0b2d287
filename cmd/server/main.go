package main

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/internal/infrastructure/config"
	"flightsurety-service/internal/infrastructure/persistence"
	"flightsurety-service/internal/interface/api"
	"flightsurety-service/internal/interface/contract"
	repo "flightsurety-service/internal/interface/repository"
	"flightsurety-service/internal/usecase"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting FlightSurety oracle server", "version", cfg.AppVersion, "network", cfg.Network)

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	network, err := config.LoadNetwork(cfg.NetworkConfigPath, cfg.Network)
	if err != nil {
		log.Fatal("Failed to load network config", "error", err)
	}

	parsedABI, err := contract.LoadABI(cfg.ContractArtifactPath)
	if err != nil {
		log.Fatal("Failed to load contract ABI", "error", err)
	}

	// Event subscriptions need a WebSocket endpoint
	log.Info("Connecting to Ethereum node", "url", network.WebSocketURL())
	rpcClient, err := persistence.NewRPCClient(ctx, network.WebSocketURL())
	if err != nil {
		log.Fatal("Failed to connect to Ethereum node", "error", err)
	}
	defer rpcClient.Close()

	gateway := contract.NewGateway(rpcClient, network.AppContract(), parsedABI, log)
	log.Info("Using FlightSuretyApp contract", "network", cfg.Network, "address", gateway.Address().Hex())

	// Oracle event log: MongoDB when configured, memory otherwise
	var mongoClient *mongo.Client
	var eventRepo repository.OracleEventRepository
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, persistence.MongoOptions{
			URI:      cfg.MongoURI,
			Username: cfg.MongoUser,
			Password: cfg.MongoPassword,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		eventRepo = repo.NewMongoOracleEventRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	} else {
		log.Info("MONGODB_DSN not set, keeping oracle events in memory")
		eventRepo = repo.NewMemoryOracleEventRepository()
	}

	registry := repo.NewMemoryOracleRegistry()

	relay := usecase.NewOracleRelay(gateway, gateway, registry, eventRepo, m, log, usecase.RelayConfig{
		OracleCount: cfg.OracleCount,
		FromBlock:   big.NewInt(cfg.OracleFromBlock),
		RPCTimeout:  cfg.RPCTimeout,
	}, nil)

	// Register oracles, then follow events in a goroutine
	go func() {
		n, err := relay.RegisterOracles(ctx)
		if err != nil {
			log.Error("Oracle registration failed", "error", err)
			return
		}
		log.Info("Oracles registered", "count", n)

		if err := relay.StartListening(ctx); err != nil {
			log.Error("Oracle relay stopped", "error", err)
		}
	}()

	// Set up HTTP server
	handler := api.NewHandler(registry, eventRepo, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(handler, prometheus.DefaultGatherer),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("FlightSurety oracle server stopped")
}
