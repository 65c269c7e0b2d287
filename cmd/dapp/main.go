package main

import (
	"context"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/internal/infrastructure/config"
	"flightsurety-service/internal/infrastructure/persistence"
	"flightsurety-service/internal/interface/contract"
	"flightsurety-service/internal/interface/dapp"
	repo "flightsurety-service/internal/interface/repository"
	"flightsurety-service/internal/usecase"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
	log.Info("Starting FlightSurety dapp", "version", cfg.AppVersion, "network", cfg.Network)

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

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

	log.Info("Connecting to Ethereum node", "url", network.URL)
	rpcClient, err := persistence.NewRPCClient(ctx, network.URL)
	if err != nil {
		log.Fatal("Failed to connect to Ethereum node", "error", err)
	}
	defer rpcClient.Close()

	gateway := contract.NewGateway(rpcClient, network.AppContract(), parsedABI, log)
	log.Info("Using FlightSuretyApp contract", "network", cfg.Network, "address", gateway.Address().Hex())

	// Airline directory: PostgreSQL when configured, memory otherwise
	var airlineRepo repository.AirlineRepository
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		db, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		gormRepo := repo.NewGormAirlineRepository(db).(*repo.GormAirlineRepository)
		if err := gormRepo.Migrate(); err != nil {
			log.Fatal("Failed to migrate airline table", "error", err)
		}
		airlineRepo = gormRepo
	} else {
		log.Info("POSTGRES_DSN not set, keeping airlines in memory")
		airlineRepo = repo.NewMemoryAirlineRepository()
	}

	generator := usecase.NewFlightGenerator(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), usecase.DefaultFlightLocation())

	controller, err := usecase.NewDapp(ctx, gateway, airlineRepo, generator, m, log, usecase.DappConfig{
		OracleCount: cfg.DappOracleCount,
		RPCTimeout:  cfg.RPCTimeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize dapp", "error", err)
	}
	log.Info("Dapp initialized",
		"owner", controller.Pool().Owner.Hex(),
		"firstAirline", controller.Pool().FirstAirline.Hex(),
		"timestamp", controller.Timestamp())

	if err := dapp.RegisterValidations(); err != nil {
		log.Fatal("Failed to register validations", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := dapp.NewRouter(dapp.NewHandler(controller, log))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         ":" + cfg.DappPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.DappPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("FlightSurety dapp stopped")
}
