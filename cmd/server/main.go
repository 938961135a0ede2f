// Package main initializes and starts the cardlink API server, setting up
// configuration, logging, database connections, repositories, services and
// handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cardlink/internal/config"
	"cardlink/internal/db"
	"cardlink/internal/logger"
	"cardlink/internal/payment"
	"cardlink/internal/repository"
	"cardlink/internal/server/handler/http"
	"cardlink/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Load optional .env, then command-line and environment configuration.
	_ = godotenv.Load(".env")
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically remove expired sessions.
	db.StartSessionCleaner(context.Background(), postgresDB,
		time.Hour, // interval
		zapLogger,
	)

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	docRepo := repository.NewPostgresDocumentRepository(postgresDB)
	marketRepo := repository.NewPostgresMarketRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	gateway := service.NewCardGateway(docRepo)
	marketService := service.NewMarketService(marketRepo, authRepo, gateway, payment.NewProcessor())

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	cardsHandler := &http.CardsHandler{Gateway: gateway}
	marketHandler := &http.MarketHandler{MarketService: marketService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, cardsHandler, marketHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
