package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"

	"github.com/gin-gonic/gin"

	"etfTracker/config"
	"etfTracker/internal/adapters/logger"
	"etfTracker/internal/adapters/quotes"
	"etfTracker/internal/adapters/sqlite"
	"etfTracker/internal/app"
	"etfTracker/internal/handlers"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 4. Initialize Quote Provider
	quoteClient, err := quotes.New(quotes.Config{
		BaseURL: cfg.QuoteBaseURL,
		Timeout: cfg.QuoteTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize quote client: %v", err)
	}

	// 5. Initialize Application Service
	service, err := app.NewPortfolioService(app.Deps{
		Logger:      appLogger,
		Instruments: repo,
		Holdings:    repo,
		Trades:      repo,
		Capital:     repo,
		Settings:    repo,
		Activity:    repo,
		Snapshots:   repo,
		Quotes:      quoteClient,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize portfolio service: %v", err)
	}
	appLogger.Info(context.Background(), "Portfolio service initialized")

	// 6. HTTP Router
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(handlers.RequestID(appLogger))
	handlers.New(service, appLogger).Register(router)

	appLogger.Info(context.Background(), "Listening", map[string]interface{}{"addr": cfg.ListenAddr})
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("FATAL: HTTP server exited: %v", err)
	}
}
