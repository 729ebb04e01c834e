// main.go
package main

import (
	"context"
	"log"

	"review-catalog/cmd"
	"review-catalog/internal/data/memstore"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/wire"
	"review-catalog/pkg/database"
	"review-catalog/pkg/jwt"
	"review-catalog/pkg/mailer"
	"review-catalog/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Storage
	var repos *repository.Repository
	switch config.Database.Driver {
	case "memory":
		repos = memstore.NewRepository(memstore.New())
		logger.Warn("Using in-memory storage, data is lost on restart")
	default:
		db, err := database.InitDB(config.Database, config.App.Name)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")

		if config.Database.AutoMigrate {
			if err := database.Migrate(config.Database, config.App.Name, logger); err != nil {
				logger.Fatal("Failed to apply migrations", zap.Error(err))
			}
		}

		repos = repository.NewRepository(db, logger)
	}

	tokens := jwt.NewService(config.JWT.Secret, config.JWT.AccessTTL, config.JWT.RefreshTTL)
	mail := mailer.New(config.Email, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, tokens, mail, logger)

	if err := app.Service.User.EnsureAdmin(context.Background(), config.Admin.Username, config.Admin.Email); err != nil {
		logger.Fatal("Failed to bootstrap admin", zap.Error(err))
	}

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
