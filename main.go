// main.go
package main

import (
	"context"
	"log"

	"safari-booking/cmd"
	"safari-booking/internal/data/repository"
	"safari-booking/internal/wire"
	"safari-booking/pkg/database"
	"safari-booking/pkg/mailer"
	"safari-booking/pkg/payment"
	"safari-booking/pkg/storage"
	"safari-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(context.Background())

	logger.Info("Database connected successfully")

	// External collaborators
	mail := mailer.NewSMTPMailer(config.Email, config.App.ClientURL, logger)

	store, err := storage.NewCloudinaryStorage(config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init file storage", zap.Error(err))
	}

	gateway, err := payment.NewPayPalGateway(config.PayPal, config.App.ClientURL, logger)
	if err != nil {
		logger.Fatal("Failed to init payment gateway", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, mail, store, gateway, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
