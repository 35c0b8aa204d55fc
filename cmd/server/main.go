package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/handlers"
	"github.com/localnerve/itemsetgroup/internal/services"

	_ "github.com/localnerve/itemsetgroup/docs/api" // Swagger docs
)

// @title Item Set Group API
// @version 1.0.0
// @description Representative thumbnails, selection blocks and grouped browse URLs for Omeka S item sets
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/itemsetgroup
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the Omeka database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Module migrations run once here, never per request
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	svc, err := services.NewApp(cfg, db)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	var validator services.SessionValidator
	if cfg.AuthEnabled() {
		// The Authorizer client is created on the first signed in request
		validator = services.NewAuthorizerValidator(cfg, "")
		log.Printf("Authorizer will be initialized on first authenticated request")
	} else {
		log.Printf("AUTHZ_URL is not set, every visitor is anonymous")
	}

	app := handlers.NewServer(cfg, svc, validator, handlers.ServerOptions{
		Metrics:   true,
		AccessLog: true,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
