// Package main provides a local HTTP server for development and testing.
// It mounts the same handlers the Lambda functions run, so form builders and
// the call API can be pointed at a tunnel during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"lead-call-bridge/internal/config"
	"lead-call-bridge/internal/handlers"
	"lead-call-bridge/internal/services/ses"
	"lead-call-bridge/internal/services/vapi"
	"lead-call-bridge/internal/utils"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	if err := cfg.ValidateVapi(); err != nil {
		logger.Warn("Vapi is not configured; form submissions will be answered 500", utils.Error(err))
	}

	notifier, err := ses.NewNotifier(context.Background(), cfg)
	if err != nil {
		logger.Warn("Lead alerts disabled", utils.Error(err))
		notifier = ses.NopNotifier{}
	}

	client := vapi.NewClient(cfg.VapiAPIKey, cfg.VapiBaseURL, cfg.VapiTimeout)

	router := handlers.Routes(handlers.Dependencies{
		FormIntake: handlers.NewFormIntakeHandler(cfg, client, notifier),
		CallEvents: handlers.NewCallEventsHandler(),
		Health:     handlers.NewHealthHandler(cfg),
		Log:        logger,
	})

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Lead Call Bridge API Server")
	log.Printf("Form intake: http://localhost:%s/api/duda-form", cfg.Port)
	log.Printf("Call events: http://localhost:%s/api/vapi-events", cfg.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", utils.Error(err))
	}
}
