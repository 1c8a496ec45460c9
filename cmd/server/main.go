// Command main is the entry point for the LevelUp backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levelup/internal/config"
	"levelup/internal/observability"
	"levelup/internal/server"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title LevelUp API
// @version 1.0
// @description Fitness and wellness API with scans, XP progression, social feed, chat rooms and an AI coach
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@levelup.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(context.Background(), observability.TracingConfig{
		ServiceName:    cfg.OTELServiceName,
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.OTELEnabled,
		Stdout:         cfg.OTELStdout,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SamplerRatio:   cfg.OTELSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
