package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/scheduler"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" || cfg.Server.Debug {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: format == "console",
	})

	logger.Info("Starting Foodgram Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"storage":     cfg.Storage.Driver,
	})

	// Initialize database
	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed tag and ingredient catalogues
	if err := db.Seed(conn); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token revocation list: Redis when enabled, otherwise the database
	var revoker service.TokenRevoker = repository.NewRevokedTokenRepository(conn)
	if cfg.Redis.Enabled {
		blacklist, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer blacklist.Close()
		revoker = blacklist
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	application := app.New(cfg, app.Dependencies{
		DB:       conn,
		Revoker:  revoker,
		Images:   storage.New(cfg),
		Registry: registry,
	})

	// Default superuser
	if cfg.Superuser.HasSuperuser() {
		created, err := application.UserService.EnsureSuperuser(
			cfg.Superuser.Username,
			cfg.Superuser.Email,
			cfg.Superuser.Password,
		)
		if err != nil {
			logger.Error("Failed to create default superuser", err)
		} else if created {
			logger.Info("Default superuser created", map[string]interface{}{
				"username": cfg.Superuser.Username,
			})
		}
	}

	// Hourly purge of expired revocations
	purgeScheduler := scheduler.NewTokenPurgeScheduler(revoker, scheduler.DefaultPurgeSpec)
	if err := purgeScheduler.Start(); err != nil {
		logger.Fatal("Failed to start token purge scheduler", err)
	}
	defer purgeScheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
