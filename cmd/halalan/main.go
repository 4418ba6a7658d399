package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"halalan/internal/config"
	"halalan/internal/database"
	"halalan/internal/logging"
	"halalan/internal/server"
	"halalan/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := bootstrapAdmin(db, cfg, logger); err != nil {
		logger.Error("bootstrap admin", "error", err)
		os.Exit(1)
	}

	srv := server.New(db, cfg, logger)

	// Expired login-throttle entries are purged periodically.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
}

// bootstrapAdmin creates the initial admin account from the environment
// when none exists yet. Without it the admin API would be unreachable on a
// fresh database.
func bootstrapAdmin(db *sql.DB, cfg *config.Config, logger *slog.Logger) error {
	admins := store.NewAdminStore(db)
	existing, err := admins.GetByUsername(cfg.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if cfg.AdminPassword == "" {
		logger.Warn("no admin account and HALALAN_ADMIN_PASSWORD unset, admin API disabled")
		return nil
	}
	admin, err := admins.Create(cfg.AdminUsername, cfg.AdminFullName, cfg.AdminPassword)
	if err != nil {
		return err
	}
	logger.Info("bootstrap admin created", "username", admin.Username)
	return nil
}
