// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopsmith/storefront/internal/config"
	"github.com/shopsmith/storefront/internal/database"
	"github.com/shopsmith/storefront/internal/router"
	"github.com/shopsmith/storefront/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedInitialData(db); err != nil {
		logrus.WithError(err).Fatal("Failed to seed initial data")
	}

	// Initialize router
	r := router.Initialize(db, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Periodic stockout reevaluation, if enabled
	stopReevaluate := make(chan struct{})
	if cfg.Inventory.ReevaluateInterval > 0 {
		notificationService := services.NewNotificationService(db, cfg)
		preorderService := services.NewPreorderService(db, notificationService)

		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Inventory.ReevaluateInterval) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					transitioned, err := preorderService.ReevaluateStockouts(cfg.Inventory.ReevaluateBatchSize)
					if err != nil {
						logrus.WithError(err).Error("Stockout reevaluation failed")
						continue
					}
					if transitioned > 0 {
						logrus.WithField("transitioned", transitioned).Info("Stockout reevaluation completed")
					}
				case <-stopReevaluate:
					return
				}
			}
		}()
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")
	close(stopReevaluate)

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
