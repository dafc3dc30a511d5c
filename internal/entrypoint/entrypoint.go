// Package entrypoint wires the configured services together and runs the
// HTTP server until a shutdown signal arrives.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"estante/internal/auth"
	"estante/internal/config"
	"estante/internal/database"
	"estante/internal/database/settings"
	"estante/internal/database/users"
	http_controllers "estante/internal/http"
	"estante/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server and blocks until SIGINT/SIGTERM, then drains
// in-flight requests within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown requested, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds every service from configuration and starts serving.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Estante v%s", version)

	ctx := context.Background()

	db, err := database.NewDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	sessionManager, err := auth.NewSessionManager(db.DB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	userRepo := users.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	authService := auth.NewService(userRepo, settingsRepo, cfg.Auth)

	if err := authService.EnsureAdmin(cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	probe := scheduler.NewHealthProbe(db, cfg.Probe)
	if err := probe.Start(); err != nil {
		log.Fatalf("Failed to start health probe: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		SessionManager: sessionManager,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		probe.Stop()
	}

	Serve(router, cfg, onShutdown)
}
