package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	internalhttp "github.com/remnaops/vless-gateway/internal/api/http"
	"github.com/remnaops/vless-gateway/internal/api/http/middleware"
	"github.com/remnaops/vless-gateway/internal/gateway"
	"github.com/remnaops/vless-gateway/internal/probe"
	"github.com/remnaops/vless-gateway/internal/remna"
	"github.com/remnaops/vless-gateway/internal/roster"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("VLESS Gateway", "version", AppVersion)

	if err := config.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	credentials, err := roster.LoadCredentials(config.Sheet.CredentialsFile, config.Sheet.Credentials)
	if err != nil {
		slog.Error("Failed to load Google credentials", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	source, err := roster.NewSheetSource(ctx, credentials, config.Sheet.ID, config.Sheet.Page, config.Sheet.Column)
	if err != nil {
		slog.Error("Failed to create sheet source", "error", err)
		os.Exit(1)
	}

	refreshTTL := time.Duration(config.Sheet.RefreshMinutes) * time.Minute
	rst, err := roster.New(ctx, source, config.Sheet.StartRow, refreshTTL)
	if err != nil {
		slog.Error("Failed to load the authorization roster", "error", err)
		os.Exit(1)
	}

	remnaClient := remna.NewClient(remna.Config{
		BaseURL:    config.Remna.BaseURL,
		Token:      config.Remna.Token,
		Tag:        config.Remna.Tag,
		Status:     config.Remna.Status,
		Inbounds:   config.Remna.Inbounds,
		ExpireDays: config.Remna.ExpireDays,
	})

	svc := gateway.NewService(rst, remnaClient, probe.NewTCPProber(), gateway.TailscaleConfig{
		Host:    config.Tailscale.Host,
		AuthKey: config.Tailscale.AuthKey,
		Port:    probe.DefaultPort,
	})

	services := &internalhttp.Services{
		Gateway: svc,
		Roster:  rst,
		Config:  config.Http,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "PATCH", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
