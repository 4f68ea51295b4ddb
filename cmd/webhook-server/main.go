// cmd/webhook-server/main.go
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hemal8976/personal-webhook/internal/clickup"
	"github.com/hemal8976/personal-webhook/internal/common/config"
	"github.com/hemal8976/personal-webhook/internal/common/logger"
	"github.com/hemal8976/personal-webhook/internal/common/observability"
	"github.com/hemal8976/personal-webhook/internal/gemini"
	"github.com/hemal8976/personal-webhook/internal/orchestrator"
	"github.com/hemal8976/personal-webhook/internal/routing"
	"github.com/hemal8976/personal-webhook/internal/server"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.ClickUp.Token == "" {
		log.Warn("No shared ClickUp token configured; routes must carry their own", nil)
	}
	if cfg.Extraction.APIKey == "" {
		log.Warn("No Gemini API key configured; action-item extraction is disabled", nil)
	}

	routes := routing.ParseRoutes(cfg.Routing.RoutesJSON, log)
	log.Info("Destination routes loaded", map[string]interface{}{
		"routes":      len(routes),
		"defaultList": cfg.ClickUp.DefaultRouteList != "",
	})

	resolver := routing.NewResolver(routes, cfg.ClickUp.DefaultRouteList, log)
	chain := routing.NewChain(cfg)

	clickupClient := clickup.NewClient(cfg.ClickUp.BaseURL, time.Duration(cfg.ClickUp.Timeout)*time.Second)
	extractor := gemini.NewClient(cfg.Extraction, log)

	orch := orchestrator.New(orchestrator.Options{
		Config:    cfg,
		Resolver:  resolver,
		Chain:     chain,
		Comments:  clickupClient,
		Tasks:     clickupClient,
		Extractor: extractor,
		Logger:    log,
	})

	routeNames := make([]string, 0, len(routes))
	for _, route := range routes {
		routeNames = append(routeNames, route.Name)
	}

	handler := server.NewWebhookHandler(orch, server.Info{
		Service:      cfg.App.Name,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		Routes:       routeNames,
		Extraction:   extractor.Configured(),
		TaskCreation: chain.TaskCreationEnabled(nil),
	}, obs, log)

	router := server.NewRouter(handler, log)

	// Bind the listener, walking up from the configured port when it is
	// already taken.
	port := cfg.Server.Port
	var listener net.Listener
	for attempt := 0; attempt <= cfg.Server.PortRetries; attempt++ {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener = l
			break
		}
		log.Warn("Port unavailable, trying next", map[string]interface{}{
			"port":  port,
			"error": err.Error(),
		})
		port++
	}
	if listener == nil {
		zapLog.Fatal("no available port", zap.Int("startPort", cfg.Server.Port), zap.Int("retries", cfg.Server.PortRetries))
	}

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("Webhook server started", map[string]interface{}{
		"port":        port,
		"environment": cfg.App.Environment,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...", nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed", nil)
	}
	log.Info("Server stopped", nil)
}
