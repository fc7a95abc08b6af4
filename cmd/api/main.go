package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	apphttp "nominatim_gateway/internal/http"
	"nominatim_gateway/internal/http/router"
	"nominatim_gateway/internal/maps"
	"nominatim_gateway/internal/nominatim"
	"nominatim_gateway/platform/config"
	"nominatim_gateway/platform/logger"
	"nominatim_gateway/platform/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "nominatim", cfg.GetNominatimBaseURL())

	if !strings.EqualFold(cfg.Env, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var upstreamMetrics *metrics.Upstream
	clientOpts := []nominatim.Option{nominatim.WithLogger(log)}
	if cfg.IsMetricsEnabled() {
		upstreamMetrics = metrics.NewUpstream("nominatim")
		clientOpts = append(clientOpts, nominatim.WithObserver(upstreamMetrics))
	}

	client, err := nominatim.NewFromConfig(cfg, clientOpts...)
	if err != nil {
		log.Error("failed to initialize nominatim client", "error", err)
		panic("failed to initialize nominatim client: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	mapsModule := maps.NewModule(client, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  mapsModule.Service(),
		Modules: []apphttp.Module{mapsModule},
	}
	if upstreamMetrics != nil {
		app.Metrics = upstreamMetrics.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}
