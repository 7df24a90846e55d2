package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenancy-recon/internal/comments"
	"tenancy-recon/internal/config"
	"tenancy-recon/internal/tenantmap"
	serverhttp "tenancy-recon/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	// The matcher is built once from the mapping table and shared read-only
	// across requests; rebuild by restarting when the dictionary changes.
	entries := tenantmap.Load(cfg.MappingPath(), logger)
	matcher := tenantmap.Build(entries)
	logger.Info().Int("entries", matcher.Size()).Msg("tenant matcher ready")

	store, err := comments.Open(cfg.CommentsDB)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CommentsDB).Msg("comments store")
	}
	defer store.Close()

	r := serverhttp.NewRouter(cfg, logger, matcher, store)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
