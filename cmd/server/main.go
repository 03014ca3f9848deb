package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/adapters/audit"
	"github.com/appforge/collabhub/internal/adapters/auth"
	"github.com/appforge/collabhub/internal/adapters/httpapi"
	"github.com/appforge/collabhub/internal/app"
	"github.com/appforge/collabhub/internal/config"
	"github.com/appforge/collabhub/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var sink core.AuditSink = audit.LogSink{}
	if cfg.AuditEndpoint != "" {
		sink = audit.NewHTTPSink(cfg.AuditEndpoint)
	}
	auditor := app.NewAsyncAuditor(sink, cfg.AuditBuffer)
	go auditor.Run(ctx)

	hub := app.NewHub(auditor)
	verifier := auth.NewVerifier([]byte(cfg.Secret))

	r := httpapi.SetupRouter(ctx, cfg, hub, verifier)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("collab hub started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
