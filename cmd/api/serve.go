package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/01moynul/storefront-golang/internal/account"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/catalog"
	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/outbox"
	"github.com/01moynul/storefront-golang/internal/routes"
)

func serveCmd() *cobra.Command {
	var noRelay bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (and the outbox relay unless --no-relay)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, !noRelay)
		},
	}
	cmd.Flags().BoolVar(&noRelay, "no-relay", false, "do not run the outbox relay in this process")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config, withRelay bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependencies ---
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	catalogCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	shopMetrics := metrics.New()
	app := handlers.New(
		commerce.NewService(st, newGateway(cfg), shopMetrics),
		catalog.NewService(st, catalogCache),
		account.NewService(st),
	)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// --- Background Workers ---
	if withRelay {
		publisher, closePublisher := newPublisher(cfg)
		defer closePublisher()
		go outbox.NewRelay(st, publisher, cfg.OutboxInterval).Run(ctx)
	}

	// --- Router Setup ---
	gin.SetMode(cfg.GinMode)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(app, tokens, shopMetrics, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	errCh := make(chan error, 1)
	go func() {
		logging.Info("server", "listening on "+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("server", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
