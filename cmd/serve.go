package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/car-logbook/internal/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the logbook API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.controller.Restore(ctx); err != nil {
		logger.WithError(err).Warn("Failed to restore the previous session")
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Address,
		Handler: handlers.NewRouter(handlers.RouterOptions{
			Controller: a.controller,
			Auth:       a.auth,
			Metrics:    a.metrics,
			Logger:     logger,
			RateLimit:  cfg.HTTP.RateLimit,
			RateBurst:  cfg.HTTP.RateBurst,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"addr":     cfg.HTTP.Address,
			"storage":  cfg.Storage.Backend,
			"sessions": cfg.Session.Backend,
		}).Info("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
