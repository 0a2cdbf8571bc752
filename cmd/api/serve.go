package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	transporthttp "github.com/notifperf-api/internal/transport/http"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
		return runServer(cmd.Context(), skipMigrate)
	},
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "do not create tables on startup")
}

func runServer(parent context.Context, skipMigrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	if !skipMigrate {
		if err := be.migrate(ctx); err != nil {
			return err
		}
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	deps := &transporthttp.Deps{
		NotificationRepo: be.notifications,
		PerformanceRepo:  be.performances,
		Store:            be.store,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}
	provider, err := newJWTProvider(cfg)
	if err != nil {
		return err
	}
	if provider != nil {
		deps.JWTVerifier = provider
		logrus.Info("bearer authentication enabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "env": cfg.AppEnv, "store": cfg.StoreDriver}).
			Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logrus.Info("server stopped")
	return nil
}
