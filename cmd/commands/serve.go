package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/internal/server"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(load func() (*config.Config, error)) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Run the HTTP API server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrateFirst)
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrateFirst bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.SetVersion(version.GetVersionInfo().Version)

	d, cleanup, err := openData(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if migrateFirst || cfg.Data.Database.Migrate {
		if err := d.MigrateUp(ctx); err != nil {
			return err
		}
	}

	srv, err := server.New(cfg, d, nil)
	if err != nil {
		return err
	}

	config.Watch(func(c *config.Config) {
		if c.Logger != nil {
			logger.StdLogger().SetLevel(logrus.Level(c.Logger.Level))
		}
		logger.Infof(ctx, "configuration reloaded; changes other than the log level apply on restart")
	}, func(err error) {
		logger.Errorf(ctx, "reload configuration: %v", err)
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "%s listening on %s", cfg.AppName, httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Infof(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
