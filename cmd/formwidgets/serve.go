package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwidgets"
)

func newServeCommand() *cobra.Command {
	var (
		addr  string
		grace time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a form page with every configured widget and its endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(getOptions(cmd))
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			app, err := formwidgets.NewApp(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           app.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errChan := make(chan error, 1)
			go func() {
				logger.WithField("addr", cfg.Server.Addr).Info("formwidgets listening")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
				close(errChan)
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err, ok := <-errChan:
				if ok {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "Graceful shutdown timeout")
	return cmd
}
