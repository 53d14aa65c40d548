package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/long-weekend-finder/internal/api"
	"github.com/username/long-weekend-finder/internal/daemon"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var forecaster api.Forecaster
			if a.weather.Configured() {
				forecaster = a.weather
			} else {
				logger.Info("Weather API key not set, /api/weather is disabled")
			}

			handler := api.NewHandler(a.finder, a.source, forecaster, logger)
			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(handler, cfg.Server.AllowedOrigins, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", zap.String("addr", addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("HTTP server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down HTTP server: %w", err)
			}
			logger.Info("HTTP server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}

func daemonCmd() *cobra.Command {
	var runOnce bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Refresh the holiday cache daily for the configured countries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.api == nil {
				return fmt.Errorf("daemon needs holidays.api_url: only API answers are cached")
			}

			location, err := cfg.Daemon.GetLocation()
			if err != nil {
				return err
			}
			hour, minute := cfg.Daemon.GetDailyTime()

			d := daemon.NewDaemon(cmd.Context(), a.api, daemon.Options{
				Countries:   cfg.Daemon.Countries,
				Years:       cfg.Daemon.Years,
				DailyHour:   hour,
				DailyMinute: minute,
				Location:    location,
				SystemTray:  cfg.Daemon.SystemTray,
			}, logger)
			defer d.Stop()

			if runOnce {
				return d.RunOnce(cmd.Context())
			}
			return d.Start()
		},
	}

	cmd.Flags().BoolVar(&runOnce, "once", false, "Refresh once and exit")

	return cmd
}
