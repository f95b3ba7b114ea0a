package main

import (
	"context"
	"net/http"
	"time"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/supervisor"
	"go-chi-calculator/internal/web"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the arithmetic service (POST /calculate)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServices(cmd.Context(), apiService(cfg))
	},
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the web keypad against the configured service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServices(cmd.Context(), webService(cfg))
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the service and the web keypad in one process",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServices(cmd.Context(), apiService(cfg), webService(cfg))
	},
}

func apiService(c *config.Config) suture.Service {
	srv := &http.Server{
		Addr:              c.Service.Addr,
		Handler:           server.NewRouter(c.Service),
		ReadHeaderTimeout: 10 * time.Second,
	}
	pterm.Info.Printfln("starting calculator service on %s", c.Service.Addr)
	return supervisor.NewHTTPServerService("calculator-api", srv, c.Service.ShutdownTimeout)
}

func webService(c *config.Config) suture.Service {
	srv := &http.Server{
		Addr:              c.Web.Addr,
		Handler:           web.NewRouter(newClient(c), c.Web.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}
	pterm.Info.Printfln("starting web keypad on %s (service %s)", c.Web.Addr, c.Web.ServiceURL)
	return supervisor.NewHTTPServerService("calculator-web", srv, c.Web.ShutdownTimeout)
}

func runServices(ctx context.Context, services ...suture.Service) error {
	shutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	err = supervisor.Run(ctx, observability.Logger, services...)
	observability.Logger.Info("shutdown complete")
	return err
}
