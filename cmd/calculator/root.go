package main

import (
	"go-chi-calculator/internal/client"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "calculator",
	Short:         "Arithmetic service with web and terminal keypads",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(); err != nil {
			return err
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		return observability.InitLogger(cfg.Telemetry.Development)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.SyncLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $"+config.ConfigPathEnvVar+")")
	rootCmd.AddCommand(serveCmd, webCmd, runCmd, tuiCmd, evalCmd)
}

// newClient builds the service client the keypads share.
func newClient(c *config.Config) *client.Client {
	return client.New(c.Web.ServiceURL,
		client.WithTimeout(c.Web.RequestTimeout),
		client.WithBreaker(client.BreakerSettings{
			ConsecutiveFailures: c.Breaker.ConsecutiveFailures,
			OpenTimeout:         c.Breaker.OpenTimeout,
			Interval:            c.Breaker.Interval,
		}),
	)
}
