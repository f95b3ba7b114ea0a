package main

import (
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the keypad in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The keypad owns the terminal; log lines would tear the screen.
		observability.Logger = zap.NewNop()

		return tui.New(newClient(cfg)).Run(cmd.Context())
	},
}
