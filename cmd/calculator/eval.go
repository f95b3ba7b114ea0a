package main

import (
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION",
	Short: "Evaluate one expression such as 12+8 or 3×4 through the service",
	Long: `Evaluate one expression through the configured service.

The ASCII operators * and / are accepted as × and ÷.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := normalize(strings.Join(args, ""))
		if expr == "" {
			return errNoExpression
		}

		result, err := newClient(cfg).EvaluateExpression(cmd.Context(), expr)
		if err != nil {
			return err
		}

		pterm.Success.Println(result)
		return nil
	},
}

var errNoExpression = errors.New(`an expression is required, e.g. calculator eval "12+8"`)

var asciiOperators = strings.NewReplacer("*", "×", "/", "÷")

func normalize(expr string) string {
	return asciiOperators.Replace(strings.TrimSpace(expr))
}
