package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "3×4", normalize(" 3*4 "))
	assert.Equal(t, "8÷2", normalize("8/2"))
	assert.Equal(t, "1+2", normalize("1+2"))
}

func TestEvalCommand(t *testing.T) {
	require.NoError(t, calculator.InitMetrics())
	r := chi.NewRouter()
	calculator.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("CALC_WEB_SERVICE_URL", srv.URL)

	rootCmd.SetArgs([]string{"eval", "12*8"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	rootCmd.SetArgs([]string{"eval", "5/0"})
	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, calculator.DetailDivisionByZero, err.Error())

	rootCmd.SetArgs([]string{"eval"})
	assert.ErrorIs(t, rootCmd.ExecuteContext(context.Background()), errNoExpression)
}

func TestInitTelemetryDisabled(t *testing.T) {
	shutdown, err := initTelemetry(context.Background(), config.TelemetryConfig{ServiceName: "calculator"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
