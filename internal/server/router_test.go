package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/testutil"

	"github.com/google/uuid"
)

func testConfig() config.ServiceConfig {
	return config.ServiceConfig{
		Addr:              ":0",
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := NewRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterCalculateSetsHeaderAndReturnsResult(t *testing.T) {
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	router := NewRouter(testConfig())
	w := testutil.PostJSON(router, "/calculate", `{"operation":"add","number1":2,"number2":3}`)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(float64); !ok || got != 5 {
		t.Fatalf("expected result 5, got %#v", payload["result"])
	}
}

func TestNewRouterCalculateErrorsAreClientErrors(t *testing.T) {
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	router := NewRouter(testConfig())

	w := testutil.PostJSON(router, "/calculate", `{"operation":"divide","number1":5,"number2":0}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	testutil.CheckDetail(t, w.Body, "Division by zero is not allowed.")

	w = testutil.PostJSON(router, "/calculate", `{"operation":"sqrt","number1":5,"number2":0}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	testutil.CheckDetail(t, w.Body, "Invalid operation.")
}

func TestNewRouterCORSPreflight(t *testing.T) {
	router := NewRouter(testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/calculate", nil)
	req.Header.Set("Origin", "http://localhost:7860")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := testutil.ExecuteRequest(req, router)

	if got := w.Result().Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected Access-Control-Allow-Origin *, got %q", got)
	}
}

func TestNewRouterRateLimit(t *testing.T) {
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	cfg := testConfig()
	cfg.RateLimitDisabled = false
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute

	router := NewRouter(cfg)
	body := `{"operation":"add","number1":1,"number2":1}`

	for i := 0; i < 2; i++ {
		w := testutil.PostJSON(router, "/calculate", body)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	}

	w := testutil.PostJSON(router, "/calculate", body)
	testutil.CheckResponseCode(t, http.StatusTooManyRequests, w.Code)
	testutil.CheckDetail(t, w.Body, "Too many requests.")

	// Probes are outside the limited group.
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/health", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}
