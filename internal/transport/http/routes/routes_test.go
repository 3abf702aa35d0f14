package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/infra/config"
	"github.com/isha-gohel181/rewear/internal/infra/security"
	httproutes "github.com/isha-gohel181/rewear/internal/transport/http/routes"
)

func testDependencies(t *testing.T) httproutes.Dependencies {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	tokenVerifier, err := security.NewTokenVerifier(config.AuthSettings{TokenSecret: "test-secret"})
	if err != nil {
		t.Fatalf("new token verifier: %v", err)
	}

	webhookVerifier, err := security.NewWebhookVerifier(config.AuthSettings{WebhookSecret: "hook-secret"})
	if err != nil {
		t.Fatalf("new webhook verifier: %v", err)
	}

	return httproutes.Dependencies{
		Config:          cfg,
		Logger:          logger,
		TokenVerifier:   tokenVerifier,
		WebhookVerifier: webhookVerifier,
	}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := httproutes.Register(testDependencies(t))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessEndpointWithoutChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := httproutes.Register(testDependencies(t))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := httproutes.Register(testDependencies(t))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := httproutes.Register(testDependencies(t))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/webhooks/identity",
		strings.NewReader(`{"type":"user.created","data":{"id":"ext-1"}}`))
	req.Header.Set("X-Webhook-Signature", "deadbeef")

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
