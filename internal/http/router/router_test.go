package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "nominatim_gateway/internal/http"
	"nominatim_gateway/platform/httpkit"
	"nominatim_gateway/platform/logger"
	"nominatim_gateway/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type testRouterConfig struct {
	secret     string
	origins    []string
	allowAll   bool
	allowCreds bool
	rps        float64
	burst      int
	metricsOn  bool
}

func (c testRouterConfig) GetHTTPAddr() string        { return ":0" }
func (c testRouterConfig) GetCORSAllowAll() bool      { return c.allowAll }
func (c testRouterConfig) GetCORSOrigins() []string   { return c.origins }
func (c testRouterConfig) GetCORSAllowCreds() bool    { return c.allowCreds }
func (c testRouterConfig) GetRateLimitRPS() float64   { return c.rps }
func (c testRouterConfig) GetRateLimitBurst() int     { return c.burst }
func (c testRouterConfig) IsMetricsEnabled() bool     { return c.metricsOn }
func (c testRouterConfig) GetJWTAccessSecret() string { return c.secret }
func (c testRouterConfig) IsAuthEnabled() bool        { return c.secret != "" }

type stubHealth struct {
	err error
}

func (s stubHealth) Ping(context.Context) error { return s.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(httpkit.ContextUserIDKey)})
	})
}

func newTestRouter(cfg testRouterConfig, health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  cfg,
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{pingModule{}},
	})
}

func do(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHealth(t *testing.T) {
	engine := newTestRouter(testRouterConfig{}, nil)

	rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(httpkit.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers")
	}
}

func TestReady(t *testing.T) {
	engine := newTestRouter(testRouterConfig{}, stubHealth{})
	if rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/ready", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	engine = newTestRouter(testRouterConfig{}, stubHealth{err: errors.New("status 503")})
	if rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/ready", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRoutesArePublicWithoutSecret(t *testing.T) {
	engine := newTestRouter(testRouterConfig{}, nil)

	rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	const secret = "test-secret"
	engine := newTestRouter(testRouterConfig{secret: secret}, nil)

	rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	refresh := signToken(t, secret, jwt.MapClaims{"sub": "user-1", "type": "refresh", "exp": time.Now().Add(time.Minute).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	if rec := do(engine, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", rec.Code)
	}

	forged := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1", "type": "access"})
	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	if rec := do(engine, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong signature, got %d", rec.Code)
	}

	access := signToken(t, secret, jwt.MapClaims{"sub": "user-1", "type": "access", "exp": time.Now().Add(time.Minute).Unix()})
	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = do(engine, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"user":"user-1"`) {
		t.Fatalf("expected subject in context, got %s", rec.Body.String())
	}
}

func TestHealthBypassesAuth(t *testing.T) {
	engine := newTestRouter(testRouterConfig{secret: "s"}, nil)

	if rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	engine := newTestRouter(testRouterConfig{origins: []string{"https://app.example.com"}, allowCreds: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := do(engine, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = do(engine, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %d", rec.Code)
	}
}

func TestCORSConfig(t *testing.T) {
	if _, ok := corsConfig(testRouterConfig{}); ok {
		t.Fatalf("expected cors to be disabled without origins")
	}

	cfg, ok := corsConfig(testRouterConfig{allowAll: true, allowCreds: true})
	if !ok || !cfg.AllowAllOrigins || cfg.AllowCredentials {
		t.Fatalf("expected allow-all without credentials, got %+v", cfg)
	}
}

func TestRateLimit(t *testing.T) {
	engine := newTestRouter(testRouterConfig{rps: 0.001, burst: 1}, nil)

	if rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	upstream := metrics.NewUpstream("nominatim")
	upstream.ObserveRequest("search", http.StatusOK, 20*time.Millisecond)

	engine := New(&apphttp.App{
		Config:  testRouterConfig{metricsOn: true},
		Logger:  logger.Discard(),
		Metrics: upstream.Handler(),
	})

	rec := do(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `upstream_requests_total{code="200",endpoint="search",upstream="nominatim"} 1`) {
		t.Fatalf("expected counter in output, got %s", rec.Body.String())
	}
}
