package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-api/internal/config"
	"catalog-api/internal/handler"
	"catalog-api/internal/middleware"
	"catalog-api/internal/model"
	"catalog-api/internal/storage"
	"catalog-api/internal/token"
)

type stubPinger struct{ err error }

func (p stubPinger) Health(context.Context) error { return p.err }

type stubUsers map[string]model.User

func (s stubUsers) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

type fixture struct {
	handler http.Handler
	tokens  *token.Service
	store   *storage.Storage
}

func newFixture(t *testing.T, dbErr error) fixture {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	tokens := token.NewService("router-secret", time.Hour)
	users := stubUsers{"u1": {ID: "u1", Name: "Alice", Email: "a@b.com", Role: model.RoleUser}}

	cfg := &config.Config{
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   time.Second,
	}

	reg := prometheus.NewRegistry()
	h := New(cfg, middleware.NewAuthMiddleware(tokens, users), Handlers{
		Health:    handler.NewHealthHandler(stubPinger{err: dbErr}),
		Image:     handler.NewImageHandler(store),
		WebSocket: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusSwitchingProtocols)
		}),
	}, Observability{
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	return fixture{handler: h, tokens: tokens, store: store}
}

func (f fixture) do(t *testing.T, method string, target string, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	rec := newFixture(t, nil).do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok","database":"up"}}`, rec.Body.String())

	rec = newFixture(t, errors.New("dial tcp: refused")).do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database unavailable", envelope(t, rec).Message)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	rec := newFixture(t, nil).do(t, http.MethodGet, "/api/v1/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := envelope(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Not found", body.Message)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := newFixture(t, nil).do(t, http.MethodPatch, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", envelope(t, rec).Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t, nil)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/categories"},
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/orders/me"},
		{http.MethodGet, "/api/v1/expenses"},
		{http.MethodPost, "/api/v1/favorites"},
		{http.MethodGet, "/api/v1/conversations"},
		{http.MethodPut, "/api/v1/products/5f0c7a52-3c2b-4f0e-9c7e-2d6f1c1d9a10/upload-image"},
		{http.MethodPost, "/api/v1/products/5f0c7a52-3c2b-4f0e-9c7e-2d6f1c1d9a10/reviews"},
		{http.MethodGet, "/ws"},
	} {
		rec := f.do(t, tc.method, tc.target, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.target)
	}
}

func TestAdminRoutesRejectPlainUsers(t *testing.T) {
	f := newFixture(t, nil)
	bearer, _, err := f.tokens.Issue("u1")
	require.NoError(t, err)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/brands"},
		{http.MethodGet, "/api/v1/companies"},
		{http.MethodGet, "/api/v1/products"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodDelete, "/api/v1/movies/5f0c7a52-3c2b-4f0e-9c7e-2d6f1c1d9a10"},
		{http.MethodPost, "/api/v1/banners"},
	} {
		rec := f.do(t, tc.method, tc.target, bearer)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.target)
	}
}

func TestServesStoredImages(t *testing.T) {
	f := newFixture(t, nil)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.store.Write("images/products/p.png", buf.Bytes()))

	rec := f.do(t, http.MethodGet, "/images/products/p.png", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, buf.Bytes(), rec.Body.Bytes())

	rec = f.do(t, http.MethodGet, "/images/products/missing.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodGet, "/health", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `catalog_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
