//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"catalog-api/internal/app"
	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/storage"
)

type testServer struct {
	*httptest.Server
	db *database.DB
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		LogLevel:            "error",
		ServerPort:          "0",
		RequestTimeout:      10 * time.Second,
		JWTSecret:           "integration-secret",
		JWTTTL:              time.Hour,
		ResetTokenTTL:       10 * time.Minute,
		BcryptCost:          4,
		CORSOrigins:         []string{"*"},
		RateLimitRPM:        10000,
		AuthRateLimitRPM:    10000,
		MaxUploadSize:       5 << 20,
		AllowedImageTypes:   []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		ImageMaxWidth:       1200,
		ImageMaxHeight:      1200,
		ImageQuality:        85,
		MaintenanceSchedule: "@every 1h",
	}
}

// newServer needs TEST_DATABASE_URL; every table is truncated first.
func newServer(t *testing.T, tweak ...func(*config.Config)) *testServer {
	t.Helper()

	databaseURL := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE users, categories, brands, companies, products, reviews, carts, cart_items,
		orders, banners, movies, favorite_movies, conversations, messages, expenses CASCADE`)
	require.NoError(t, err)

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.UploadRoot = store.RootAbs()
	for _, fn := range tweak {
		fn(cfg)
	}

	deps, err := app.Wire(cfg, db, store)
	require.NoError(t, err)
	t.Cleanup(deps.Stop)

	server := httptest.NewServer(deps.Handler)
	t.Cleanup(server.Close)

	return &testServer{Server: server, db: db}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method string, path string, body any, bearer string) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// register signs up a user and returns the session token and user id.
func (s *testServer) register(t *testing.T, name string, email string) (string, string) {
	t.Helper()

	resp, env := s.do(t, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"name": name, "email": email, "password": "secret"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	session := decodeData[struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, env)
	return env.Token, session.User.ID
}

func (s *testServer) registerAdmin(t *testing.T, name string, email string) (string, string) {
	t.Helper()

	token, id := s.register(t, name, email)
	_, err := s.db.Pool.Exec(context.Background(), `UPDATE users SET role = 'admin' WHERE id = $1`, id)
	require.NoError(t, err)
	return token, id
}
