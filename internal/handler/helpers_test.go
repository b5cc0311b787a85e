package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/handler"
	"github.com/msomdec/recipe-box/internal/repository/sqlite"
	"github.com/msomdec/recipe-box/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	db      *sqlite.DB
	auth    *service.AuthService
	router  http.Handler
	limiter *service.RateLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLimiter(t, service.NewRateLimiter(1000, 1000, time.Minute))
}

func newTestEnvWithLimiter(t *testing.T, limiter *service.RateLimiter) *testEnv {
	t.Helper()
	return newTestEnvWithDeps(t, func(d *handler.Dependencies) { d.Limiter = limiter })
}

// newTestEnvWithDeps builds a test environment and lets configure adjust
// the router dependencies before the router is built.
func newTestEnvWithDeps(t *testing.T, configure func(d *handler.Dependencies)) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db.Users(), testJWTSecret, 4, time.Hour)
	deps := handler.Dependencies{
		Auth:        auth,
		Recipes:     service.NewRecipeService(db.Recipes(), db.Tags(), db.TxManager()),
		Tags:        service.NewCatalogService(domain.CatalogTag, db.Tags()),
		Ingredients: service.NewCatalogService(domain.CatalogIngredient, db.Ingredients()),
		Limiter:     service.NewRateLimiter(1000, 1000, time.Minute),
		DB:          db,
	}
	if configure != nil {
		configure(&deps)
	}

	return &testEnv{db: db, auth: auth, router: handler.NewRouter(deps), limiter: deps.Limiter}
}

// login registers email and returns a bearer token for it.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.auth.Register(ctx, service.RegisterInput{Email: email, Password: "testpass123", Name: "Test"})
	require.NoError(t, err)
	token, err := e.auth.Login(ctx, email, "testpass123")
	require.NoError(t, err)
	return token
}

func (e *testEnv) userID(t *testing.T, token string) int64 {
	t.Helper()
	id, err := e.auth.ValidateToken(token)
	require.NoError(t, err)
	return id
}

// do sends a request through the router. body is JSON-encoded unless
// it is already a string.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
