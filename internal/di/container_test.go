package di_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/recipe-box/internal/config"
	"github.com/msomdec/recipe-box/internal/di"
	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "di.db"), RetryInterval: 10 * time.Millisecond},
		Auth: config.AuthConfig{
			JWTSecret:      "di-test-secret-0123456789-0123456789",
			TokenTTL:       time.Hour,
			BcryptCost:     4,
			RateLimitRPS:   10,
			RateLimitBurst: 10,
		},
		CORS: config.CORSConfig{AllowedOrigins: "*"},
		Log:  config.LogConfig{Level: "error", Format: "json"},
	}
}

func TestContainer_WiresServer(t *testing.T) {
	injector := di.NewContainer(testConfig(t))
	t.Cleanup(func() { injector.Shutdown() })

	srv, err := do.Invoke[*di.HTTPServerHandle](injector)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipe/recipes", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContainer_NamedCatalogs(t *testing.T) {
	injector := di.NewContainer(testConfig(t))
	t.Cleanup(func() { injector.Shutdown() })

	tags := do.MustInvokeNamed[*service.CatalogService](injector, di.TagServiceName)
	ingredients := do.MustInvokeNamed[*service.CatalogService](injector, di.IngredientServiceName)

	assert.Equal(t, domain.CatalogTag, tags.Kind())
	assert.Equal(t, domain.CatalogIngredient, ingredients.Kind())
}
