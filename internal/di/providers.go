package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-box/internal/config"
	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/handler"
	"github.com/msomdec/recipe-box/internal/repository/sqlite"
	"github.com/msomdec/recipe-box/internal/service"
)

const rateLimiterSweepInterval = time.Minute

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return NewLogger(cfg.Log), nil
}

// DatabaseHandle wraps the database with shutdown capability.
type DatabaseHandle struct {
	*sqlite.DB
}

// Shutdown implements do.Shutdownable.
func (h *DatabaseHandle) Shutdown() error {
	return h.Close()
}

// ProvideDatabase waits for the database, then applies migrations.
func ProvideDatabase(i do.Injector) (*DatabaseHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	db, err := OpenDatabase(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info("database initialized", "path", cfg.Database.Path)
	return &DatabaseHandle{DB: db}, nil
}

// OpenDatabase waits for the configured database and migrates it.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlite.DB, error) {
	if cfg.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.WaitTimeout)
		defer cancel()
	}

	db, err := sqlite.Open(ctx, cfg.Path, cfg.RetryInterval)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// ProvideAuthService provides the account and token service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)

	return service.NewAuthService(db.Users(), cfg.Auth.JWTSecret, cfg.Auth.BcryptCost, cfg.Auth.TokenTTL), nil
}

// RateLimiterHandle owns the background sweep of the limiter.
type RateLimiterHandle struct {
	*service.RateLimiter
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideRateLimiter provides the login and registration rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := service.NewRateLimiter(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst, 10*time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go limiter.Run(ctx, rateLimiterSweepInterval)

	return &RateLimiterHandle{RateLimiter: limiter, cancel: cancel}, nil
}

// ProvideRecipeService provides the recipe service.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	return service.NewRecipeService(db.Recipes(), db.Tags(), db.TxManager()), nil
}

// ProvideTagService provides the tag catalog.
func ProvideTagService(i do.Injector) (*service.CatalogService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	return service.NewCatalogService(domain.CatalogTag, db.Tags()), nil
}

// ProvideIngredientService provides the ingredient catalog.
func ProvideIngredientService(i do.Injector) (*service.CatalogService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	return service.NewCatalogService(domain.CatalogIngredient, db.Ingredients()), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	timeout time.Duration
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server with every route mounted.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	db := do.MustInvoke[*DatabaseHandle](i)

	router := handler.NewRouter(handler.Dependencies{
		Auth:           do.MustInvoke[*service.AuthService](i),
		Recipes:        do.MustInvoke[*service.RecipeService](i),
		Tags:           do.MustInvokeNamed[*service.CatalogService](i, TagServiceName),
		Ingredients:    do.MustInvokeNamed[*service.CatalogService](i, IngredientServiceName),
		Limiter:        do.MustInvoke[*RateLimiterHandle](i).RateLimiter,
		DB:             db,
		Logger:         log,
		AllowedOrigins: cfg.CORS.Origins(),
		CORSMaxAge:     cfg.CORS.MaxAge,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	return &HTTPServerHandle{Server: srv, timeout: cfg.Server.ShutdownTimeout}, nil
}
