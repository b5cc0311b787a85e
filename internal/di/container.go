// Package di wires the application's services together.
package di

import (
	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-box/internal/config"
)

// Names of the two catalog services, which share a Go type.
const (
	TagServiceName        = "service.tags"
	IngredientServiceName = "service.ingredients"
)

// NewContainer creates the DI container for cfg with all providers
// registered. Services are built lazily on first invocation.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideDatabase)

	// Business services
	do.Provide(injector, ProvideAuthService)
	do.Provide(injector, ProvideRateLimiter)
	do.Provide(injector, ProvideRecipeService)
	do.ProvideNamed(injector, TagServiceName, ProvideTagService)
	do.ProvideNamed(injector, IngredientServiceName, ProvideIngredientService)

	// Server
	do.Provide(injector, ProvideHTTPServer)

	return injector
}
