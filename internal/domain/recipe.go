package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a user's recipe. Tags are loaded by the repository on read.
type Recipe struct {
	ID          int64
	UserID      int64
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
	Description string
	Tags        []CatalogItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeRepository defines persistence operations for recipes and their
// tag links.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *Recipe) error
	GetByID(ctx context.Context, userID, id int64) (*Recipe, error)
	// ListByUser returns the user's recipes, newest id first.
	ListByUser(ctx context.Context, userID int64) ([]Recipe, error)
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, userID, id int64) error
	// SetTags replaces the recipe's tag links with tagIDs.
	SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error
}
