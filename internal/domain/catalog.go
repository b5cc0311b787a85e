package domain

import (
	"context"
	"time"
)

// CatalogKind names one of the per-user name catalogs.
type CatalogKind string

const (
	CatalogTag        CatalogKind = "tag"
	CatalogIngredient CatalogKind = "ingredient"
)

// CatalogItem is a named label owned by a single user. Tags and
// ingredients share this shape.
type CatalogItem struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

// CatalogRepository defines persistence operations for one catalog.
// Every lookup is scoped to the owning user; rows of other users are
// reported as ErrNotFound.
type CatalogRepository interface {
	// ListByUser returns the user's items ordered by name descending.
	ListByUser(ctx context.Context, userID int64) ([]CatalogItem, error)
	GetByID(ctx context.Context, userID, id int64) (*CatalogItem, error)
	// GetOrCreate returns the item with exactly this name, creating it
	// when missing. The bool reports whether a row was inserted.
	GetOrCreate(ctx context.Context, userID int64, name string) (*CatalogItem, bool, error)
	Update(ctx context.Context, item *CatalogItem) error
	Delete(ctx context.Context, userID, id int64) error
}
