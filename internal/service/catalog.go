package service

import (
	"context"
	"fmt"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/validation"
)

// CatalogInput names a new tag or ingredient.
type CatalogInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CatalogUpdate renames an item. A nil Name leaves it unchanged.
type CatalogUpdate struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=255"`
}

// CatalogService manages one per-user catalog of names.
type CatalogService struct {
	kind     domain.CatalogKind
	items    domain.CatalogRepository
	validate *validation.Validator
}

// NewCatalogService creates a CatalogService for the given kind.
func NewCatalogService(kind domain.CatalogKind, items domain.CatalogRepository) *CatalogService {
	return &CatalogService{
		kind:     kind,
		items:    items,
		validate: validation.New(),
	}
}

func (s *CatalogService) Kind() domain.CatalogKind {
	return s.kind
}

// List returns the user's items ordered by name descending.
func (s *CatalogService) List(ctx context.Context, userID int64) ([]domain.CatalogItem, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", s.kind, err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, userID, id int64) (*domain.CatalogItem, error) {
	item, err := s.items.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	return item, nil
}

// GetOrCreate returns the user's item called name, creating it if it
// does not exist yet. Names match exactly, whitespace and case included.
// The bool reports whether it was created.
func (s *CatalogService) GetOrCreate(ctx context.Context, userID int64, in CatalogInput) (*domain.CatalogItem, bool, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, false, err
	}

	item, created, err := s.items.GetOrCreate(ctx, userID, in.Name)
	if err != nil {
		return nil, false, fmt.Errorf("get or create %s: %w", s.kind, err)
	}
	return item, created, nil
}

// Update renames an item the user owns. Items of other users are
// reported as domain.ErrNotFound.
func (s *CatalogService) Update(ctx context.Context, userID, id int64, in CatalogUpdate) (*domain.CatalogItem, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	if in.Name == nil || *in.Name == item.Name {
		return item, nil
	}

	item.Name = *in.Name
	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}
	return item, nil
}

func (s *CatalogService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.items.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	return nil
}
