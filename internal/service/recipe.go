package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/validation"
)

// Prices are stored with two decimal places and at most five digits.
var maxPrice = decimal.NewFromInt(1000)

// TagInput references a tag by name inside a recipe payload.
type TagInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// RecipeInput is the payload for creating a recipe. The owner always
// comes from the caller's identity.
type RecipeInput struct {
	Title       string           `json:"title" validate:"required,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"required,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Link        string           `json:"link" validate:"max=255"`
	Description string           `json:"description"`
	Tags        []TagInput       `json:"tags"`
}

// RecipePatch changes selected fields of a recipe. Nil fields are left
// unchanged. A non-nil Tags replaces the tag set; an empty slice clears it.
type RecipePatch struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitnil,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link" validate:"omitnil,max=255"`
	Description *string          `json:"description"`
	Tags        *[]TagInput      `json:"tags"`
}

// RecipeService handles recipes and their tag links.
type RecipeService struct {
	recipes  domain.RecipeRepository
	tags     domain.CatalogRepository
	tx       domain.TxManager
	validate *validation.Validator
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes domain.RecipeRepository, tags domain.CatalogRepository, tx domain.TxManager) *RecipeService {
	return &RecipeService{
		recipes:  recipes,
		tags:     tags,
		tx:       tx,
		validate: validation.New(),
	}
}

// List returns the user's recipes, newest first, with their tags.
func (s *RecipeService) List(ctx context.Context, userID int64) ([]domain.Recipe, error) {
	recipes, err := s.recipes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) Get(ctx context.Context, userID, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// Create stores a recipe owned by userID. Named tags are reused or
// created for the same user. The recipe and its tags are written in one
// transaction.
func (s *RecipeService) Create(ctx context.Context, userID int64, in RecipeInput) (*domain.Recipe, error) {
	in.Title = strings.TrimSpace(in.Title)
	verr := &domain.ValidationError{}
	mergeValidation(verr, s.validate.Validate(in))
	if in.Price != nil {
		checkPrice(verr, *in.Price)
	}
	names := s.tagNames(verr, in.Tags)
	if verr.HasErrors() {
		return nil, verr
	}

	recipe := &domain.Recipe{
		UserID:      userID,
		Title:       in.Title,
		TimeMinutes: *in.TimeMinutes,
		Price:       *in.Price,
		Link:        in.Link,
		Description: in.Description,
	}

	var created *domain.Recipe
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.recipes.Create(ctx, recipe); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := s.setTags(ctx, userID, recipe.ID, names); err != nil {
			return err
		}
		var err error
		created, err = s.recipes.GetByID(ctx, userID, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Replace overwrites a recipe. Title, time and price must be present.
func (s *RecipeService) Replace(ctx context.Context, userID, id int64, patch RecipePatch) (*domain.Recipe, error) {
	verr := &domain.ValidationError{}
	if patch.Title == nil {
		verr.Add("title", "is required")
	}
	if patch.TimeMinutes == nil {
		verr.Add("time_minutes", "is required")
	}
	if patch.Price == nil {
		verr.Add("price", "is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}
	return s.Update(ctx, userID, id, patch)
}

// Update applies patch to a recipe the user owns. Recipes of other users
// are reported as domain.ErrNotFound.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, patch RecipePatch) (*domain.Recipe, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	verr := &domain.ValidationError{}
	mergeValidation(verr, s.validate.Validate(patch))
	if patch.Price != nil {
		checkPrice(verr, *patch.Price)
	}
	var names []string
	if patch.Tags != nil {
		names = s.tagNames(verr, *patch.Tags)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	var updated *domain.Recipe
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		recipe, err := s.recipes.GetByID(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}

		patch.apply(recipe)
		if err := s.recipes.Update(ctx, recipe); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if patch.Tags != nil {
			if err := s.setTags(ctx, userID, recipe.ID, names); err != nil {
				return err
			}
		}

		updated, err = s.recipes.GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a recipe the user owns. Its tags are kept.
func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.recipes.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

func (s *RecipeService) setTags(ctx context.Context, userID, recipeID int64, names []string) error {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		tag, _, err := s.tags.GetOrCreate(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("get or create tag %q: %w", name, err)
		}
		ids = append(ids, tag.ID)
	}
	if err := s.recipes.SetTags(ctx, recipeID, ids); err != nil {
		return fmt.Errorf("set recipe tags: %w", err)
	}
	return nil
}

// tagNames validates each tag entry and returns the names as given.
func (s *RecipeService) tagNames(verr *domain.ValidationError, tags []TagInput) []string {
	names := make([]string, 0, len(tags))
	for i, tag := range tags {
		if err := s.validate.Validate(tag); err != nil {
			if tagErr, ok := err.(*domain.ValidationError); ok {
				for field, msg := range tagErr.Fields {
					verr.Add("tags["+strconv.Itoa(i)+"]."+field, msg)
				}
				continue
			}
			verr.Add("tags", err.Error())
			continue
		}
		names = append(names, tag.Name)
	}
	return names
}

func (p RecipePatch) apply(r *domain.Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.TimeMinutes != nil {
		r.TimeMinutes = *p.TimeMinutes
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.Link != nil {
		r.Link = *p.Link
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
}

func checkPrice(verr *domain.ValidationError, price decimal.Decimal) {
	switch {
	case price.IsNegative():
		verr.Add("price", "must not be negative")
	case !price.Equal(price.Round(2)):
		verr.Add("price", "must have at most 2 decimal places")
	case price.GreaterThanOrEqual(maxPrice):
		verr.Add("price", "must be less than 1000")
	}
}

func mergeValidation(verr *domain.ValidationError, err error) {
	if err == nil {
		return
	}
	if other, ok := err.(*domain.ValidationError); ok {
		for field, msg := range other.Fields {
			verr.Add(field, msg)
		}
		return
	}
	verr.Add("_", err.Error())
}
