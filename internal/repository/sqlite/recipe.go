package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/msomdec/recipe-box/internal/domain"
)

var recipeColumns = []string{
	"id", "user_id", "title", "time_minutes", "price", "link", "description", "created_at", "updated_at",
}

// RecipeRepository implements domain.RecipeRepository using SQLite.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new SQLite-backed RecipeRepository.
func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db.SqlDB}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	now := time.Now().UTC()
	query, args, err := sq.Insert("recipes").
		Columns("user_id", "title", "time_minutes", "price", "link", "description", "created_at", "updated_at").
		Values(recipe.UserID, recipe.Title, recipe.TimeMinutes, recipe.Price.StringFixed(2),
			recipe.Link, recipe.Description, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert recipe: %w", err)
	}

	result, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	recipe.ID = id
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Recipe, error) {
	q := querierFromCtx(ctx, r.db)
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get recipe: %w", err)
	}

	recipe, err := scanRecipe(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	tags, err := loadTags(ctx, q, []int64{recipe.ID})
	if err != nil {
		return nil, err
	}
	recipe.Tags = tags[recipe.ID]
	if recipe.Tags == nil {
		recipe.Tags = []domain.CatalogItem{}
	}
	return recipe, nil
}

func (r *RecipeRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Recipe, error) {
	q := querierFromCtx(ctx, r.db)
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list recipes: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []domain.Recipe{}
	var ids []int64
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *recipe)
		ids = append(ids, recipe.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return recipes, nil
	}

	tags, err := loadTags(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].Tags = tags[recipes[i].ID]
		if recipes[i].Tags == nil {
			recipes[i].Tags = []domain.CatalogItem{}
		}
	}
	return recipes, nil
}

// Update writes the recipe's scalar fields. Ownership cannot change.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	now := time.Now().UTC()
	query, args, err := sq.Update("recipes").
		Set("title", recipe.Title).
		Set("time_minutes", recipe.TimeMinutes).
		Set("price", recipe.Price.StringFixed(2)).
		Set("link", recipe.Link).
		Set("description", recipe.Description).
		Set("updated_at", now).
		Where(sq.Eq{"id": recipe.ID, "user_id": recipe.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update recipe: %w", err)
	}

	result, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	recipe.UpdatedAt = now
	return nil
}

// Delete removes the recipe and its tag links. The tags themselves stay.
func (r *RecipeRepository) Delete(ctx context.Context, userID, id int64) error {
	query, args, err := sq.Delete("recipes").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete recipe: %w", err)
	}

	result, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecipeRepository) SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	q := querierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	insert := sq.Insert("recipe_tags").
		Columns("recipe_id", "tag_id").
		Suffix("ON CONFLICT (recipe_id, tag_id) DO NOTHING")
	for _, tagID := range tagIDs {
		insert = insert.Values(recipeID, tagID)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert recipe tags: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}
	return nil
}

// loadTags returns the tags linked to each of recipeIDs, keyed by recipe
// id and ordered by name.
func loadTags(ctx context.Context, q querier, recipeIDs []int64) (map[int64][]domain.CatalogItem, error) {
	query, args, err := sq.Select("rt.recipe_id", "t.id", "t.user_id", "t.name", "t.created_at").
		From("recipe_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(sq.Eq{"rt.recipe_id": recipeIDs}).
		OrderBy("t.name", "t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load tags: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load recipe tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int64][]domain.CatalogItem, len(recipeIDs))
	for rows.Next() {
		var recipeID int64
		var tag domain.CatalogItem
		if err := rows.Scan(&recipeID, &tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe tag: %w", err)
		}
		tags[recipeID] = append(tags[recipeID], tag)
	}
	return tags, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	recipe := &domain.Recipe{}
	err := row.Scan(&recipe.ID, &recipe.UserID, &recipe.Title, &recipe.TimeMinutes, &recipe.Price,
		&recipe.Link, &recipe.Description, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}
