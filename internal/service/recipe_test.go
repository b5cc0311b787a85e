package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/repository/sqlite"
	"github.com/msomdec/recipe-box/internal/service"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestRecipeService(t *testing.T) (*service.RecipeService, *service.AuthService, *sqlite.DB) {
	t.Helper()
	auth, db := newTestAuthService(t)
	return service.NewRecipeService(db.Recipes(), db.Tags(), db.TxManager()), auth, db
}

func sampleInput(tags ...string) service.RecipeInput {
	in := service.RecipeInput{
		Title:       "Sample recipe title",
		TimeMinutes: intPtr(22),
		Price:       price("5.25"),
		Link:        "https://example.com/recipe.pdf",
		Description: "Sample description",
	}
	for _, name := range tags {
		in.Tags = append(in.Tags, service.TagInput{Name: name})
	}
	return in
}

func tagNames(r *domain.Recipe) []string {
	names := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		names = append(names, tag.Name)
	}
	return names
}

func TestRecipeService_Create(t *testing.T) {
	recipes, auth, _ := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")

	recipe, err := recipes.Create(context.Background(), user.ID, sampleInput())
	require.NoError(t, err)

	assert.NotZero(t, recipe.ID)
	assert.Equal(t, user.ID, recipe.UserID)
	assert.Equal(t, "Sample recipe title", recipe.Title)
	assert.Equal(t, 22, recipe.TimeMinutes)
	assert.Equal(t, "5.25", recipe.Price.StringFixed(2))
	assert.Empty(t, recipe.Tags)
}

func TestRecipeService_Create_WithNewTags(t *testing.T) {
	recipes, auth, db := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, user.ID, sampleInput("Thai", "Dinner"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Thai", "Dinner"}, tagNames(recipe))

	stored, err := db.Tags().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	for _, tag := range stored {
		assert.Equal(t, user.ID, tag.UserID)
	}
}

func TestRecipeService_Create_WithExistingTag(t *testing.T) {
	recipes, auth, db := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	indian, _, err := db.Tags().GetOrCreate(ctx, user.ID, "Indian")
	require.NoError(t, err)

	recipe, err := recipes.Create(ctx, user.ID, sampleInput("Indian", "Breakfast", "Indian"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Breakfast", "Indian"}, tagNames(recipe))

	stored, err := db.Tags().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	for _, tag := range recipe.Tags {
		if tag.Name == "Indian" {
			assert.Equal(t, indian.ID, tag.ID)
		}
	}
}

func TestRecipeService_Create_TagNamesAreExact(t *testing.T) {
	recipes, auth, db := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, user.ID, sampleInput("Thai", " Thai "))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Thai", " Thai "}, tagNames(recipe))

	stored, err := db.Tags().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRecipeService_Create_Invalid(t *testing.T) {
	recipes, auth, db := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*service.RecipeInput)
		field  string
	}{
		{"missing title", func(in *service.RecipeInput) { in.Title = " " }, "title"},
		{"missing time", func(in *service.RecipeInput) { in.TimeMinutes = nil }, "time_minutes"},
		{"negative time", func(in *service.RecipeInput) { in.TimeMinutes = intPtr(-5) }, "time_minutes"},
		{"missing price", func(in *service.RecipeInput) { in.Price = nil }, "price"},
		{"negative price", func(in *service.RecipeInput) { in.Price = price("-1.00") }, "price"},
		{"too precise price", func(in *service.RecipeInput) { in.Price = price("1.234") }, "price"},
		{"too large price", func(in *service.RecipeInput) { in.Price = price("1000.00") }, "price"},
		{"empty tag name", func(in *service.RecipeInput) { in.Tags = []service.TagInput{{Name: ""}} }, "tags[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)

			_, err := recipes.Create(ctx, user.ID, in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	list, err := db.Recipes().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecipeService_ListAndGet_ScopedToUser(t *testing.T) {
	recipes, auth, _ := newTestRecipeService(t)
	alice := createTestUser(t, auth, "alice@example.com")
	bob := createTestUser(t, auth, "bob@example.com")
	ctx := context.Background()

	first, err := recipes.Create(ctx, alice.ID, sampleInput())
	require.NoError(t, err)
	second, err := recipes.Create(ctx, alice.ID, sampleInput())
	require.NoError(t, err)
	bobs, err := recipes.Create(ctx, bob.ID, sampleInput())
	require.NoError(t, err)

	list, err := recipes.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, err = recipes.Get(ctx, alice.ID, bobs.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeService_Update_Partial(t *testing.T) {
	recipes, auth, _ := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, user.ID, sampleInput("Keep"))
	require.NoError(t, err)

	updated, err := recipes.Update(ctx, user.ID, recipe.ID, service.RecipePatch{Title: strPtr("New recipe title")})
	require.NoError(t, err)
	assert.Equal(t, "New recipe title", updated.Title)
	assert.Equal(t, "https://example.com/recipe.pdf", updated.Link)
	assert.Equal(t, "5.25", updated.Price.StringFixed(2))
	assert.Equal(t, []string{"Keep"}, tagNames(updated))
}

func TestRecipeService_Update_Tags(t *testing.T) {
	recipes, auth, db := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, user.ID, sampleInput("Breakfast"))
	require.NoError(t, err)

	replacement := []service.TagInput{{Name: "Lunch"}}
	updated, err := recipes.Update(ctx, user.ID, recipe.ID, service.RecipePatch{Tags: &replacement})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lunch"}, tagNames(updated))

	cleared := []service.TagInput{}
	updated, err = recipes.Update(ctx, user.ID, recipe.ID, service.RecipePatch{Tags: &cleared})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	// Detached tags stay in the catalog.
	stored, err := db.Tags().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRecipeService_Update_OtherOwner(t *testing.T) {
	recipes, auth, _ := newTestRecipeService(t)
	alice := createTestUser(t, auth, "alice@example.com")
	bob := createTestUser(t, auth, "bob@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, alice.ID, sampleInput())
	require.NoError(t, err)

	_, err = recipes.Update(ctx, bob.ID, recipe.ID, service.RecipePatch{Title: strPtr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := recipes.Get(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sample recipe title", got.Title)
	assert.Equal(t, alice.ID, got.UserID)
}

func TestRecipeService_Update_InvalidTagRollsBack(t *testing.T) {
	recipes, auth, _ := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, user.ID, sampleInput("Original"))
	require.NoError(t, err)

	bad := []service.TagInput{{Name: "Fine"}, {Name: ""}}
	_, err = recipes.Update(ctx, user.ID, recipe.ID, service.RecipePatch{Title: strPtr("Changed"), Tags: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := recipes.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sample recipe title", got.Title)
	assert.Equal(t, []string{"Original"}, tagNames(got))
}

func TestRecipeService_Replace(t *testing.T) {
	recipes, auth, _ := newTestRecipeService(t)
	user := createTestUser(t, auth, "cook@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, user.ID, sampleInput())
	require.NoError(t, err)

	_, err = recipes.Replace(ctx, user.ID, recipe.ID, service.RecipePatch{Title: strPtr("Only title")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	replaced, err := recipes.Replace(ctx, user.ID, recipe.ID, service.RecipePatch{
		Title:       strPtr("New recipe title"),
		TimeMinutes: intPtr(10),
		Price:       price("2.50"),
		Link:        strPtr("https://example.com/new-recipe.pdf"),
		Description: strPtr("New recipe description"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New recipe title", replaced.Title)
	assert.Equal(t, 10, replaced.TimeMinutes)
	assert.Equal(t, "2.50", replaced.Price.StringFixed(2))
	assert.Equal(t, "https://example.com/new-recipe.pdf", replaced.Link)
	assert.Equal(t, "New recipe description", replaced.Description)
	assert.Equal(t, user.ID, replaced.UserID)
}

func TestRecipeService_Delete(t *testing.T) {
	recipes, auth, db := newTestRecipeService(t)
	alice := createTestUser(t, auth, "alice@example.com")
	bob := createTestUser(t, auth, "bob@example.com")
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, alice.ID, sampleInput("Survivor"))
	require.NoError(t, err)

	assert.ErrorIs(t, recipes.Delete(ctx, bob.ID, recipe.ID), domain.ErrNotFound)
	require.NoError(t, recipes.Delete(ctx, alice.ID, recipe.ID))

	_, err = recipes.Get(ctx, alice.ID, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tags, err := db.Tags().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
