package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/recipe-box/internal/domain"
)

func TestCatalogRepository_GetOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := db.Tags()
	ctx := context.Background()
	user := createUser(t, db, "tags@example.com")

	first, created, err := repo.GetOrCreate(ctx, user.ID, "Vegan")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)
	assert.Equal(t, user.ID, first.UserID)

	again, created, err := repo.GetOrCreate(ctx, user.ID, "Vegan")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	// Names are matched exactly.
	other, created, err := repo.GetOrCreate(ctx, user.ID, "vegan")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestCatalogRepository_SameNameDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	repo := db.Ingredients()
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	a, _, err := repo.GetOrCreate(ctx, alice.ID, "Salt")
	require.NoError(t, err)
	b, created, err := repo.GetOrCreate(ctx, bob.ID, "Salt")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCatalogRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := db.Tags()
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	for _, name := range []string{"Dessert", "Breakfast", "Vegan"} {
		_, _, err := repo.GetOrCreate(ctx, alice.ID, name)
		require.NoError(t, err)
	}
	_, _, err := repo.GetOrCreate(ctx, bob.ID, "Fruity")
	require.NoError(t, err)

	items, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Vegan", items[0].Name)
	assert.Equal(t, "Dessert", items[1].Name)
	assert.Equal(t, "Breakfast", items[2].Name)

	empty, err := repo.ListByUser(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestCatalogRepository_TablesAreSeparate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "sep@example.com")

	_, _, err := db.Tags().GetOrCreate(ctx, user.ID, "Shared")
	require.NoError(t, err)

	ingredients, err := db.Ingredients().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ingredients)
}

func TestCatalogRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := db.Tags()
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	item, _, err := repo.GetOrCreate(ctx, alice.ID, "After Dinner")
	require.NoError(t, err)
	taken, _, err := repo.GetOrCreate(ctx, alice.ID, "Dessert")
	require.NoError(t, err)

	item.Name = "Supper"
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, alice.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supper", got.Name)

	t.Run("duplicate name", func(t *testing.T) {
		clash := *item
		clash.Name = taken.Name
		assert.ErrorIs(t, repo.Update(ctx, &clash), domain.ErrDuplicateName)
	})

	t.Run("other owner", func(t *testing.T) {
		foreign := *item
		foreign.UserID = bob.ID
		foreign.Name = "Stolen"
		assert.ErrorIs(t, repo.Update(ctx, &foreign), domain.ErrNotFound)

		got, err := repo.GetByID(ctx, alice.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Supper", got.Name)
	})
}

func TestCatalogRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := db.Ingredients()
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	item, _, err := repo.GetOrCreate(ctx, alice.ID, "Lettuce")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, bob.ID, item.ID), domain.ErrNotFound)
	_, err = repo.GetByID(ctx, alice.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, alice.ID, item.ID))
	_, err = repo.GetByID(ctx, alice.ID, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, item.ID), domain.ErrNotFound)
}
