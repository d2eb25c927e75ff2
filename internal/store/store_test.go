package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seshat-app/ingredients/backend/internal/model"
)

func garlic() *model.Ingredient {
	return &model.Ingredient{
		ID:            "11215",
		Title:         "garlic",
		Image:         "garlic.png",
		Calories:      &model.Amount{Amount: 149, Unit: "kcal"},
		Fat:           &model.Amount{Amount: 0.5, Unit: "g"},
		Carbohydrates: &model.Amount{Amount: 33.06, Unit: "g"},
	}
}

// testStoreContract exercises the behavior every Store must share
func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		items, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("absent get is not an error", func(t *testing.T) {
		ing, err := s.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, ing)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, garlic()))
		got, err := s.Get(ctx, "11215")
		require.NoError(t, err)
		assert.Equal(t, garlic(), got)
	})

	t.Run("put overwrites", func(t *testing.T) {
		updated := garlic()
		updated.Title = "garlic, raw"
		updated.Fat = nil
		require.NoError(t, s.Put(ctx, updated))

		got, err := s.Get(ctx, "11215")
		require.NoError(t, err)
		assert.Equal(t, "garlic, raw", got.Title)
		assert.Nil(t, got.Fat)
		assert.NotNil(t, got.Calories)
	})

	t.Run("list returns all", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, &model.Ingredient{ID: "9003", Title: "apple"}))
		items, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "9003"))
		require.NoError(t, s.Delete(ctx, "9003"))
		got, err := s.Get(ctx, "9003")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
