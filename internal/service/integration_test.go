package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipez/backend/internal/cache"
	"github.com/recipez/backend/internal/models"
	"github.com/recipez/backend/internal/service"
	"github.com/recipez/backend/internal/testdb"
	"github.com/recipez/backend/internal/types"
)

// Exercises the JSONB ingredient column and LIKE filters against real
// Postgres. Requires Docker; see testdb.Setup.
func TestRecipeServiceAgainstPostgres(t *testing.T) {
	td := testdb.Setup(t)
	svc := service.NewRecipeService(td.DB, nil)
	ctx := context.Background()

	user := &models.User{Email: "pg@example.com", PasswordHash: "x"}
	require.NoError(t, td.DB.Create(user).Error)

	input := &types.RecipeInput{
		Title:        "Apple Pie",
		Description:  "With JSONB ingredients.",
		Ingredients:  []types.IngredientInput{{Value: "6 apples"}, {Value: "pastry"}},
		Instructions: "Bake.",
		Category:     "Dessert",
	}

	created, err := svc.CreateRecipe(ctx, user.ID, input)
	require.NoError(t, err)

	got, err := svc.GetRecipe(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"6 apples", "pastry"}, got.Ingredients)

	recipes, err := svc.ListRecipes(ctx, user.ID, service.ListFilter{Query: "PIE"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	require.NoError(t, svc.DeleteRecipe(ctx, user.ID, created.ID))
	err = svc.DeleteRecipe(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func cacheTestInput(title string) *types.RecipeInput {
	return &types.RecipeInput{
		Title:        title,
		Description:  "Cached listing fixture.",
		Ingredients:  []types.IngredientInput{{Value: "6 apples"}},
		Instructions: "Bake.",
		Category:     "Dessert",
	}
}

// Exercises the Redis cache end to end: listings are served from the cache
// until a service write invalidates them, and the invalidation covers every
// filter combination plus the detail entry.
func TestRecipeCacheInvalidationAgainstRedis(t *testing.T) {
	td := testdb.Setup(t)
	rdb := testdb.SetupRedis(t)
	svc := service.NewRecipeService(td.DB, cache.New(rdb, time.Minute))
	ctx := context.Background()

	user := &models.User{Email: "cache@example.com", PasswordHash: "x"}
	require.NoError(t, td.DB.Create(user).Error)

	created, err := svc.CreateRecipe(ctx, user.ID, cacheTestInput("Apple Pie"))
	require.NoError(t, err)

	// First read fills the listing cache
	recipes, err := svc.ListRecipes(ctx, user.ID, service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	// A write that bypasses the service stays invisible while the cached
	// listing is live, proving the read really came from Redis
	require.NoError(t, td.DB.Model(&models.Recipe{}).
		Where("id = ?", created.ID).
		Update("title", "Changed Behind The Cache").Error)

	recipes, err = svc.ListRecipes(ctx, user.ID, service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Apple Pie", recipes[0].Title)

	// A service write drops the stale entry and the next read is fresh
	_, err = svc.UpdateRecipe(ctx, user.ID, created.ID, cacheTestInput("Updated Pie"))
	require.NoError(t, err)

	recipes, err = svc.ListRecipes(ctx, user.ID, service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Updated Pie", recipes[0].Title)

	// Warm a second filter combination and the detail entry
	recipes, err = svc.ListRecipes(ctx, user.ID, service.ListFilter{Category: "Dessert"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	got, err := svc.GetRecipe(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Pie", got.Title)

	// Deleting invalidates every cached listing for the owner and the detail
	require.NoError(t, svc.DeleteRecipe(ctx, user.ID, created.ID))

	recipes, err = svc.ListRecipes(ctx, user.ID, service.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, recipes)

	recipes, err = svc.ListRecipes(ctx, user.ID, service.ListFilter{Category: "Dessert"})
	require.NoError(t, err)
	assert.Empty(t, recipes)

	_, err = svc.GetRecipe(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
