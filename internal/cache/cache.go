package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/recipez/backend/internal/models"
)

// RecipeCache keeps rendered listing and detail reads in Redis so repeat
// page loads skip the database. A nil *RecipeCache is a no-op, which is how
// the unit tests run.
type RecipeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *RecipeCache {
	return &RecipeCache{rdb: rdb, ttl: ttl}
}

func listKey(userID uuid.UUID, filterKey string) string {
	return fmt.Sprintf("recipes:user:%s:list:%s", userID, filterKey)
}

func detailKey(id uuid.UUID) string {
	return fmt.Sprintf("recipes:detail:%s", id)
}

// GetList returns a cached listing for the user and filter, or ok=false.
func (c *RecipeCache) GetList(ctx context.Context, userID uuid.UUID, filterKey string) ([]models.Recipe, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, listKey(userID, filterKey)).Bytes()
	if err != nil {
		return nil, false
	}
	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, false
	}
	return recipes, true
}

func (c *RecipeCache) SetList(ctx context.Context, userID uuid.UUID, filterKey string, recipes []models.Recipe) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey(userID, filterKey), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: failed to store recipe list")
	}
}

// GetDetail returns a cached recipe by id, or ok=false.
func (c *RecipeCache) GetDetail(ctx context.Context, id uuid.UUID) (*models.Recipe, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, detailKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var recipe models.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, false
	}
	return &recipe, true
}

func (c *RecipeCache) SetDetail(ctx context.Context, recipe *models.Recipe) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(recipe)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, detailKey(recipe.ID), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: failed to store recipe detail")
	}
}

// Invalidate drops the detail entry for a recipe and every cached listing
// belonging to its owner. Called after each successful write.
func (c *RecipeCache) Invalidate(ctx context.Context, userID, recipeID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, detailKey(recipeID)).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: failed to drop recipe detail")
	}

	pattern := fmt.Sprintf("recipes:user:%s:list:*", userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("cache: failed to drop listing")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("cache: listing scan failed")
	}
}
