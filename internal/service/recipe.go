package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/recipez/backend/internal/cache"
	"github.com/recipez/backend/internal/models"
	"github.com/recipez/backend/internal/types"
)

// ListFilter holds the optional listing filters. Zero values mean "no
// filter"; filters compose conjunctively.
type ListFilter struct {
	Query        string
	Category     string
	FavoriteOnly bool
}

func (f ListFilter) cacheKey() string {
	// Components are escaped so a crafted query cannot collide with the key
	// of a different filter combination.
	return fmt.Sprintf("q=%s&category=%s&favorite=%t",
		url.QueryEscape(strings.ToLower(strings.TrimSpace(f.Query))),
		url.QueryEscape(f.Category), f.FavoriteOnly)
}

// escapeLike makes LIKE treat the user's search term literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// RecipeService handles recipe reads and mutations. Every operation is
// scoped to the calling account; no query can return or touch another
// account's rows.
type RecipeService struct {
	db    *gorm.DB
	cache *cache.RecipeCache
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB, c *cache.RecipeCache) *RecipeService {
	return &RecipeService{db: db, cache: c}
}

// ListRecipes returns the caller's recipes matching the filter, most recent
// first. The free-text filter matches title or description, case
// insensitively. It does not look inside ingredients: they are stored as a
// JSONB array and the simple LIKE filter does not reach into it.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.Recipe, error) {
	if cached, ok := s.cache.GetList(ctx, userID, filter.cacheKey()); ok {
		return cached, nil
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FavoriteOnly {
		query = query.Where("is_favorite = ?", true)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, storageErr("list recipes", err)
	}

	s.cache.SetList(ctx, userID, filter.cacheKey(), recipes)
	return recipes, nil
}

// GetRecipe retrieves one of the caller's recipes by ID. Rows owned by other
// accounts are indistinguishable from missing rows.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	if cached, ok := s.cache.GetDetail(ctx, id); ok {
		if cached.UserID != userID {
			return nil, ErrNotFound
		}
		return cached, nil
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get recipe", err)
	}

	s.cache.SetDetail(ctx, &recipe)
	return &recipe, nil
}

// CreateRecipe validates the input and inserts a new recipe owned by the
// caller. ID and timestamps are set by the store.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, input *types.RecipeInput) (*models.Recipe, error) {
	if verrs := input.Validate(); verrs != nil {
		return nil, verrs
	}

	recipe := models.Recipe{
		UserID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		Ingredients:  models.JSONBStringArray(input.IngredientValues()),
		Instructions: input.Instructions,
		PrepTime:     input.PrepTime.IntPtr(),
		CookTime:     input.CookTime.IntPtr(),
		Servings:     input.Servings.IntPtr(),
		Category:     input.Category,
		PhotoURL:     input.PhotoURL,
		IsFavorite:   input.IsFavorite,
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, storageErr("create recipe", err)
	}

	log.Info().Str("recipe_id", recipe.ID.String()).Str("user_id", userID.String()).Msg("Recipe created")
	s.cache.Invalidate(ctx, userID, recipe.ID)
	return &recipe, nil
}

// UpdateRecipe validates the input and replaces every mutable field of the
// recipe. ID, owner and created_at are untouched; updated_at is refreshed.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, input *types.RecipeInput) (*models.Recipe, error) {
	recipe, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if verrs := input.Validate(); verrs != nil {
		return nil, verrs
	}

	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.Ingredients = models.JSONBStringArray(input.IngredientValues())
	recipe.Instructions = input.Instructions
	recipe.PrepTime = input.PrepTime.IntPtr()
	recipe.CookTime = input.CookTime.IntPtr()
	recipe.Servings = input.Servings.IntPtr()
	recipe.Category = input.Category
	recipe.PhotoURL = input.PhotoURL
	recipe.IsFavorite = input.IsFavorite

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, storageErr("update recipe", err)
	}

	log.Info().Str("recipe_id", id.String()).Msg("Recipe updated")
	s.cache.Invalidate(ctx, userID, id)
	return recipe, nil
}

// DeleteRecipe permanently removes the caller's recipe. Deleting an already
// deleted recipe surfaces as ErrNotFound, not a storage failure.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	recipe, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", recipe.ID).Error; err != nil {
		return storageErr("delete recipe", err)
	}

	log.Info().Str("recipe_id", id.String()).Msg("Recipe deleted")
	s.cache.Invalidate(ctx, userID, id)
	return nil
}

// SetFavorite flips the favorite flag on the caller's recipe.
func (s *RecipeService) SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) (*models.Recipe, error) {
	recipe, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	recipe.IsFavorite = favorite
	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, storageErr("set favorite", err)
	}

	s.cache.Invalidate(ctx, userID, id)
	return recipe, nil
}

// loadOwned fetches a recipe by id and enforces ownership: a missing row is
// ErrNotFound, somebody else's row is ErrForbidden.
func (s *RecipeService) loadOwned(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("load recipe", err)
	}
	if recipe.UserID != userID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}
