package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessFavorite        = "recipe added to favorites"
	MessageSuccessUnfavorite      = "recipe removed from favorites"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavorite        = "failed to add recipe to favorites"
	MessageFailedUnfavorite      = "failed to remove recipe from favorites"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotRecipeAuthor     = errors.New("only the author can modify this recipe")
	ErrCookingTimeTooShort = errors.New("cooking time must be at least 1 minute")
	ErrAmountTooSmall      = errors.New("ingredient amount must be at least 1")
	ErrNoTags              = errors.New("recipe must have at least one tag")
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrSelfFavorite        = errors.New("cannot favorite your own recipe")
	ErrAlreadyFavorited    = errors.New("recipe already in favorites")
	ErrFavoriteNotFound    = errors.New("recipe not in favorites")
	ErrInvalidImagePayload = errors.New("invalid inline image payload")
)

type (
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image,omitempty"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// UpdateRecipeRequest carries only the fields present in the payload.
	// A present Ingredients or Tags slice replaces the whole set, even when empty.
	UpdateRecipeRequest struct {
		Name        *string                    `json:"name,omitempty" validate:"omitempty,max=200"`
		CookingTime *int                       `json:"cooking_time,omitempty" validate:"omitempty,min=1"`
		Text        *string                    `json:"text,omitempty"`
		Image       *string                    `json:"image,omitempty"`
		Tags        *[]string                  `json:"tags,omitempty" validate:"omitempty,dive,uuid"`
		Ingredients *[]IngredientAmountRequest `json:"ingredients,omitempty" validate:"omitempty,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Name             string                     `json:"name"`
		CookingTime      int                        `json:"cooking_time"`
		Text             string                     `json:"text"`
		ImageURL         string                     `json:"image_url,omitempty"`
		Author           UserResponse               `json:"author"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	// RecipeFilter is the explicit filter struct the listing query is built from.
	RecipeFilter struct {
		TagSlugs []string
		AuthorID string
	}
)
