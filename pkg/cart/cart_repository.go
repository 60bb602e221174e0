package cart

import (
	"context"
	"errors"

	"cookshare/domain"
	"cookshare/entities"

	"gorm.io/gorm"
)

type (
	CartRepository interface {
		AddToCart(ctx context.Context, entry *entities.ShoppingCart) error
		RemoveFromCart(ctx context.Context, userID, recipeID string) error
		IsInCart(ctx context.Context, userID, recipeID string) (bool, error)
		RecipeExists(ctx context.Context, recipeID string) (bool, error)
		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	cartRepository struct {
		db *gorm.DB
	}
)

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) AddToCart(ctx context.Context, entry *entities.ShoppingCart) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyInCart
		}
		return err
	}
	return nil
}

func (r *cartRepository) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartEntryNotFound
	}
	return nil
}

func (r *cartRepository) IsInCart(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *cartRepository) RecipeExists(ctx context.Context, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetShoppingList groups by (name, measurement unit) rather than by
// ingredient id alone, summing amounts within each group; ordering by name
// keeps repeated calls deterministic.
func (r *cartRepository) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem

	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, SUM(recipe_ingredients.amount) AS amount, ingredients.measurement_unit AS measurement_unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}
