package cart

import (
	"context"
	"fmt"
	"strings"

	"cookshare/domain"
	"cookshare/entities"

	"github.com/google/uuid"
)

type (
	CartService interface {
		AddToCart(ctx context.Context, userID, recipeID string) error
		RemoveFromCart(ctx context.Context, userID, recipeID string) error
		BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		RenderShoppingList(items []domain.ShoppingListItem) string
	}

	cartService struct {
		cartRepository CartRepository
	}
)

func NewCartService(cartRepository CartRepository) CartService {
	return &cartService{cartRepository: cartRepository}
}

func (s *cartService) AddToCart(ctx context.Context, userID, recipeID string) error {
	exists, err := s.cartRepository.RecipeExists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrRecipeNotFound
	}

	inCart, err := s.cartRepository.IsInCart(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if inCart {
		return domain.ErrAlreadyInCart
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.cartRepository.AddToCart(ctx, &entities.ShoppingCart{
		UserID:   userUUID,
		RecipeID: recipeUUID,
	})
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	exists, err := s.cartRepository.RecipeExists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrRecipeNotFound
	}

	return s.cartRepository.RemoveFromCart(ctx, userID, recipeID)
}

func (s *cartService) BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	return s.cartRepository.GetShoppingList(ctx, userID)
}

// RenderShoppingList formats the consolidated list as the plain-text
// attachment body served by the download endpoint.
func (s *cartService) RenderShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}
