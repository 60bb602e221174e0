package handlers

import (
	"cookshare/domain"
	"cookshare/internal/api/presenters"
	"cookshare/pkg/cart"

	"github.com/gofiber/fiber/v2"
)

type (
	CartHandler interface {
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		DownloadShoppingList(c *fiber.Ctx) error
	}

	cartHandler struct {
		cartService cart.CartService
	}
)

func NewCartHandler(cartService cart.CartService) CartHandler {
	return &cartHandler{cartService: cartService}
}

func (h *cartHandler) AddToCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.cartService.AddToCart(c.Context(), userID, recipeID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *cartHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.cartService.RemoveFromCart(c.Context(), userID, recipeID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveFromCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveFromCart)
}

// DownloadShoppingList serves the consolidated list as a plain-text
// attachment rather than the usual JSON envelope.
func (h *cartHandler) DownloadShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	items, err := h.cartService.BuildShoppingList(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDownloadList, err)
	}

	body := h.cartService.RenderShoppingList(items)

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.SendString(body)
}
