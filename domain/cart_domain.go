package domain

import (
	"errors"
)

var (
	MessageSuccessAddToCart      = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart = "recipe removed from shopping cart"
	MessageSuccessDownloadList   = "shopping list generated"

	MessageFailedAddToCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart = "failed to remove recipe from shopping cart"
	MessageFailedDownloadList   = "failed to generate shopping list"

	ErrAlreadyInCart     = errors.New("recipe already in shopping cart")
	ErrCartEntryNotFound = errors.New("recipe not in shopping cart")
)

// ShoppingListItem is one consolidated line of the downloadable list. Two cart
// recipes that both need "200 g flour" collapse into a single 400 g line.
type ShoppingListItem struct {
	Name            string `json:"name"`
	Amount          int    `json:"amount"`
	MeasurementUnit string `json:"measurement_unit"`
}
