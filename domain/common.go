package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
)

// IsNotFound reports whether err describes a missing entity or a missing
// relation on delete. The API boundary turns these into 404 responses.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound,
		ErrFollowNotFound,
		ErrTagNotFound,
		ErrIngredientNotFound,
		ErrRecipeNotFound,
		ErrFavoriteNotFound,
		ErrCartEntryNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsPermission reports whether err means the caller may not touch the entity.
func IsPermission(err error) bool {
	return errors.Is(err, ErrNotRecipeAuthor)
}
