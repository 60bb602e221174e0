package domain

import (
	"errors"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessGetUserDetail    = "success get user detail"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessDeleteUser       = "user deleted successfully"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageSuccessForgotPassword   = "password reset email sent"
	MessageSuccessResetPassword    = "password reset successfully"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedGetUserDetail    = "failed to get user detail"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedDeleteUser       = "failed to delete user"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"
	MessageFailedForgotPassword   = "failed to send password reset email"
	MessageFailedResetPassword    = "failed to reset password"

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrUsernameReserved    = errors.New("username is reserved")
	ErrUsernameInvalid     = errors.New("username contains invalid characters")
	ErrCredentialsInvalid  = errors.New("invalid email or password")
	ErrSelfFollow          = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing    = errors.New("already subscribed to this user")
	ErrFollowNotFound      = errors.New("not subscribed to this user")
	ErrPasswordResetFailed = errors.New("password reset token rejected")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	UpdateUserRequest struct {
		Username  *string `json:"username,omitempty" validate:"omitempty,max=150"`
		FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
		LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
		Password  *string `json:"password,omitempty" validate:"omitempty,min=8,max=150"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8,max=150"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionResponse is a followed author together with their recipes,
	// as listed on the subscriptions page.
	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeResponse `json:"recipes"`
		RecipesCount int64            `json:"recipes_count"`
	}
)
