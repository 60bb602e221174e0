package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"cookshare/domain"
	"cookshare/entities"
	"cookshare/internal/utils/mailing"
	"cookshare/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// usernamePattern mirrors the registration contract: word characters plus
// the . @ + - set, nothing else.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const reservedUsername = "me"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error)
		GetUserDetail(ctx context.Context, id, viewerID string) (domain.UserResponse, error)
		UpdateUser(ctx context.Context, userID string, req domain.UpdateUserRequest) (domain.UserResponse, error)
		DeleteUser(ctx context.Context, userID string) error

		Subscribe(ctx context.Context, userID, authorID string) error
		Unsubscribe(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, page, limit int) ([]domain.SubscriptionResponse, int64, error)

		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func validateUsername(username string) error {
	if username == reservedUsername {
		return domain.ErrUsernameReserved
	}
	if !usernamePattern.MatchString(username) {
		return domain.ErrUsernameInvalid
	}
	return nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if err := validateUsername(req.Username); err != nil {
		return domain.UserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.UserResponse{}, err
	}

	return toUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{
		Token: token,
		User:  toUserResponse(user, false),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, false), nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		subscribed := false
		if viewerID != "" {
			subscribed, err = s.userRepository.IsFollowing(ctx, viewerID, u.ID.String())
			if err != nil {
				return nil, 0, err
			}
		}
		result = append(result, toUserResponse(u, subscribed))
	}
	return result, count, nil
}

func (s *userService) GetUserDetail(ctx context.Context, id, viewerID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	subscribed := false
	if viewerID != "" {
		subscribed, err = s.userRepository.IsFollowing(ctx, viewerID, id)
		if err != nil {
			return domain.UserResponse{}, err
		}
	}
	return toUserResponse(user, subscribed), nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := validateUsername(*req.Username); err != nil {
			return domain.UserResponse{}, err
		}
		if _, err := s.userRepository.GetUserByUsername(ctx, *req.Username); err == nil {
			return domain.UserResponse{}, domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserResponse{}, err
		}
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.UserResponse{}, err
		}
		user.Password = string(hashed)
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrUsernameTaken
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, false), nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	return s.userRepository.DeleteUser(ctx, userID)
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return domain.ErrSelfFollow
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return err
	}

	follower, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	following, err := s.userRepository.IsFollowing(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if following {
		return domain.ErrAlreadyFollowing
	}

	follow := &entities.Follow{
		UserID:   follower.ID,
		AuthorID: author.ID,
	}
	return s.userRepository.CreateFollow(ctx, follow)
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		return err
	}
	return s.userRepository.DeleteFollow(ctx, userID, authorID)
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, page, limit int) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscriptions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		recipes := make([]domain.RecipeResponse, 0, len(author.Recipes))
		for _, recipe := range author.Recipes {
			recipes = append(recipes, domain.RecipeResponse{
				ID:          recipe.ID.String(),
				Name:        recipe.Name,
				CookingTime: recipe.CookingTime,
				ImageURL:    recipe.ImageURL,
				CreatedAt:   recipe.CreatedAt,
			})
		}
		result = append(result, domain.SubscriptionResponse{
			UserResponse: toUserResponse(author, true),
			Recipes:      recipes,
			RecipesCount: int64(len(recipes)),
		})
	}
	return result, count, nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(
		map[string]any{"user_id": user.ID.String()},
		15*time.Minute,
	)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", mailing.LoadMailConfig().AppURL, token)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Use the link below to reset your password. It expires in 15 minutes.</p><p><a href=%q>Reset password</a></p>",
		user.FirstName, resetURL,
	)
	return mailing.SendMail(user.Email, "Reset your password", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrPasswordResetFailed
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func toUserResponse(user *entities.User, subscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
