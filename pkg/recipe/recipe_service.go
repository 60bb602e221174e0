package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"cookshare/domain"
	"cookshare/entities"
	"cookshare/internal/utils/storage"
	"cookshare/pkg/cart"
	"cookshare/pkg/ingredient"
	"cookshare/pkg/tag"
	"cookshare/pkg/user"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, callerID, callerRole string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, callerID, callerRole string) error
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error)

		Favorite(ctx context.Context, recipeID, userID string) error
		Unfavorite(ctx context.Context, recipeID, userID string) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		userRepository       user.UserRepository
		cartRepository       cart.CartRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	userRepository user.UserRepository,
	cartRepository cart.CartRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		userRepository:       userRepository,
		cartRepository:       cartRepository,
		s3:                   s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error) {
	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.ErrCookingTimeTooShort
	}
	if len(req.Tags) == 0 {
		return domain.RecipeResponse{}, domain.ErrNoTags
	}
	if len(req.Ingredients) == 0 {
		return domain.RecipeResponse{}, domain.ErrNoIngredients
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	rows, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		UserID:      author.ID,
		Name:        req.Name,
		CookingTime: req.CookingTime,
		Text:        req.Text,
	}

	if req.Image != "" {
		imageURL, err := s.uploadInlineImage(ctx, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tags, rows); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, callerID, callerRole string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if recipe.UserID.String() != callerID && callerRole != domain.RoleAdmin {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return domain.RecipeResponse{}, domain.ErrCookingTimeTooShort
		}
		recipe.CookingTime = *req.CookingTime
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.Image != nil && *req.Image != "" {
		imageURL, err := s.uploadInlineImage(ctx, *req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	var tags []*entities.Tag
	replaceTags := req.Tags != nil
	if replaceTags {
		tags, err = s.resolveTags(ctx, *req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	// A present ingredients payload replaces the whole set, an empty one
	// included: the recipe ends up with zero rows, not its old ones.
	var rows []*entities.RecipeIngredient
	replaceIngredients := req.Ingredients != nil
	if replaceIngredients {
		rows, err = s.resolveIngredients(ctx, *req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags, rows, replaceTags, replaceIngredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	// Reload so the caller observes post-update state, never an echo of input.
	return s.GetRecipeDetail(ctx, recipeID, callerID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, callerID, callerRole string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}

	if recipe.UserID.String() != callerID && callerRole != domain.RoleAdmin {
		return domain.ErrNotRecipeAuthor
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res, err := s.toRecipeResponse(ctx, r, viewerID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, viewerID)
}

func (s *recipeService) Favorite(ctx context.Context, recipeID, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}

	// Checked before the insert: favoriting your own recipe never persists.
	if recipe.UserID.String() == userID {
		return domain.ErrSelfFavorite
	}

	favorited, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if favorited {
		return domain.ErrAlreadyFavorited
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.recipeRepository.CreateFavorite(ctx, &entities.Favorite{
		UserID:   userUUID,
		RecipeID: recipe.ID,
	})
}

func (s *recipeService) Unfavorite(ctx context.Context, recipeID, userID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	return s.recipeRepository.DeleteFavorite(ctx, userID, recipeID)
}

func (s *recipeService) resolveTags(ctx context.Context, ids []string) ([]*entities.Tag, error) {
	tags, err := s.tagRepository.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(tags))
	for _, t := range tags {
		found[t.ID.String()] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, domain.ErrTagNotFound
		}
	}
	return tags, nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, reqs []domain.IngredientAmountRequest) ([]*entities.RecipeIngredient, error) {
	if len(reqs) == 0 {
		return []*entities.RecipeIngredient{}, nil
	}

	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		if req.Amount < 1 {
			return nil, domain.ErrAmountTooSmall
		}
		ids = append(ids, req.ID)
	}

	ingredients, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID.String()] = ing
	}

	rows := make([]*entities.RecipeIngredient, 0, len(reqs))
	for _, req := range reqs {
		ing, ok := byID[req.ID]
		if !ok {
			return nil, domain.ErrIngredientNotFound
		}
		rows = append(rows, &entities.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       req.Amount,
		})
	}
	return rows, nil
}

// uploadInlineImage decodes a base64 (optionally data-URI) payload and stores
// it, keeping only the returned reference on the recipe.
func (s *recipeService) uploadInlineImage(ctx context.Context, payload string) (string, error) {
	contentType := "image/png"
	data := payload

	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return "", domain.ErrInvalidImagePayload
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		contentType = strings.TrimSuffix(strings.SplitN(meta, ";", 2)[0], ";")
		data = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", domain.ErrInvalidImagePayload
	}

	ext := "png"
	if idx := strings.Index(contentType, "/"); idx >= 0 && idx+1 < len(contentType) {
		ext = contentType[idx+1:]
	}
	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)

	return s.s3.UploadFile(ctx, key, contentType, bytes.NewReader(decoded))
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, tag.ToTagResponse(t))
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.RecipeIngredients))
	for _, row := range recipe.RecipeIngredients {
		res := domain.RecipeIngredientResponse{
			ID:     row.IngredientID.String(),
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			res.Name = row.Ingredient.Name
			res.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, res)
	}

	author := domain.UserResponse{ID: recipe.UserID.String()}
	if recipe.User != nil {
		author.Email = recipe.User.Email
		author.Username = recipe.User.Username
		author.FirstName = recipe.User.FirstName
		author.LastName = recipe.User.LastName
	}

	// An anonymous viewer is a first-class case: every flag reads false.
	isFavorited := false
	isInCart := false
	isSubscribed := false
	if viewerID != "" {
		var err error
		if isFavorited, err = s.recipeRepository.IsFavorited(ctx, viewerID, recipe.ID.String()); err != nil {
			return domain.RecipeResponse{}, err
		}
		if isInCart, err = s.cartRepository.IsInCart(ctx, viewerID, recipe.ID.String()); err != nil {
			return domain.RecipeResponse{}, err
		}
		if isSubscribed, err = s.userRepository.IsFollowing(ctx, viewerID, recipe.UserID.String()); err != nil {
			return domain.RecipeResponse{}, err
		}
	}
	author.IsSubscribed = isSubscribed

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Name:             recipe.Name,
		CookingTime:      recipe.CookingTime,
		Text:             recipe.Text,
		ImageURL:         recipe.ImageURL,
		Author:           author,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		CreatedAt:        recipe.CreatedAt,
	}, nil
}
