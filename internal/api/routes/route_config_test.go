package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cookshare/entities"
	"cookshare/internal/api/handlers"
	"cookshare/internal/middleware"
	"cookshare/internal/utils"
	"cookshare/pkg/cart"
	"cookshare/pkg/ingredient"
	"cookshare/pkg/jwt"
	"cookshare/pkg/recipe"
	"cookshare/pkg/tag"
	"cookshare/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiFixture struct {
	app *fiber.App
	db  *gorm.DB

	breakfast entities.Tag
	flour     entities.Ingredient
}

type noStorage struct{}

func (noStorage) UploadFile(_ context.Context, _, _ string, _ io.Reader) (string, error) {
	return "", nil
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Follow{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	))

	utils.InitValidator()
	app := fiber.New()

	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	cartRepository := cart.NewCartRepository(db)

	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	cartService := cart.NewCartService(cartRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		tagRepository,
		ingredientRepository,
		userRepository,
		cartRepository,
		noStorage{},
	)

	cfg := Config{
		App:               app,
		UserHandler:       handlers.NewUserHandler(userService, utils.Validate),
		TagHandler:        handlers.NewTagHandler(tagService),
		IngredientHandler: handlers.NewIngredientHandler(ingredientService),
		RecipeHandler:     handlers.NewRecipeHandler(recipeService, utils.Validate),
		CartHandler:       handlers.NewCartHandler(cartService),
		Middleware:        middleware.NewMiddleware(),
		JWTService:        jwtService,
	}
	cfg.Setup()

	f := &apiFixture{
		app:       app,
		db:        db,
		breakfast: entities.Tag{Name: "Breakfast", Color: "#ffaa00", Slug: "breakfast"},
		flour:     entities.Ingredient{Name: "flour", MeasurementUnit: "g"},
	}
	require.NoError(t, db.Create(&f.breakfast).Error)
	require.NoError(t, db.Create(&f.flour).Error)
	return f
}

func (f *apiFixture) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := f.app.Test(req)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func (f *apiFixture) registerAndLogin(t *testing.T, email, username string) string {
	t.Helper()

	res := f.request(t, http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"email":      email,
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = f.request(t, http.MethodPost, "/api/v1/users/login", "", map[string]any{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func (f *apiFixture) createRecipe(t *testing.T, token string) string {
	t.Helper()

	res := f.request(t, http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"name":         "pancakes",
		"cooking_time": 30,
		"text":         "mix and fry",
		"tags":         []string{f.breakfast.ID.String()},
		"ingredients": []map[string]any{
			{"id": f.flour.ID.String(), "amount": 200},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]any)
	return data["id"].(string)
}

func TestRecipeFlagsForAnonymousAndViewer(t *testing.T) {
	f := newAPIFixture(t)

	authorToken := f.registerAndLogin(t, "author@example.com", "author")
	viewerToken := f.registerAndLogin(t, "viewer@example.com", "viewer")
	recipeID := f.createRecipe(t, authorToken)

	res := f.request(t, http.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", viewerToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Anonymous request succeeds and reads every flag as false.
	res = f.request(t, http.MethodGet, "/api/v1/recipes/"+recipeID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]any)
	assert.False(t, data["is_favorited"].(bool))
	assert.False(t, data["is_in_shopping_cart"].(bool))

	res = f.request(t, http.MethodGet, "/api/v1/recipes/"+recipeID, viewerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	data = decodeBody(t, res)["data"].(map[string]any)
	assert.True(t, data["is_favorited"].(bool))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	res := f.request(t, http.MethodPost, "/api/v1/recipes", "", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = f.request(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestErrorStatusMapping(t *testing.T) {
	f := newAPIFixture(t)

	authorToken := f.registerAndLogin(t, "author@example.com", "author")
	otherToken := f.registerAndLogin(t, "other@example.com", "other")
	recipeID := f.createRecipe(t, authorToken)

	res := f.request(t, http.MethodGet, "/api/v1/recipes/4f5e2c34-0000-4000-8000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = f.request(t, http.MethodPatch, "/api/v1/recipes/"+recipeID, otherToken, map[string]any{
		"name": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newAPIFixture(t)

	authorToken := f.registerAndLogin(t, "author@example.com", "author")
	buyerToken := f.registerAndLogin(t, "buyer@example.com", "buyer")
	recipeID := f.createRecipe(t, authorToken)

	res := f.request(t, http.MethodPost, "/api/v1/recipes/"+recipeID+"/shopping_cart", buyerToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = f.request(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", buyerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentType), "text/plain")
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), "shopping_list.txt")

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "flour (g) - 200")
}

func TestIngredientNameFilter(t *testing.T) {
	f := newAPIFixture(t)

	require.NoError(t, f.db.Create(&entities.Ingredient{Name: "sugar", MeasurementUnit: "g"}).Error)

	res := f.request(t, http.MethodGet, "/api/v1/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	data := decodeBody(t, res)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "flour", data[0].(map[string]any)["name"])
}
