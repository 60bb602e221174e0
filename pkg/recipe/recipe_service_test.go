package recipe

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"testing"

	"cookshare/domain"
	"cookshare/entities"
	"cookshare/pkg/cart"
	"cookshare/pkg/ingredient"
	"cookshare/pkg/tag"
	"cookshare/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStorage struct{}

func (fakeStorage) UploadFile(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	return "https://bucket.test/" + key, nil
}

type testEnv struct {
	db      *gorm.DB
	service RecipeService
	repo    RecipeRepository

	author entities.User
	other  entities.User
	admin  entities.User

	breakfast entities.Tag
	dinner    entities.Tag

	flour entities.Ingredient
	eggs  entities.Ingredient
}

func newTestEnv(t *testing.T) *testEnv {
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

	env := &testEnv{
		db:        db,
		author:    entities.User{Email: "author@example.com", Username: "author", Password: "x", Role: domain.RoleUser},
		other:     entities.User{Email: "other@example.com", Username: "other", Password: "x", Role: domain.RoleUser},
		admin:     entities.User{Email: "admin@example.com", Username: "admin", Password: "x", Role: domain.RoleAdmin},
		breakfast: entities.Tag{Name: "Breakfast", Color: "#ffaa00", Slug: "breakfast"},
		dinner:    entities.Tag{Name: "Dinner", Color: "#0055ff", Slug: "dinner"},
		flour:     entities.Ingredient{Name: "flour", MeasurementUnit: "g"},
		eggs:      entities.Ingredient{Name: "eggs", MeasurementUnit: "pcs"},
	}
	require.NoError(t, db.Create(&env.author).Error)
	require.NoError(t, db.Create(&env.other).Error)
	require.NoError(t, db.Create(&env.admin).Error)
	require.NoError(t, db.Create(&env.breakfast).Error)
	require.NoError(t, db.Create(&env.dinner).Error)
	require.NoError(t, db.Create(&env.flour).Error)
	require.NoError(t, db.Create(&env.eggs).Error)

	env.repo = NewRecipeRepository(db)
	env.service = NewRecipeService(
		env.repo,
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		user.NewUserRepository(db),
		cart.NewCartRepository(db),
		fakeStorage{},
	)
	return env
}

func (e *testEnv) createRecipe(t *testing.T, name string) domain.RecipeResponse {
	t.Helper()
	res, err := e.service.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name:        name,
		CookingTime: 30,
		Text:        "mix and bake",
		Tags:        []string{e.breakfast.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{
			{ID: e.flour.ID.String(), Amount: 200},
			{ID: e.eggs.ID.String(), Amount: 2},
		},
	}, e.author.ID.String())
	require.NoError(t, err)
	return res
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := domain.CreateRecipeRequest{
		Name:        "pancakes",
		CookingTime: 30,
		Text:        "mix",
		Tags:        []string{env.breakfast.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{{ID: env.flour.ID.String(), Amount: 100}},
	}

	req := base
	req.CookingTime = 0
	_, err := env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrCookingTimeTooShort)

	req = base
	req.Tags = nil
	_, err = env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrNoTags)

	req = base
	req.Ingredients = nil
	_, err = env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrNoIngredients)

	req = base
	req.Ingredients = []domain.IngredientAmountRequest{{ID: env.flour.ID.String(), Amount: 0}}
	_, err = env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrAmountTooSmall)

	req = base
	req.Tags = []string{"4f5e2c34-0000-4000-8000-000000000000"}
	_, err = env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	req = base
	req.Ingredients = []domain.IngredientAmountRequest{{ID: "4f5e2c34-0000-4000-8000-000000000001", Amount: 5}}
	_, err = env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	// A cooking time of exactly one minute is the accepted minimum.
	req = base
	req.CookingTime = 1
	_, err = env.service.CreateRecipe(ctx, req, env.author.ID.String())
	assert.NoError(t, err)
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	res := env.createRecipe(t, "pancakes")

	assert.Equal(t, "pancakes", res.Name)
	assert.Equal(t, env.author.ID.String(), res.Author.ID)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "breakfast", res.Tags[0].Slug)
	require.Len(t, res.Ingredients, 2)

	amounts := map[string]int{}
	for _, ing := range res.Ingredients {
		amounts[ing.Name] = ing.Amount
	}
	assert.Equal(t, 200, amounts["flour"])
	assert.Equal(t, 2, amounts["eggs"])

	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
}

func TestCreateRecipeWithInlineImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	res, err := env.service.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Name:        "with image",
		CookingTime: 10,
		Text:        "t",
		Image:       payload,
		Tags:        []string{env.breakfast.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{{ID: env.flour.ID.String(), Amount: 50}},
	}, env.author.ID.String())
	require.NoError(t, err)
	assert.Contains(t, res.ImageURL, "https://bucket.test/recipes/")

	_, err = env.service.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Name:        "bad image",
		CookingTime: 10,
		Text:        "t",
		Image:       "data:image/png;base64,%%%not-base64%%%",
		Tags:        []string{env.breakfast.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{{ID: env.flour.ID.String(), Amount: 50}},
	}, env.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
}

func TestUpdateRecipeScalarOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createRecipe(t, "pancakes")

	name := "crepes"
	res, err := env.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: &name},
		env.author.ID.String(), domain.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, "crepes", res.Name)
	// Absent tag and ingredient payloads leave the sets untouched.
	assert.Len(t, res.Tags, 1)
	assert.Len(t, res.Ingredients, 2)
}

func TestUpdateRecipeReplacesSetsWholesale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createRecipe(t, "pancakes")

	tags := []string{env.dinner.ID.String()}
	ingredients := []domain.IngredientAmountRequest{{ID: env.eggs.ID.String(), Amount: 4}}
	res, err := env.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{
		Tags:        &tags,
		Ingredients: &ingredients,
	}, env.author.ID.String(), domain.RoleUser)
	require.NoError(t, err)

	require.Len(t, res.Tags, 1)
	assert.Equal(t, "dinner", res.Tags[0].Slug)
	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "eggs", res.Ingredients[0].Name)
	assert.Equal(t, 4, res.Ingredients[0].Amount)

	// An explicitly empty set empties the rows rather than keeping the old ones.
	empty := []domain.IngredientAmountRequest{}
	res, err = env.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{
		Ingredients: &empty,
	}, env.author.ID.String(), domain.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, res.Ingredients)

	var rows int64
	require.NoError(t, env.db.Model(&entities.RecipeIngredient{}).
		Where("recipe_id = ?", created.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestUpdateRecipePermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createRecipe(t, "pancakes")
	name := "hijacked"

	_, err := env.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: &name},
		env.other.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	_, err = env.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: &name},
		env.admin.ID.String(), domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestDeleteRecipe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createRecipe(t, "pancakes")

	assert.ErrorIs(t, env.service.DeleteRecipe(ctx, created.ID, env.other.ID.String(), domain.RoleUser),
		domain.ErrNotRecipeAuthor)

	require.NoError(t, env.service.DeleteRecipe(ctx, created.ID, env.author.ID.String(), domain.RoleUser))
	assert.ErrorIs(t, env.service.DeleteRecipe(ctx, created.ID, env.author.ID.String(), domain.RoleUser),
		domain.ErrRecipeNotFound)
}

func TestFavoriteRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createRecipe(t, "pancakes")

	assert.ErrorIs(t, env.service.Favorite(ctx, created.ID, env.author.ID.String()), domain.ErrSelfFavorite)

	require.NoError(t, env.service.Favorite(ctx, created.ID, env.other.ID.String()))
	assert.ErrorIs(t, env.service.Favorite(ctx, created.ID, env.other.ID.String()), domain.ErrAlreadyFavorited)

	detail, err := env.service.GetRecipeDetail(ctx, created.ID, env.other.ID.String())
	require.NoError(t, err)
	assert.True(t, detail.IsFavorited)

	// Anonymous viewers never see a raised flag.
	detail, err = env.service.GetRecipeDetail(ctx, created.ID, "")
	require.NoError(t, err)
	assert.False(t, detail.IsFavorited)

	require.NoError(t, env.service.Unfavorite(ctx, created.ID, env.other.ID.String()))
	assert.ErrorIs(t, env.service.Unfavorite(ctx, created.ID, env.other.ID.String()), domain.ErrFavoriteNotFound)
}

func TestGetRecipesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createRecipe(t, "pancakes")

	_, err := env.service.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Name:        "stew",
		CookingTime: 90,
		Text:        "simmer",
		Tags:        []string{env.dinner.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{{ID: env.eggs.ID.String(), Amount: 1}},
	}, env.other.ID.String())
	require.NoError(t, err)

	all, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{}, 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, count)

	byTag, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"dinner"}}, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "stew", byTag[0].Name)

	byAuthor, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{AuthorID: env.author.ID.String()}, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "pancakes", byAuthor[0].Name)
}
