package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cookshare/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newLoaderDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Ingredient{}))
	return db
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ingredients.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadIngredientsIsIdempotent(t *testing.T) {
	db := newLoaderDB(t)
	ctx := context.Background()

	path := writeCatalog(t, "flour,g\neggs,pcs\nsalt,g\n")

	count, err := LoadIngredients(ctx, db, path, false)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// A second additive run touches the same rows instead of duplicating them.
	count, err = LoadIngredients(ctx, db, path, false)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var rows int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&rows).Error)
	assert.EqualValues(t, 3, rows)
}

func TestLoadIngredientsUpdatesUnit(t *testing.T) {
	db := newLoaderDB(t)
	ctx := context.Background()

	first := writeCatalog(t, "milk,ml\n")
	_, err := LoadIngredients(ctx, db, first, false)
	require.NoError(t, err)

	second := writeCatalog(t, "milk,l\n")
	_, err = LoadIngredients(ctx, db, second, false)
	require.NoError(t, err)

	var milk entities.Ingredient
	require.NoError(t, db.Where("name = ?", "milk").First(&milk).Error)
	assert.Equal(t, "l", milk.MeasurementUnit)
}

func TestLoadIngredientsReplace(t *testing.T) {
	db := newLoaderDB(t)
	ctx := context.Background()

	first := writeCatalog(t, "flour,g\neggs,pcs\n")
	_, err := LoadIngredients(ctx, db, first, false)
	require.NoError(t, err)

	second := writeCatalog(t, "salt,g\n")
	count, err := LoadIngredients(ctx, db, second, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var rows int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	var names []string
	require.NoError(t, db.Model(&entities.Ingredient{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"salt"}, names)
}

func TestLoadIngredientsSkipsBlankFields(t *testing.T) {
	db := newLoaderDB(t)

	path := writeCatalog(t, "flour,g\n,g\nsalt,\n")
	count, err := LoadIngredients(context.Background(), db, path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadIngredientsMissingFile(t *testing.T) {
	db := newLoaderDB(t)

	_, err := LoadIngredients(context.Background(), db, "/nonexistent/ingredients.csv", false)
	assert.Error(t, err)
}
