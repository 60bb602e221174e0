package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"cookshare/pkg/ingredient"

	"gorm.io/gorm"
)

// LoadIngredients imports an ingredient catalog from a CSV file of
// "name,measurement_unit" rows. The import is additive: existing names keep
// their row and only get the unit refreshed, so re-running the loader is
// idempotent. With replace set the catalog is wiped first.
func LoadIngredients(ctx context.Context, db *gorm.DB, path string, replace bool) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))

	if replace {
		if err := service.ClearCatalog(ctx); err != nil {
			return 0, fmt.Errorf("clear catalog: %w", err)
		}
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2

	loaded := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loaded, fmt.Errorf("read catalog row: %w", err)
		}

		name, unit := record[0], record[1]
		if name == "" || unit == "" {
			continue
		}

		if err := service.UpsertCatalogEntry(ctx, name, unit); err != nil {
			return loaded, fmt.Errorf("load %q: %w", name, err)
		}
		loaded++
	}

	return loaded, nil
}
