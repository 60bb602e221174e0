package ingredient

import (
	"context"

	"cookshare/domain"
	"cookshare/entities"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredientDetail(ctx context.Context, id string) (domain.IngredientResponse, error)
		// UpsertCatalogEntry backs the bulk loader: an existing name gets its
		// measurement unit updated in place rather than duplicated.
		UpsertCatalogEntry(ctx context.Context, name, measurementUnit string) error
		ClearCatalog(ctx context.Context) error
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	result := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		result = append(result, ToIngredientResponse(ing))
	}
	return result, nil
}

func (s *ingredientService) GetIngredientDetail(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ing, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return ToIngredientResponse(ing), nil
}

func (s *ingredientService) UpsertCatalogEntry(ctx context.Context, name, measurementUnit string) error {
	existing, err := s.ingredientRepository.GetIngredientByName(ctx, name)
	if err == nil {
		if existing.MeasurementUnit == measurementUnit {
			return nil
		}
		existing.MeasurementUnit = measurementUnit
		return s.ingredientRepository.UpdateIngredient(ctx, existing)
	}
	if err != domain.ErrIngredientNotFound {
		return err
	}

	return s.ingredientRepository.CreateIngredient(ctx, &entities.Ingredient{
		Name:            name,
		MeasurementUnit: measurementUnit,
	})
}

func (s *ingredientService) ClearCatalog(ctx context.Context) error {
	return s.ingredientRepository.TruncateIngredients(ctx)
}

func ToIngredientResponse(ing *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ing.ID.String(),
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}
