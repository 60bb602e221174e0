package entities

import (
	"github.com/google/uuid"
)

// Ingredient is catalog reference data, bulk-loaded from CSV. Name is the
// upsert key for the loader, so it carries a unique index.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"uniqueIndex;size:200;not null" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`

	Timestamp
}
