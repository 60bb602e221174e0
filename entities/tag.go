package entities

import (
	"github.com/google/uuid"
)

// Tag is admin-managed reference data; recipes attach to it many-to-many.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color string    `gorm:"size:7" json:"color"`
	Slug  string    `gorm:"uniqueIndex;size:200;not null" json:"slug"`

	Timestamp
}
