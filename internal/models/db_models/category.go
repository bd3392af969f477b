package db_models

import "github.com/google/uuid"

// Category is a global label for consultations. Names are unique case-insensitively,
// which the repository enforces since the column itself is case-sensitive.
type Category struct {
	BaseModel
	Name string `gorm:"not null;index" json:"name"`
}

type Subcategory struct {
	BaseModel
	Name       string    `gorm:"not null;index" json:"name"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"categoryId"`
	Category   *Category `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
}
