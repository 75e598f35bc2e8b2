package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categories is the closed set of recipe categories accepted by the API.
var Categories = []string{"Breakfast", "Lunch", "Dinner", "Dessert", "Snacks"}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a stored recipe row. Deletes are hard deletes: there is no
// soft-delete column and no tombstone.
type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions string           `gorm:"type:text;not null" json:"instructions"`
	PrepTime     *int             `gorm:"check:prep_time >= 0" json:"prep_time"`
	CookTime     *int             `gorm:"check:cook_time >= 0" json:"cook_time"`
	Servings     *int             `gorm:"check:servings >= 1" json:"servings"`
	Category     string           `gorm:"size:50" json:"category"`
	PhotoURL     string           `gorm:"size:255" json:"photo_url"`
	IsFavorite   bool             `gorm:"not null;default:false" json:"is_favorite"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an ID when the database does not (SQLite in tests).
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
