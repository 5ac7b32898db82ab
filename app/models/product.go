// Package models holds the persisted domain types.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Brand identifies which of the two restaurant brands a product belongs to.
type Brand string

const (
	BrandPlaneteKebab Brand = "planete_kebab"
	BrandMamapizza    Brand = "mamapizza"
)

// ErrInvalidBrand reports a brand value outside the closed set.
var ErrInvalidBrand = errors.New("invalid brand")

// ParseBrand validates a wire value against the closed brand set.
func ParseBrand(s string) (Brand, error) {
	switch Brand(s) {
	case BrandPlaneteKebab, BrandMamapizza:
		return Brand(s), nil
	default:
		return "", fmt.Errorf("%w: must be one of [%s %s], got %q",
			ErrInvalidBrand, BrandPlaneteKebab, BrandMamapizza, s)
	}
}

// CountryCodes is a JSON-encoded list of ISO 3166-1 alpha-2 codes stored in
// a single column, e.g. ["SN","CI"].
type CountryCodes []string

func (c CountryCodes) Value() (driver.Value, error) {
	if c == nil {
		c = CountryCodes{"SN"}
	}
	return json.Marshal(c)
}

func (c *CountryCodes) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = CountryCodes{"SN"}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CountryCodes", value)
	}
}

// Product is one menu entry. Prices are integer FCFA amounts — the currency
// has no minor unit, so 2500 means 2 500 FCFA.
type Product struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:100;not null;index" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Price       int64        `gorm:"not null;check:price > 0" json:"price"`
	ImageURL    string       `gorm:"size:500" json:"image_url"`
	Category    string       `gorm:"size:50;not null" json:"category"`
	Available   bool         `gorm:"not null;default:true" json:"available"`
	Brand       Brand        `gorm:"size:30;not null;index" json:"brand"`
	Countries   CountryCodes `gorm:"column:available_in_countries;type:text" json:"available_in_countries"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
