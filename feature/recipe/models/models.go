package models

import (
	"encoding/json"
	"time"
)

// Ingredient is one ordered entry of a recipe's ingredient list.
type Ingredient struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
}

// Recipe is a persisted recipe row. Items holds the ordered ingredient list
// as JSON text; the web-recipe columns are only written by the web-recipe
// flow and survive snapshot syncs untouched.
type Recipe struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Items             string    `gorm:"type:text" json:"-"`
	Instructions      string    `gorm:"type:text" json:"instructions"`
	YieldQty          float64   `json:"yield_qty"`
	YieldUnit         string    `gorm:"size:50" json:"yield_unit"`
	SourceURL         string    `gorm:"size:512" json:"source_url,omitempty"`
	ImageURL          string    `gorm:"size:512" json:"image_url,omitempty"`
	Cuisine           string    `gorm:"size:100" json:"cuisine,omitempty"`
	IngredientsRaw    string    `gorm:"type:text" json:"-"`
	IngredientsMapped string    `gorm:"type:text" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ItemList parses the stored ingredient list, preserving order.
func (r *Recipe) ItemList() []Ingredient {
	if r.Items == "" {
		return []Ingredient{}
	}
	var items []Ingredient
	if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
		return []Ingredient{}
	}
	return items
}

// SetItems stores the ingredient list as JSON text, preserving order.
func (r *Recipe) SetItems(items []Ingredient) error {
	if items == nil {
		items = []Ingredient{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Items = string(data)
	return nil
}

// View returns the wire shape with the ingredient list parsed.
func (r *Recipe) View() RecipeView {
	return RecipeView{
		ID:           r.ID,
		Name:         r.Name,
		Items:        r.ItemList(),
		Instructions: r.Instructions,
		YieldQty:     r.YieldQty,
		YieldUnit:    r.YieldUnit,
		SourceURL:    r.SourceURL,
		ImageURL:     r.ImageURL,
		Cuisine:      r.Cuisine,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// RecipeView is the wire shape of a recipe.
type RecipeView struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Items        []Ingredient `json:"items"`
	Instructions string       `json:"instructions"`
	YieldQty     float64      `json:"yield_qty,omitempty"`
	YieldUnit    string       `json:"yield_unit,omitempty"`
	SourceURL    string       `json:"source_url,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	Cuisine      string       `json:"cuisine,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// RecipeRecord is one incoming recipe in client shape. A zero ID means the
// store assigns one.
type RecipeRecord struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Items        []Ingredient `json:"items"`
	Instructions string       `json:"instructions"`
	YieldQty     float64      `json:"yield_qty"`
	YieldUnit    string       `json:"yield_unit"`
}

// RecipeUpdate carries a partial update; nil fields are left untouched.
type RecipeUpdate struct {
	Name         *string       `json:"name"`
	Items        *[]Ingredient `json:"items"`
	Instructions *string       `json:"instructions"`
	YieldQty     *float64      `json:"yield_qty"`
	YieldUnit    *string       `json:"yield_unit"`
}
