package models

import (
	"strings"
	"time"

	"chefcode/core/utils"

	"gorm.io/gorm"
)

// Defaults applied when a record omits the field.
const (
	DefaultUnit     = "pz"
	DefaultCategory = "Other"
)

// ExpiryDateLayout is the wire format for expiry dates.
const ExpiryDateLayout = "2006-01-02"

// InventoryItem is a persisted inventory row.
//
// NatKey is the normalized natural key over (name, unit, category); the
// unique index enforces that two rows sharing the natural key never coexist.
type InventoryItem struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Unit       string     `gorm:"size:50" json:"unit"`
	Quantity   float64    `json:"quantity"`
	Category   string     `gorm:"size:100" json:"category"`
	Price      float64    `json:"price"`
	LotNumber  *string    `gorm:"size:100" json:"lot_number,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	NatKey     string     `gorm:"size:300;uniqueIndex" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeSave maintains the natural key column.
func (i *InventoryItem) BeforeSave(tx *gorm.DB) error {
	i.NatKey = utils.NormalizeKey(i.Name, i.Unit, i.Category)
	return nil
}

// InventoryRecord is one incoming inventory line in client shape, as carried
// by snapshots, actions, and invoice imports.
type InventoryRecord struct {
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	LotNumber  string  `json:"lot_number,omitempty"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
}

// UnitOrDefault returns the unit, falling back to DefaultUnit.
func (r InventoryRecord) UnitOrDefault() string {
	if u := strings.TrimSpace(r.Unit); u != "" {
		return u
	}
	return DefaultUnit
}

// CategoryOrDefault returns the category, falling back to DefaultCategory.
func (r InventoryRecord) CategoryOrDefault() string {
	if c := strings.TrimSpace(r.Category); c != "" {
		return c
	}
	return DefaultCategory
}

// InventoryUpdate carries a partial update; nil fields are left untouched.
type InventoryUpdate struct {
	Name       *string  `json:"name"`
	Unit       *string  `json:"unit"`
	Quantity   *float64 `json:"quantity"`
	Category   *string  `json:"category"`
	Price      *float64 `json:"price"`
	LotNumber  *string  `json:"lot_number"`
	ExpiryDate *string  `json:"expiry_date"`
}
