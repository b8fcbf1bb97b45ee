package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chefcode/core/reconcile"
	"chefcode/core/utils"
	"chefcode/feature/inventory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Adapter implements reconcile.Adapter for the inventory collection.
// Matching is by normalized natural key; quantity accumulates on match.
type Adapter struct{}

// NewAdapter creates the inventory merge adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the collection name.
func (a *Adapter) Name() string {
	return "inventory"
}

// Validate checks one incoming record, listing every bad field.
func (a *Adapter) Validate(rec reconcile.Record) error {
	r := rec.(*models.InventoryRecord)

	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name is required")
	}
	if r.Quantity < 0 {
		fields = append(fields, "quantity must be >= 0")
	}
	if r.Price < 0 {
		fields = append(fields, "price must be >= 0")
	}
	if r.ExpiryDate != "" {
		if _, err := time.Parse(models.ExpiryDateLayout, r.ExpiryDate); err != nil {
			fields = append(fields, "expiry_date must be YYYY-MM-DD")
		}
	}

	if len(fields) > 0 {
		return reconcile.NewValidationError(fields...)
	}
	return nil
}

// Key returns the normalized natural key, with defaults applied first so
// "Flour" without a unit and "flour"/"pz" match the same row.
func (a *Adapter) Key(rec reconcile.Record) string {
	r := rec.(*models.InventoryRecord)
	return utils.NormalizeKey(r.Name, r.UnitOrDefault(), r.CategoryOrDefault())
}

// LoadExisting loads all rows matching the given natural keys in one query.
// MySQL gets a locking read so concurrent merges of the same keys serialize;
// SQLite locks the whole database per transaction anyway.
func (a *Adapter) LoadExisting(ctx context.Context, tx *gorm.DB, keys []string) (map[string]reconcile.StoredItem, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []*models.InventoryItem
	if err := q.Where("nat_key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory items: %w", err)
	}

	out := make(map[string]reconcile.StoredItem, len(rows))
	for _, row := range rows {
		out[row.NatKey] = row
	}
	return out, nil
}

// Merge folds one record into an existing row. Quantity accumulates, every
// other attribute is last-write-wins. A raw spelling change on a key field
// is reported as a conflict without rejecting the record.
func (a *Adapter) Merge(rec reconcile.Record, existing reconcile.StoredItem) (reconcile.StoredItem, reconcile.Outcome, error) {
	r := rec.(*models.InventoryRecord)

	if existing == nil {
		item := &models.InventoryItem{
			Name:     strings.TrimSpace(r.Name),
			Unit:     r.UnitOrDefault(),
			Quantity: r.Quantity,
			Category: r.CategoryOrDefault(),
			Price:    r.Price,
		}
		applyHACCP(item, r)
		return item, reconcile.OutcomeInserted, nil
	}

	item := existing.(*models.InventoryItem)
	drift := keyFieldDrift(item, r)

	item.Quantity += r.Quantity
	item.Name = strings.TrimSpace(r.Name)
	item.Unit = r.UnitOrDefault()
	item.Category = r.CategoryOrDefault()
	item.Price = r.Price
	applyHACCP(item, r)

	if drift != "" {
		return item, reconcile.OutcomeMergedQuantity, &reconcile.ConflictError{
			Key:    utils.NormalizeKey(item.Name, item.Unit, item.Category),
			Detail: drift,
		}
	}
	return item, reconcile.OutcomeMergedQuantity, nil
}

// StoredKey recomputes the natural key from a stored row.
func (a *Adapter) StoredKey(item reconcile.StoredItem) string {
	it := item.(*models.InventoryItem)
	return utils.NormalizeKey(it.Name, it.Unit, it.Category)
}

// Insert persists all staged rows in one batch statement.
func (a *Adapter) Insert(ctx context.Context, tx *gorm.DB, rows []reconcile.StoredItem) error {
	items := make([]*models.InventoryItem, len(rows))
	for i, r := range rows {
		items[i] = r.(*models.InventoryItem)
	}
	if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("failed to insert inventory items: %w", err)
	}
	return nil
}

// Update persists one modified row.
func (a *Adapter) Update(ctx context.Context, tx *gorm.DB, row reconcile.StoredItem) error {
	if err := tx.WithContext(ctx).Save(row.(*models.InventoryItem)).Error; err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return nil
}

// applyHACCP carries lot number and expiry date onto the row when present.
// Validation has already guaranteed the date parses.
func applyHACCP(item *models.InventoryItem, r *models.InventoryRecord) {
	if lot := strings.TrimSpace(r.LotNumber); lot != "" {
		item.LotNumber = &lot
	}
	if r.ExpiryDate != "" {
		if d, err := time.Parse(models.ExpiryDateLayout, r.ExpiryDate); err == nil {
			item.ExpiryDate = &d
		}
	}
}

// keyFieldDrift lists raw key-field spellings the incoming record overrides.
// The normalized key is identical, so these are cosmetic contradictions
// ("KG" vs "kg"), surfaced per the second-wins policy.
func keyFieldDrift(item *models.InventoryItem, r *models.InventoryRecord) string {
	var drift []string
	if name := strings.TrimSpace(r.Name); name != item.Name {
		drift = append(drift, fmt.Sprintf("name %q replaced by %q", item.Name, name))
	}
	if unit := r.UnitOrDefault(); unit != item.Unit {
		drift = append(drift, fmt.Sprintf("unit %q replaced by %q", item.Unit, unit))
	}
	if cat := r.CategoryOrDefault(); cat != item.Category {
		drift = append(drift, fmt.Sprintf("category %q replaced by %q", item.Category, cat))
	}
	return strings.Join(drift, "; ")
}
