package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chefcode/core/reconcile"
	"chefcode/feature/recipe/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Adapter implements reconcile.Adapter for the recipe collection.
// Matching is by id; a known id is fully overwritten, an unknown or missing
// id becomes a new row.
type Adapter struct{}

// NewAdapter creates the recipe merge adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the collection name.
func (a *Adapter) Name() string {
	return "recipes"
}

// Validate checks one incoming record, listing every bad field.
func (a *Adapter) Validate(rec reconcile.Record) error {
	r := rec.(*models.RecipeRecord)

	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name is required")
	}
	for i, ing := range r.Items {
		if strings.TrimSpace(ing.Name) == "" {
			fields = append(fields, fmt.Sprintf("items[%d].name is required", i))
		}
		if ing.Qty < 0 {
			fields = append(fields, fmt.Sprintf("items[%d].qty must be >= 0", i))
		}
	}

	if len(fields) > 0 {
		return reconcile.NewValidationError(fields...)
	}
	return nil
}

// Key returns the client-supplied id, or "" when the store should assign one.
func (a *Adapter) Key(rec reconcile.Record) string {
	r := rec.(*models.RecipeRecord)
	if r.ID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(r.ID), 10)
}

// LoadExisting loads all rows matching the given ids in one query.
func (a *Adapter) LoadExisting(ctx context.Context, tx *gorm.DB, keys []string) (map[string]reconcile.StoredItem, error) {
	ids := make([]uint, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []*models.Recipe
	if err := q.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	out := make(map[string]reconcile.StoredItem, len(rows))
	for _, row := range rows {
		out[strconv.FormatUint(uint64(row.ID), 10)] = row
	}
	return out, nil
}

// Merge folds one record into an existing row: a full overwrite of name,
// ingredient list, instructions, and yield. Web-recipe metadata columns are
// not carried by records and stay as they are.
func (a *Adapter) Merge(rec reconcile.Record, existing reconcile.StoredItem) (reconcile.StoredItem, reconcile.Outcome, error) {
	r := rec.(*models.RecipeRecord)

	if existing == nil {
		row := &models.Recipe{
			Name:         strings.TrimSpace(r.Name),
			Instructions: r.Instructions,
			YieldQty:     r.YieldQty,
			YieldUnit:    r.YieldUnit,
		}
		if err := row.SetItems(r.Items); err != nil {
			return nil, reconcile.OutcomeRejected, reconcile.NewValidationError("items are not serializable")
		}
		return row, reconcile.OutcomeInserted, nil
	}

	row := existing.(*models.Recipe)
	row.Name = strings.TrimSpace(r.Name)
	row.Instructions = r.Instructions
	row.YieldQty = r.YieldQty
	row.YieldUnit = r.YieldUnit
	if err := row.SetItems(r.Items); err != nil {
		return nil, reconcile.OutcomeRejected, reconcile.NewValidationError("items are not serializable")
	}
	return row, reconcile.OutcomeUpdated, nil
}

// StoredKey returns the row's id, known only after insert for new rows.
func (a *Adapter) StoredKey(item reconcile.StoredItem) string {
	return strconv.FormatUint(uint64(item.(*models.Recipe).ID), 10)
}

// Insert persists all staged rows in one batch statement.
func (a *Adapter) Insert(ctx context.Context, tx *gorm.DB, rows []reconcile.StoredItem) error {
	recipes := make([]*models.Recipe, len(rows))
	for i, r := range rows {
		recipes[i] = r.(*models.Recipe)
	}
	if err := tx.WithContext(ctx).Create(&recipes).Error; err != nil {
		return fmt.Errorf("failed to insert recipes: %w", err)
	}
	return nil
}

// Update persists one modified row.
func (a *Adapter) Update(ctx context.Context, tx *gorm.DB, row reconcile.StoredItem) error {
	if err := tx.WithContext(ctx).Save(row.(*models.Recipe)).Error; err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return nil
}
