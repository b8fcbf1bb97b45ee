package task

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chefcode/core/reconcile"
	"chefcode/feature/task/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Adapter implements reconcile.Adapter for the task collection. Matching is
// by id; a known id is fully overwritten, an unknown or missing id becomes a
// new row.
type Adapter struct{}

// NewAdapter creates the task merge adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the collection name.
func (a *Adapter) Name() string {
	return "tasks"
}

// Validate checks one incoming record, listing every bad field.
func (a *Adapter) Validate(rec reconcile.Record) error {
	r := rec.(*models.TaskRecord)

	var fields []string
	if strings.TrimSpace(r.Description) == "" {
		fields = append(fields, "description is required")
	}
	if r.Quantity < 0 {
		fields = append(fields, "quantity must be >= 0")
	}
	if r.Status != "" && !models.ValidStatus(r.Status) {
		fields = append(fields, "status must be one of pending, in-progress, done")
	}

	if len(fields) > 0 {
		return reconcile.NewValidationError(fields...)
	}
	return nil
}

// Key returns the client-supplied id, or "" when the store should assign one.
func (a *Adapter) Key(rec reconcile.Record) string {
	r := rec.(*models.TaskRecord)
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

	var rows []*models.Task
	if err := q.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	out := make(map[string]reconcile.StoredItem, len(rows))
	for _, row := range rows {
		out[strconv.FormatUint(uint64(row.ID), 10)] = row
	}
	return out, nil
}

// Merge folds one record into an existing row: a full overwrite of every
// task field, with defaults applied on insert.
func (a *Adapter) Merge(rec reconcile.Record, existing reconcile.StoredItem) (reconcile.StoredItem, reconcile.Outcome, error) {
	r := rec.(*models.TaskRecord)

	if existing == nil {
		row := &models.Task{
			Description: strings.TrimSpace(r.Description),
			Recipe:      strings.TrimSpace(r.Recipe),
			Quantity:    r.QuantityOrDefault(),
			AssignedTo:  strings.TrimSpace(r.AssignedTo),
			Status:      r.StatusOrDefault(),
		}
		return row, reconcile.OutcomeInserted, nil
	}

	row := existing.(*models.Task)
	row.Description = strings.TrimSpace(r.Description)
	row.Recipe = strings.TrimSpace(r.Recipe)
	row.Quantity = r.QuantityOrDefault()
	row.AssignedTo = strings.TrimSpace(r.AssignedTo)
	row.Status = r.StatusOrDefault()
	return row, reconcile.OutcomeUpdated, nil
}

// StoredKey returns the row's id, known only after insert for new rows.
func (a *Adapter) StoredKey(item reconcile.StoredItem) string {
	return strconv.FormatUint(uint64(item.(*models.Task).ID), 10)
}

// Insert persists all staged rows in one batch statement.
func (a *Adapter) Insert(ctx context.Context, tx *gorm.DB, rows []reconcile.StoredItem) error {
	tasks := make([]*models.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.(*models.Task)
	}
	if err := tx.WithContext(ctx).Create(&tasks).Error; err != nil {
		return fmt.Errorf("failed to insert tasks: %w", err)
	}
	return nil
}

// Update persists one modified row.
func (a *Adapter) Update(ctx context.Context, tx *gorm.DB, row reconcile.StoredItem) error {
	if err := tx.WithContext(ctx).Save(row.(*models.Task)).Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}
