package task

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chefcode/core/reconcile"
	"chefcode/feature/task/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles task operations.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	adapter  *Adapter
	onChange func()
}

// NewService creates a new task service. onChange is called after every
// successful write so the snapshot cache can be invalidated; nil is allowed.
func NewService(db *gorm.DB, logger *zap.Logger, onChange func()) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		adapter:  NewAdapter(),
		onChange: onChange,
	}
}

// Adapter exposes the merge adapter for the sync orchestrator.
func (s *Service) Adapter() *Adapter {
	return s.adapter
}

// Add merges one record through the same path a full sync uses: overwrite
// when the id is known, insert with a fresh id otherwise.
func (s *Service) Add(ctx context.Context, rec *models.TaskRecord) (*models.Task, reconcile.ItemResult, error) {
	var result reconcile.ItemResult

	if err := s.adapter.Validate(rec); err != nil {
		return nil, result, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		plan, err := reconcile.BuildPlan(ctx, tx, s.adapter, []reconcile.Record{rec})
		if err != nil {
			return err
		}
		if err := plan.Apply(ctx, tx); err != nil {
			return err
		}
		result = plan.Results[0]
		return nil
	})
	if err != nil {
		return nil, result, &reconcile.TransactionError{Err: err}
	}
	s.changed()

	id, err := strconv.ParseUint(result.Key, 10, 64)
	if err != nil {
		return nil, result, fmt.Errorf("unexpected result key %q: %w", result.Key, err)
	}
	row, err := s.Get(ctx, uint(id))
	return row, result, err
}

// List returns tasks ordered by creation, newest first, optionally filtered
// by status. The total counts all rows matching the filter.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]models.Task, int64, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, 0, reconcile.NewValidationError("status must be one of pending, in-progress, done")
	}

	base := s.db.WithContext(ctx).Model(&models.Task{})
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var rows []models.Task
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return rows, total, nil
}

// Get returns one task by id.
func (s *Service) Get(ctx context.Context, id uint) (*models.Task, error) {
	var row models.Task
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update applies a partial update to one task.
func (s *Service) Update(ctx context.Context, id uint, upd *models.TaskUpdate) (*models.Task, error) {
	var fields []string
	if upd.Description != nil && strings.TrimSpace(*upd.Description) == "" {
		fields = append(fields, "description must not be empty")
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		fields = append(fields, "quantity must be >= 0")
	}
	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		fields = append(fields, "status must be one of pending, in-progress, done")
	}
	if len(fields) > 0 {
		return nil, reconcile.NewValidationError(fields...)
	}

	var row models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).First(&row, id).Error; err != nil {
			return err
		}

		if upd.Description != nil {
			row.Description = strings.TrimSpace(*upd.Description)
		}
		if upd.Recipe != nil {
			row.Recipe = strings.TrimSpace(*upd.Recipe)
		}
		if upd.Quantity != nil {
			row.Quantity = *upd.Quantity
		}
		if upd.AssignedTo != nil {
			row.AssignedTo = strings.TrimSpace(*upd.AssignedTo)
		}
		if upd.Status != nil {
			row.Status = *upd.Status
		}

		return tx.WithContext(ctx).Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	s.changed()

	return &row, nil
}

// UpdateStatus transitions one task to the given status. Any transition is
// legal, including reopening a done task; the row's updated_at is bumped
// either way.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*models.Task, error) {
	if !models.ValidStatus(status) {
		return nil, reconcile.NewValidationError("status must be one of pending, in-progress, done")
	}

	var row models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).First(&row, id).Error; err != nil {
			return err
		}
		row.Status = status
		return tx.WithContext(ctx).Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	s.changed()

	return &row, nil
}

// Delete removes one task by id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.changed()
	return nil
}

func (s *Service) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
