package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chefcode/core/reconcile"
	"chefcode/core/utils"
	"chefcode/feature/inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles inventory operations.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	adapter  *Adapter
	onChange func()
}

// NewService creates a new inventory service. onChange is called after every
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

// AddItem merges one record through the same path a full sync uses: insert
// when the natural key is new, accumulate quantity when it matches.
func (s *Service) AddItem(ctx context.Context, rec *models.InventoryRecord) (*models.InventoryItem, reconcile.ItemResult, error) {
	var result reconcile.ItemResult

	if err := s.adapter.Validate(rec); err != nil {
		return nil, result, err
	}

	key := s.adapter.Key(rec)
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

	var item models.InventoryItem
	if err := s.db.WithContext(ctx).Where("nat_key = ?", key).First(&item).Error; err != nil {
		return nil, result, fmt.Errorf("failed to reload merged item: %w", err)
	}
	return &item, result, nil
}

// List returns items ordered by name, with the unpaginated total.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.InventoryItem, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.InventoryItem{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	q := s.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, total, nil
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial update to one item. Changing name/unit/category
// onto another row's natural key is a conflict.
func (s *Service) Update(ctx context.Context, id uint, upd *models.InventoryUpdate) (*models.InventoryItem, error) {
	var fields []string
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		fields = append(fields, "name must not be empty")
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		fields = append(fields, "quantity must be >= 0")
	}
	if upd.Price != nil && *upd.Price < 0 {
		fields = append(fields, "price must be >= 0")
	}
	var expiry *time.Time
	if upd.ExpiryDate != nil && *upd.ExpiryDate != "" {
		d, err := time.Parse(models.ExpiryDateLayout, *upd.ExpiryDate)
		if err != nil {
			fields = append(fields, "expiry_date must be YYYY-MM-DD")
		} else {
			expiry = &d
		}
	}
	if len(fields) > 0 {
		return nil, reconcile.NewValidationError(fields...)
	}

	var item models.InventoryItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).First(&item, id).Error; err != nil {
			return err
		}

		if upd.Name != nil {
			item.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Unit != nil {
			item.Unit = *upd.Unit
		}
		if upd.Quantity != nil {
			item.Quantity = *upd.Quantity
		}
		if upd.Category != nil {
			item.Category = *upd.Category
		}
		if upd.Price != nil {
			item.Price = *upd.Price
		}
		if upd.LotNumber != nil {
			item.LotNumber = upd.LotNumber
		}
		if expiry != nil {
			item.ExpiryDate = expiry
		}

		// Two rows never share a natural key. Surface the conflict
		// before the unique index does.
		newKey := utils.NormalizeKey(item.Name, item.Unit, item.Category)
		if newKey != item.NatKey {
			var count int64
			if err := tx.WithContext(ctx).Model(&models.InventoryItem{}).
				Where("nat_key = ? AND id <> ?", newKey, item.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &reconcile.ConflictError{
					Key:    newKey,
					Detail: "another item already has this name/unit/category",
				}
			}
		}

		return tx.WithContext(ctx).Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	s.changed()

	return &item, nil
}

// Delete removes one item by id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete inventory item: %w", res.Error)
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
