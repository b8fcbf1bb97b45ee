package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chefcode/core/reconcile"
	"chefcode/feature/recipe/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles recipe operations.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	adapter  *Adapter
	onChange func()
}

// NewService creates a new recipe service. onChange is called after every
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

// Save merges one record through the same path a full sync uses: overwrite
// when the id is known, insert with a fresh id otherwise.
func (s *Service) Save(ctx context.Context, rec *models.RecipeRecord) (*models.Recipe, reconcile.ItemResult, error) {
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

// List returns recipes ordered by name, with the unpaginated total.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.RecipeView, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	q := s.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var rows []models.Recipe
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	views := make([]models.RecipeView, len(rows))
	for i := range rows {
		views[i] = rows[i].View()
	}
	return views, total, nil
}

// Get returns one recipe by id.
func (s *Service) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var row models.Recipe
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByName returns the recipe with the given name, matched
// case-insensitively, or gorm.ErrRecordNotFound.
func (s *Service) FindByName(ctx context.Context, name string) (*models.Recipe, error) {
	var row models.Recipe
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert persists a fully formed recipe row. The web-recipe flow uses this
// to carry metadata columns that records do not have.
func (s *Service) Insert(ctx context.Context, row *models.Recipe) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	s.changed()
	return nil
}

// Update applies a partial update to one recipe.
func (s *Service) Update(ctx context.Context, id uint, upd *models.RecipeUpdate) (*models.Recipe, error) {
	var fields []string
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		fields = append(fields, "name must not be empty")
	}
	if upd.Items != nil {
		for i, ing := range *upd.Items {
			if strings.TrimSpace(ing.Name) == "" {
				fields = append(fields, fmt.Sprintf("items[%d].name is required", i))
			}
			if ing.Qty < 0 {
				fields = append(fields, fmt.Sprintf("items[%d].qty must be >= 0", i))
			}
		}
	}
	if len(fields) > 0 {
		return nil, reconcile.NewValidationError(fields...)
	}

	var row models.Recipe
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).First(&row, id).Error; err != nil {
			return err
		}

		if upd.Name != nil {
			row.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Items != nil {
			if err := row.SetItems(*upd.Items); err != nil {
				return err
			}
		}
		if upd.Instructions != nil {
			row.Instructions = *upd.Instructions
		}
		if upd.YieldQty != nil {
			row.YieldQty = *upd.YieldQty
		}
		if upd.YieldUnit != nil {
			row.YieldUnit = *upd.YieldUnit
		}

		return tx.WithContext(ctx).Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	s.changed()

	return &row, nil
}

// Delete removes one recipe by id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
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
