package syncdata

import (
	"context"
	"encoding/json"
	"fmt"

	"chefcode/core/reconcile"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/syncdata/models"
	"chefcode/feature/task"
	taskmodels "chefcode/feature/task/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service orchestrates full snapshot syncs across the three collections.
type Service struct {
	db        *gorm.DB
	logger    *zap.Logger
	cache     *SnapshotCache
	inventory *inventory.Service
	recipes   *recipe.Service
	tasks     *task.Service
}

// NewService creates the sync orchestrator over the collection services.
func NewService(db *gorm.DB, logger *zap.Logger, cache *SnapshotCache, inv *inventory.Service, rec *recipe.Service, tasks *task.Service) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		cache:     cache,
		inventory: inv,
		recipes:   rec,
		tasks:     tasks,
	}
}

// journalContent is the JSON shape stored in a SyncJournal row.
type journalContent struct {
	Inventory int `json:"inventory"`
	Recipes   int `json:"recipes"`
	Tasks     int `json:"tasks"`
	reconcile.Summary
}

// Synchronize merges a full client snapshot in one transaction: one plan per
// collection, all applied together, then a journal row. Rejected records are
// reported but never abort the batch; a transaction abort reports every
// record failed and persists nothing. On success the snapshot cache is
// rebuilt and the response carries the post-merge state.
func (s *Service) Synchronize(ctx context.Context, req *SyncRequest) (*SyncResponse, error) {
	invRecords := make([]reconcile.Record, len(req.Inventory))
	for i := range req.Inventory {
		invRecords[i] = &req.Inventory[i]
	}
	recRecords := make([]reconcile.Record, len(req.Recipes))
	for i := range req.Recipes {
		recRecords[i] = &req.Recipes[i]
	}
	taskRecords := make([]reconcile.Record, len(req.Tasks))
	for i := range req.Tasks {
		taskRecords[i] = &req.Tasks[i]
	}

	results := make([]reconcile.ItemResult, 0, req.Size())
	err := s.db.Transaction(func(tx *gorm.DB) error {
		invPlan, err := reconcile.BuildPlan(ctx, tx, s.inventory.Adapter(), invRecords)
		if err != nil {
			return err
		}
		recPlan, err := reconcile.BuildPlan(ctx, tx, s.recipes.Adapter(), recRecords)
		if err != nil {
			return err
		}
		taskPlan, err := reconcile.BuildPlan(ctx, tx, s.tasks.Adapter(), taskRecords)
		if err != nil {
			return err
		}

		for _, plan := range []*reconcile.Plan{invPlan, recPlan, taskPlan} {
			if err := plan.Apply(ctx, tx); err != nil {
				return err
			}
		}

		// Keys the database assigned are visible only after Apply.
		results = append(results, invPlan.Results...)
		results = append(results, recPlan.Results...)
		results = append(results, taskPlan.Results...)

		return s.appendJournal(ctx, tx, req, results)
	})
	if err != nil {
		txErr := &reconcile.TransactionError{Err: err}
		s.logger.Error("synchronize aborted", zap.Error(err))
		return &SyncResponse{Results: s.failedResults(req, txErr.Error())}, txErr
	}

	s.cache.Invalidate()
	snap, err := s.CachedSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &SyncResponse{
		Snapshot: *snap,
		Results:  results,
		Summary:  reconcile.Summarize(results),
	}, nil
}

// appendJournal records the call in the same transaction as its writes.
func (s *Service) appendJournal(ctx context.Context, tx *gorm.DB, req *SyncRequest, results []reconcile.ItemResult) error {
	content, err := json.Marshal(journalContent{
		Inventory: len(req.Inventory),
		Recipes:   len(req.Recipes),
		Tasks:     len(req.Tasks),
		Summary:   reconcile.Summarize(results),
	})
	if err != nil {
		return fmt.Errorf("failed to encode journal content: %w", err)
	}

	row := models.SyncJournal{
		DataType: models.DataTypeFullSync,
		Content:  string(content),
	}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append sync journal: %w", err)
	}
	return nil
}

// failedResults reports every record of the request as failed, in request
// order, with the transaction reason.
func (s *Service) failedResults(req *SyncRequest, reason string) []reconcile.ItemResult {
	results := make([]reconcile.ItemResult, 0, req.Size())
	for i := range req.Inventory {
		results = append(results, reconcile.ItemResult{
			Collection: s.inventory.Adapter().Name(),
			Key:        s.inventory.Adapter().Key(&req.Inventory[i]),
		})
	}
	for i := range req.Recipes {
		results = append(results, reconcile.ItemResult{
			Collection: s.recipes.Adapter().Name(),
			Key:        s.recipes.Adapter().Key(&req.Recipes[i]),
		})
	}
	for i := range req.Tasks {
		results = append(results, reconcile.ItemResult{
			Collection: s.tasks.Adapter().Name(),
			Key:        s.tasks.Adapter().Key(&req.Tasks[i]),
		})
	}
	return reconcile.FailAll(results, reason)
}

// BuildSnapshot reads the current state of all three collections.
func (s *Service) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	var items []invmodels.InventoryItem
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}

	var recipeRows []recmodels.Recipe
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&recipeRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe snapshot: %w", err)
	}
	views := make([]recmodels.RecipeView, len(recipeRows))
	for i := range recipeRows {
		views[i] = recipeRows[i].View()
	}

	var taskRows []taskmodels.Task
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&taskRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load task snapshot: %w", err)
	}

	return &Snapshot{
		Inventory: items,
		Recipes:   views,
		Tasks:     taskRows,
	}, nil
}

// CachedSnapshot serves the snapshot through the TTL cache.
func (s *Service) CachedSnapshot(ctx context.Context) (*Snapshot, error) {
	return s.cache.Get(ctx, s.BuildSnapshot)
}

// ListJournal returns the most recent synchronization journal rows.
func (s *Service) ListJournal(ctx context.Context, limit int) ([]models.SyncJournal, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []models.SyncJournal
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync journal: %w", err)
	}
	return rows, nil
}
