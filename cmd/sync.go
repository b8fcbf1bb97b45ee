package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"chefcode/core/config"
	"chefcode/core/database"
	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/syncdata"
	syncmodels "chefcode/feature/syncdata/models"
	"chefcode/feature/task"
	taskmodels "chefcode/feature/task/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	syncFile   string
	syncDryRun bool
)

// errDryRun rolls the planning transaction back without reporting a failure.
var errDryRun = errors.New("dry run, rolling back")

// syncCmd merges a snapshot file through the sync engine.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge a client snapshot file into the store",
	Long: `Reads a snapshot JSON file ({"inventory": [...], "recipes": [...],
"tasks": [...]}) and merges it through the same engine the /api/sync-data
endpoint uses, printing a per-item outcome report.

Examples:
  # Merge a snapshot
  chefcode sync --file snapshot.json

  # Plan and report without persisting anything
  chefcode sync --file snapshot.json --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFile, "file", "", "Path to the snapshot JSON file (required)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan and report without persisting")
	_ = syncCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	raw, err := os.ReadFile(syncFile)
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var req syncdata.SyncRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("snapshot file is not valid JSON: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&invmodels.InventoryItem{},
		&recmodels.Recipe{},
		&syncmodels.SyncJournal{},
		&taskmodels.Task{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	l.Info("Merging snapshot",
		zap.String("file", syncFile),
		zap.Int("inventory", len(req.Inventory)),
		zap.Int("recipes", len(req.Recipes)),
		zap.Int("tasks", len(req.Tasks)),
		zap.Bool("dry_run", syncDryRun),
	)

	if syncDryRun {
		results, err := planSnapshot(ctx, db, &req)
		if err != nil {
			return err
		}
		printSyncReport(l, results)
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	svc := syncdata.NewService(db, l, syncdata.NewSnapshotCache(0),
		inventory.NewService(db, l, nil),
		recipe.NewService(db, l, nil),
		task.NewService(db, l, nil),
	)

	resp, err := svc.Synchronize(ctx, &req)
	if resp != nil {
		printSyncReport(l, resp.Results)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// planSnapshot stages every collection inside a transaction that always
// rolls back, so the report shows what a real run would do.
func planSnapshot(ctx context.Context, db *gorm.DB, req *syncdata.SyncRequest) ([]reconcile.ItemResult, error) {
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

	var results []reconcile.ItemResult
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, batch := range []struct {
			adapter reconcile.Adapter
			records []reconcile.Record
		}{
			{inventory.NewAdapter(), invRecords},
			{recipe.NewAdapter(), recRecords},
			{task.NewAdapter(), taskRecords},
		} {
			plan, err := reconcile.BuildPlan(ctx, tx, batch.adapter, batch.records)
			if err != nil {
				return err
			}
			results = append(results, plan.Results...)
		}
		return errDryRun
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, fmt.Errorf("failed to plan sync: %w", err)
	}
	return results, nil
}

// printSyncReport prints outcome counts and every record that needs attention.
func printSyncReport(l *zap.Logger, results []reconcile.ItemResult) {
	summary := reconcile.Summarize(results)

	l.Info("Sync report",
		zap.Int("total", len(results)),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("merged", summary.Merged),
		zap.Int("rejected", summary.Rejected),
	)

	for _, r := range results {
		if r.Reason == "" {
			continue
		}
		l.Warn("Item needs attention",
			zap.String("collection", r.Collection),
			zap.String("key", r.Key),
			zap.String("outcome", string(r.Outcome)),
			zap.String("reason", r.Reason),
		)
	}
}
