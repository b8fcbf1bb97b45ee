package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"chefcode/core/database"
	"chefcode/core/utils"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/syncdata"
	syncmodels "chefcode/feature/syncdata/models"
	"chefcode/feature/task"
	taskmodels "chefcode/feature/task/models"

	"go.uber.org/zap"
)

// Manual check of the sync engine against a scratch database. Covers the
// behaviors that are annoying to verify through the HTTP surface: natural
// key folding, quantity accumulation, id-upsert idempotence, and the
// dispatcher's single-item path.
func main() {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(
		&invmodels.InventoryItem{},
		&recmodels.Recipe{},
		&syncmodels.SyncJournal{},
		&taskmodels.Task{},
	); err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	svc := syncdata.NewService(db, logger, syncdata.NewSnapshotCache(0),
		inventory.NewService(db, logger, nil),
		recipe.NewService(db, logger, nil),
		task.NewService(db, logger, nil),
	)
	ctx := context.Background()

	// Test 1: natural key folding across case variants.
	fmt.Println("=== TEST 1: Natural Key Merge ===")
	first, err := svc.Synchronize(ctx, &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{
			{Name: "Debug Flour", Unit: "KG", Quantity: 5, Category: "Grains"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("first sync: outcome=%s key=%s\n", first.Results[0].Outcome, first.Results[0].Key)

	second, err := svc.Synchronize(ctx, &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{
			{Name: "debug flour", Unit: "kg", Quantity: 3, Category: "Grains"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("second sync: outcome=%s (want merged-quantity)\n", second.Results[0].Outcome)

	var item invmodels.InventoryItem
	natKey := utils.NormalizeKey("Debug Flour", "kg", "Grains")
	if err := db.Where("nat_key = ?", natKey).First(&item).Error; err != nil {
		log.Fatal(err)
	}
	fmt.Printf("quantity after both syncs: %v (want 8)\n", item.Quantity)

	// Test 2: id-keyed upsert idempotence.
	fmt.Println("\n=== TEST 2: Task Upsert ===")
	taskResp, err := svc.Synchronize(ctx, &syncdata.SyncRequest{
		Tasks: []taskmodels.TaskRecord{{Description: "Debug prep", Status: "pending"}},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("insert: outcome=%s key=%s\n", taskResp.Results[0].Outcome, taskResp.Results[0].Key)

	taskID, err := strconv.ParseUint(taskResp.Results[0].Key, 10, 64)
	if err != nil {
		log.Fatal(err)
	}
	taskResp, err = svc.Synchronize(ctx, &syncdata.SyncRequest{
		Tasks: []taskmodels.TaskRecord{{ID: uint(taskID), Description: "Debug prep", Status: "done"}},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("resync: outcome=%s (want updated)\n", taskResp.Results[0].Outcome)

	var taskCount int64
	db.Model(&taskmodels.Task{}).Count(&taskCount)
	fmt.Printf("task rows: %d (want 1)\n", taskCount)

	// Test 3: dispatcher single-item path.
	fmt.Println("\n=== TEST 3: Dispatcher ===")
	dispatcher := syncdata.NewDispatcher(svc)
	payload, _ := json.Marshal(invmodels.InventoryRecord{
		Name: "DEBUG FLOUR", Unit: "kg", Quantity: 2, Category: "Grains",
	})
	action, err := dispatcher.Dispatch(ctx, &syncdata.ActionRequest{
		Action: syncdata.ActionAddInventory,
		Data:   payload,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("dispatch: outcome=%s (want merged-quantity)\n", action.Outcome)

	if err := db.Where("nat_key = ?", natKey).First(&item).Error; err != nil {
		log.Fatal(err)
	}
	fmt.Printf("quantity after dispatch: %v (want 10)\n", item.Quantity)

	// Test 4: snapshot and journal state.
	fmt.Println("\n=== TEST 4: Snapshot ===")
	snap, err := svc.CachedSnapshot(ctx)
	if err != nil {
		log.Fatal(err)
	}

	var journalCount int64
	db.Model(&syncmodels.SyncJournal{}).Count(&journalCount)

	output := map[string]interface{}{
		"inventory_count": len(snap.Inventory),
		"recipe_count":    len(snap.Recipes),
		"task_count":      len(snap.Tasks),
		"journal_rows":    journalCount,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	os.WriteFile("debug_sync.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_sync.json for details.")
}
