package syncdata_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"chefcode/core/database"
	"chefcode/core/reconcile"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/syncdata"
	syncmodels "chefcode/feature/syncdata/models"
	"chefcode/feature/task"
	taskmodels "chefcode/feature/task/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invmodels.InventoryItem{},
		&recmodels.Recipe{},
		&taskmodels.Task{},
		&syncmodels.SyncJournal{},
	))
	return db
}

func setupService(t *testing.T) (*gorm.DB, *syncdata.Service) {
	t.Helper()

	db := setupDB(t)
	cache := syncdata.NewSnapshotCache(time.Hour)
	inv := inventory.NewService(db, zap.NewNop(), cache.Invalidate)
	rec := recipe.NewService(db, zap.NewNop(), cache.Invalidate)
	tasks := task.NewService(db, zap.NewNop(), cache.Invalidate)
	return db, syncdata.NewService(db, zap.NewNop(), cache, inv, rec, tasks)
}

func TestSynchronize_MixedCollections(t *testing.T) {
	db, svc := setupService(t)

	resp, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{
			{Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 5},
			{Name: "flour", Unit: "KG", Category: "dry", Quantity: 3},
			{Name: "Butter", Quantity: 2},
		},
		Recipes: []recmodels.RecipeRecord{
			{Name: "Carbonara", Items: []recmodels.Ingredient{{Name: "Eggs", Qty: 4, Unit: "pz"}}},
		},
		Tasks: []taskmodels.TaskRecord{
			{Description: "Chop onions"},
		},
	})
	require.NoError(t, err)

	// One result per record, in request order.
	require.Len(t, resp.Results, 5)
	assert.Equal(t, reconcile.OutcomeInserted, resp.Results[0].Outcome)
	assert.Equal(t, reconcile.OutcomeMergedQuantity, resp.Results[1].Outcome)
	assert.Equal(t, reconcile.OutcomeInserted, resp.Results[2].Outcome)
	assert.Equal(t, "recipes", resp.Results[3].Collection)
	assert.Equal(t, reconcile.OutcomeInserted, resp.Results[3].Outcome)
	assert.NotEmpty(t, resp.Results[3].Key, "server-assigned recipe id must be reported")
	assert.Equal(t, "tasks", resp.Results[4].Collection)
	assert.Equal(t, reconcile.OutcomeInserted, resp.Results[4].Outcome)

	assert.Equal(t, reconcile.Summary{Inserted: 4, Merged: 1}, resp.Summary)

	// The duplicate pair folded into one stored row with the quantities added.
	require.Len(t, resp.Snapshot.Inventory, 2)
	require.Len(t, resp.Snapshot.Recipes, 1)
	require.Len(t, resp.Snapshot.Tasks, 1)
	for _, item := range resp.Snapshot.Inventory {
		switch item.Name {
		case "flour":
			assert.Equal(t, float64(8), item.Quantity)
		case "Butter":
			assert.Equal(t, float64(2), item.Quantity)
		default:
			t.Fatalf("unexpected inventory row %q", item.Name)
		}
	}

	var journal []syncmodels.SyncJournal
	require.NoError(t, db.Find(&journal).Error)
	require.Len(t, journal, 1)
	assert.Equal(t, syncmodels.DataTypeFullSync, journal[0].DataType)

	var content map[string]any
	require.NoError(t, json.Unmarshal([]byte(journal[0].Content), &content))
	assert.EqualValues(t, 3, content["inventory"])
	assert.EqualValues(t, 1, content["recipes"])
	assert.EqualValues(t, 1, content["tasks"])
	assert.EqualValues(t, 1, content["merged"])
}

func TestSynchronize_Idempotence(t *testing.T) {
	db, svc := setupService(t)

	first, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{{Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 5}},
		Recipes:   []recmodels.RecipeRecord{{Name: "Carbonara"}},
		Tasks:     []taskmodels.TaskRecord{{Description: "Chop onions"}},
	})
	require.NoError(t, err)
	require.Len(t, first.Snapshot.Recipes, 1)
	require.Len(t, first.Snapshot.Tasks, 1)

	recipeID := first.Snapshot.Recipes[0].ID
	taskID := first.Snapshot.Tasks[0].ID

	// The client replays its snapshot, now carrying the server ids.
	second, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{{Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 5}},
		Recipes:   []recmodels.RecipeRecord{{ID: recipeID, Name: "Carbonara"}},
		Tasks:     []taskmodels.TaskRecord{{ID: taskID, Description: "Chop onions"}},
	})
	require.NoError(t, err)

	// A repeated non-zero quantity is a fresh delta and accumulates again.
	assert.Equal(t, reconcile.OutcomeMergedQuantity, second.Results[0].Outcome)
	require.Len(t, second.Snapshot.Inventory, 1)
	assert.Equal(t, float64(10), second.Snapshot.Inventory[0].Quantity)

	// Id-keyed collections stay put: same rows, updated in place.
	assert.Equal(t, reconcile.OutcomeUpdated, second.Results[1].Outcome)
	assert.Equal(t, reconcile.OutcomeUpdated, second.Results[2].Outcome)
	require.Len(t, second.Snapshot.Recipes, 1)
	assert.Equal(t, recipeID, second.Snapshot.Recipes[0].ID)
	require.Len(t, second.Snapshot.Tasks, 1)
	assert.Equal(t, taskID, second.Snapshot.Tasks[0].ID)

	var counts struct{ Items, Recipes, Tasks int64 }
	db.Model(&invmodels.InventoryItem{}).Count(&counts.Items)
	db.Model(&recmodels.Recipe{}).Count(&counts.Recipes)
	db.Model(&taskmodels.Task{}).Count(&counts.Tasks)
	assert.Equal(t, int64(1), counts.Items)
	assert.Equal(t, int64(1), counts.Recipes)
	assert.Equal(t, int64(1), counts.Tasks)

	// A zero-quantity resubmission merges a zero delta.
	third, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{{Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeMergedQuantity, third.Results[0].Outcome)
	assert.Equal(t, float64(10), third.Snapshot.Inventory[0].Quantity)
}

func TestSynchronize_PartialFailure(t *testing.T) {
	db, svc := setupService(t)

	resp, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{
			{Name: "Flour", Quantity: 5},
			{Name: "Sugar", Quantity: -1},
			{Name: "Butter", Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, reconcile.OutcomeInserted, resp.Results[0].Outcome)
	assert.Equal(t, reconcile.OutcomeRejected, resp.Results[1].Outcome)
	assert.Contains(t, resp.Results[1].Reason, "quantity must be >= 0")
	assert.Equal(t, reconcile.OutcomeInserted, resp.Results[2].Outcome)
	assert.Equal(t, reconcile.Summary{Inserted: 2, Rejected: 1}, resp.Summary)

	// The good records persisted despite the rejection.
	var count int64
	db.Model(&invmodels.InventoryItem{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSynchronize_AtomicRollback(t *testing.T) {
	db, svc := setupService(t)

	_, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{{Name: "Salt", Quantity: 1}},
	})
	require.NoError(t, err)

	// Dropping the journal table makes the final write of the transaction
	// fail, forcing a rollback of everything staged before it.
	require.NoError(t, db.Migrator().DropTable(&syncmodels.SyncJournal{}))

	resp, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{{Name: "Flour", Quantity: 5}},
		Recipes:   []recmodels.RecipeRecord{{Name: "Carbonara"}},
		Tasks:     []taskmodels.TaskRecord{{Description: "Chop onions"}},
	})

	var txErr *reconcile.TransactionError
	require.ErrorAs(t, err, &txErr)

	require.NotNil(t, resp)
	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.Equal(t, reconcile.OutcomeFailed, r.Outcome)
		assert.Contains(t, r.Reason, "transaction aborted")
	}

	// Nothing from the aborted call is visible; prior state survives.
	var counts struct{ Items, Recipes, Tasks int64 }
	db.Model(&invmodels.InventoryItem{}).Count(&counts.Items)
	db.Model(&recmodels.Recipe{}).Count(&counts.Recipes)
	db.Model(&taskmodels.Task{}).Count(&counts.Tasks)
	assert.Equal(t, int64(1), counts.Items)
	assert.Equal(t, int64(0), counts.Recipes)
	assert.Equal(t, int64(0), counts.Tasks)
}

func TestSynchronize_EmptySnapshot(t *testing.T) {
	db, svc := setupService(t)

	resp, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, reconcile.Summary{}, resp.Summary)

	// The call itself is still journaled.
	var count int64
	db.Model(&syncmodels.SyncJournal{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCachedSnapshotInvalidatedBySync(t *testing.T) {
	_, svc := setupService(t)

	before, err := svc.CachedSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, before.Inventory)

	_, err = svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{{Name: "Flour", Quantity: 5}},
	})
	require.NoError(t, err)

	after, err := svc.CachedSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, after.Inventory, 1)
	assert.Equal(t, "Flour", after.Inventory[0].Name)
}

func TestListJournal(t *testing.T) {
	_, svc := setupService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{})
		require.NoError(t, err)
	}

	rows, err := svc.ListJournal(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.GreaterOrEqual(t, rows[0].ID, rows[1].ID, "newest first")
}
