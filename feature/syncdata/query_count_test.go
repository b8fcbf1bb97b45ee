package syncdata_test

import (
	"context"
	"testing"
	"time"

	"chefcode/core/reconcile"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	"chefcode/feature/syncdata"
	"chefcode/feature/task"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// A batch of N fresh inventory items must cost one locking SELECT and one
// batch INSERT, plus the journal row, no matter what N is. Ordered sqlmock
// expectations fail the test on any extra round trip.
func TestSynchronize_BatchStatements(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	cache := syncdata.NewSnapshotCache(time.Hour)
	inv := inventory.NewService(gormDB, zap.NewNop(), cache.Invalidate)
	rec := recipe.NewService(gormDB, zap.NewNop(), cache.Invalidate)
	tasks := task.NewService(gormDB, zap.NewNop(), cache.Invalidate)
	svc := syncdata.NewService(gormDB, zap.NewNop(), cache, inv, rec, tasks)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `inventory_items` WHERE nat_key IN \\(\\?,\\?,\\?\\).*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `inventory_items`").
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectExec("INSERT INTO `sync_journals`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Post-commit snapshot rebuild: one SELECT per collection.
	mock.ExpectQuery("SELECT \\* FROM `inventory_items` ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT \\* FROM `recipes` ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT \\* FROM `tasks` ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	resp, err := svc.Synchronize(context.Background(), &syncdata.SyncRequest{
		Inventory: []invmodels.InventoryRecord{
			{Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 5},
			{Name: "Sugar", Unit: "kg", Category: "Dry", Quantity: 2},
			{Name: "Butter", Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.Equal(t, reconcile.OutcomeInserted, r.Outcome)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
