package integrity

import (
	"context"
	"testing"

	"chefcode/core/database"
	"chefcode/core/storage/mocks"
	invmodels "chefcode/feature/inventory/models"
	recmodels "chefcode/feature/recipe/models"
	syncmodels "chefcode/feature/syncdata/models"
	taskmodels "chefcode/feature/task/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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
		&syncmodels.SyncJournal{},
		&taskmodels.Task{},
	))
	return db
}

func closedObjects() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_Storage(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(nil, mockClient, "test-bucket", zap.NewNop())

	t.Run("CheckStorage", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		// One ListObjects call per required prefix, none of them populated.
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(closedObjects())

		report, err := svc.CheckStorage(context.Background())
		require.NoError(t, err)
		assert.True(t, report.BucketExists)
		assert.NotEmpty(t, report.MissingPrefixes)
	})

	t.Run("FixStorage", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "invoices/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		report, err := svc.CheckStorage(context.Background())
		require.NoError(t, err)
		require.NoError(t, svc.FixStorage(context.Background(), report))
		mockClient.AssertExpectations(t)
	})
}

func TestService_Database(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&invmodels.InventoryItem{Name: "Flour", Unit: "kg", Quantity: 5}).Error)

	svc := NewService(db, new(mocks.Client), "test-bucket", zap.NewNop())

	report, err := svc.CheckDatabase()
	require.NoError(t, err)

	assert.True(t, report.Matched)
	assert.Empty(t, report.MissingTables)
	require.Contains(t, report.Tables, "inventory_items")
	assert.Equal(t, int64(1), report.Tables["inventory_items"].Rows)
	assert.Equal(t, int64(0), report.Tables["tasks"].Rows)
}
