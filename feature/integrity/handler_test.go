package integrity

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"chefcode/core/storage/mocks"
	"chefcode/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupApp(t *testing.T, db *gorm.DB, client *mocks.Client) *fiber.App {
	t.Helper()

	app := fiber.New()
	feature := NewFeature(db, client, "test-bucket", zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app
}

func healthyObjects() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "invoices/scan.jpg"}
	close(ch)
	return ch
}

func TestHandleIntegrityCheck(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(healthyObjects())

	app := setupApp(t, setupDB(t), client)
	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var report map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Contains(t, report, "storage")
	assert.Contains(t, report, "database")

	var dbReport checks.DatabaseReport
	require.NoError(t, json.Unmarshal(report["database"], &dbReport))
	assert.True(t, dbReport.Matched)
}

func TestHandleStorageCheck_Fix(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(closedObjects())
	client.On("PutObject", mock.Anything, "test-bucket", "invoices/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	app := setupApp(t, nil, client)
	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "fixed", body["status"])
	client.AssertExpectations(t)
}

func TestHandleStorageCheck_NoFix(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(closedObjects())

	app := setupApp(t, nil, client)
	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "checked", body["status"])
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleStorageFix_Post(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "test-bucket", "invoices/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	app := setupApp(t, nil, client)
	resp, err := app.Test(httptest.NewRequest("POST", "/integrity/storage", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "fixed", body["status"])
	client.AssertExpectations(t)
}

func TestHandleStorageCheck_Unreachable(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	app := setupApp(t, nil, client)
	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleDatabaseCheck(t *testing.T) {
	app := setupApp(t, setupDB(t), new(mocks.Client))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/database", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var report checks.DatabaseReport
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.True(t, report.Matched)
	assert.Len(t, report.Tables, 4)
}
