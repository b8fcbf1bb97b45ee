package invoice_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	aimocks "chefcode/core/ai/mocks"
	storagemocks "chefcode/core/storage/mocks"
	"chefcode/feature/invoice"
	invmodels "chefcode/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, store *storagemocks.Client, aiClient *aimocks.Client) *fiber.App {
	t.Helper()

	app := fiber.New()
	feat := invoice.NewFeature(setupDB(t), store, testBucket, aiClient, zap.NewNop(), nil)
	require.NoError(t, feat.Load(app))
	return app
}

// multipartRequest builds a POST with a single file part whose Content-Type
// header is set explicitly, the way browsers send scans.
func multipartRequest(t *testing.T, path, filename, contentType string, payload []byte) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestHandleUpload(t *testing.T) {
	payload := []byte("fake-jpeg-bytes")

	store := new(storagemocks.Client)
	store.On("PutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	aiClient := new(aimocks.Client)
	aiClient.On("Available").Return(true)
	aiClient.On("GenerateFromFile", mock.Anything, mock.Anything, mock.Anything, payload, "image/jpeg").
		Return(extractionOutput, nil)

	app := setupApp(t, store, aiClient)
	resp, err := app.Test(multipartRequest(t, "/invoices/upload", "scan.jpg", "image/jpeg", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body invoice.UploadResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "DAC S.p.A.", body.Supplier)
	assert.True(t, strings.HasPrefix(body.StorageKey, invoice.StoragePrefix))
	assert.True(t, strings.HasSuffix(body.StorageKey, ".jpg"))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "POLLO PETTO GR 600", body.Items[0].Name)
}

func TestHandleUpload_MissingFile(t *testing.T) {
	app := setupApp(t, new(storagemocks.Client), new(aimocks.Client))

	req := httptest.NewRequest("POST", "/invoices/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleUpload_UnsupportedType(t *testing.T) {
	app := setupApp(t, new(storagemocks.Client), new(aimocks.Client))

	resp, err := app.Test(multipartRequest(t, "/invoices/upload", "notes.txt", "text/plain", []byte("hello")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Contains(t, body, "error")
}

func TestHandleUpload_AIUnavailable(t *testing.T) {
	aiClient := new(aimocks.Client)
	aiClient.On("Available").Return(false)

	app := setupApp(t, new(storagemocks.Client), aiClient)
	resp, err := app.Test(multipartRequest(t, "/invoices/upload", "scan.jpg", "image/jpeg", []byte("jpeg")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleUpload_StorageDown(t *testing.T) {
	store := new(storagemocks.Client)
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	aiClient := new(aimocks.Client)
	aiClient.On("Available").Return(true)

	app := setupApp(t, store, aiClient)
	resp, err := app.Test(multipartRequest(t, "/invoices/upload", "scan.jpg", "image/jpeg", []byte("jpeg")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleImport(t *testing.T) {
	app := setupApp(t, new(storagemocks.Client), new(aimocks.Client))

	payload, err := json.Marshal(invoice.ImportRequest{
		Items: []invmodels.InventoryRecord{
			{Name: "Flour", Unit: "kg", Quantity: 3, Category: "Grains", Price: 1.4},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/invoices/import", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body invoice.ImportResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 1, body.Summary.Inserted)
}

func TestHandleImport_EmptyBatch(t *testing.T) {
	app := setupApp(t, new(storagemocks.Client), new(aimocks.Client))

	req := httptest.NewRequest("POST", "/invoices/import", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleDelete(t *testing.T) {
	store := new(storagemocks.Client)
	store.On("RemoveObject", mock.Anything, testBucket, "invoices/abc.jpg", mock.Anything).Return(nil)

	app := setupApp(t, store, new(aimocks.Client))
	resp, err := app.Test(httptest.NewRequest("DELETE", "/invoices/abc.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestHandleDelete_TraversalKeyRejected(t *testing.T) {
	app := setupApp(t, new(storagemocks.Client), new(aimocks.Client))

	// Dot-dot sequences are refused before touching storage.
	resp, err := app.Test(httptest.NewRequest("DELETE", "/invoices/x..y.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
