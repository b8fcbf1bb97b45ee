package task_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"chefcode/feature/task"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db := setupDB(t)
	svc := task.NewService(db, zap.NewNop(), nil)
	h := task.NewHandler(svc)

	app := fiber.New()
	h.RegisterRoutes(app)
	return app
}

func TestHandleAdd(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"description":"Chop onions","assigned_to":"Dana"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Outcome string `json:"outcome"`
		Task    struct {
			ID       uint    `json:"id"`
			Status   string  `json:"status"`
			Quantity float64 `json:"quantity"`
		} `json:"task"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "inserted", body.Outcome)
	assert.NotZero(t, body.Task.ID)
	assert.Equal(t, "pending", body.Task.Status)
	assert.Equal(t, float64(1), body.Task.Quantity)
}

func TestHandleAdd_ValidationFailure(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"status":"paused"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Fields []string `json:"fields"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Fields, "description is required")
	assert.Contains(t, body.Fields, "status must be one of pending, in-progress, done")
}

func TestHandleList_StatusFilter(t *testing.T) {
	app := setupApp(t)

	for _, payload := range []string{
		`{"description":"Chop onions","status":"pending"}`,
		`{"description":"Make stock","status":"done"}`,
	} {
		req := httptest.NewRequest("POST", "/tasks", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/tasks?status=done", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Tasks []struct {
			Description string `json:"description"`
		} `json:"tasks"`
		Total int64 `json:"total"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, "Make stock", body.Tasks[0].Description)

	resp, err = app.Test(httptest.NewRequest("GET", "/tasks?status=paused", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleUpdateStatus(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"description":"Chop onions"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	req = httptest.NewRequest("PUT", "/tasks/1/status", strings.NewReader(`{"status":"done"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var row struct {
		Status string `json:"status"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &row))
	assert.Equal(t, "done", row.Status)

	req = httptest.NewRequest("PUT", "/tasks/1/status", strings.NewReader(`{"status":"paused"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleDelete(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"description":"Chop onions"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/tasks/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/tasks/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
