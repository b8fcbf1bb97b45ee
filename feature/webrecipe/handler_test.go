package webrecipe_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chefcode/core/ai/mocks"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/webrecipe"
	"chefcode/feature/webrecipe/mealdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupApp(t *testing.T, db *gorm.DB, client *mocks.Client, mealdbURL string) *fiber.App {
	t.Helper()

	recipes := recipe.NewService(db, zap.NewNop(), nil)
	feat := webrecipe.NewFeature(db, client, mealdb.NewClient(mealdbURL), recipes, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feat.Load(app))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, payload string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

const mealdbPayload = `{"meals":[
  {"idMeal":"52771","strMeal":"Spicy Arrabiata Penne","strArea":"Italian","strInstructions":"Boil.","strIngredient1":"penne","strMeasure1":"1 pound"},
  {"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole","strArea":"Japanese","strInstructions":"Bake.","strIngredient1":"soy sauce","strMeasure1":"3/4 cup"}
]}`

func TestHandleSearch_CuisineFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mealdbPayload))
	}))
	defer server.Close()

	app := setupApp(t, setupDB(t), new(mocks.Client), server.URL)

	resp := postJSON(t, app, "/web-recipes/search", `{"query":"pasta","cuisine":"italian"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Recipes []mealdb.WebRecipe `json:"recipes"`
		Total   int                `json:"total"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	// The Japanese casserole is filtered out.
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Spicy Arrabiata Penne", body.Recipes[0].Name)
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	app := setupApp(t, setupDB(t), new(mocks.Client), "http://127.0.0.1:0")

	resp := postJSON(t, app, "/web-recipes/search", `{"query":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleInterpret_Fallback(t *testing.T) {
	client := new(mocks.Client)
	client.On("Available").Return(false)
	app := setupApp(t, setupDB(t), client, "")

	resp := postJSON(t, app, "/web-recipes/interpret", `{"query":"vegetarian soup"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body webrecipe.Interpretation
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, []string{"vegetarian soup"}, body.Keywords)
}

func TestHandleMapIngredients(t *testing.T) {
	db := setupDB(t)
	seedInventory(t, db, "Butter")

	client := new(mocks.Client)
	client.On("Available").Return(false)
	app := setupApp(t, db, client, "")

	resp := postJSON(t, app, "/web-recipes/map-ingredients",
		`{"recipe_id":"52771","ingredients":[{"name":"butter","quantity":"100","unit":"g"}]}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body webrecipe.MapResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "52771", body.RecipeID)
	require.Len(t, body.Mappings, 1)
	assert.Equal(t, "Butter", body.Mappings[0].MappedTo)
}

func TestHandleSave(t *testing.T) {
	db := setupDB(t)
	app := setupApp(t, db, new(mocks.Client), "")

	payload := `{
		"recipe_id":"52772",
		"name":"Teriyaki Chicken Casserole",
		"instructions":"Preheat oven to 350.",
		"cuisine":"Japanese",
		"source_url":"https://example.com/teriyaki",
		"ingredients_raw":[{"name":"soy sauce","measure":"3/4 cup"}],
		"ingredients_mapped":[{"recipe_ingredient":"soy sauce","recipe_quantity":"180","recipe_unit":"ml","mapped_to":"Soy Sauce","match_confidence":1,"match_type":"exact"}]
	}`
	resp := postJSON(t, app, "/web-recipes/save", payload)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Recipe recmodels.RecipeView `json:"recipe"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotZero(t, body.Recipe.ID)
	assert.Equal(t, "Japanese", body.Recipe.Cuisine)
	require.Len(t, body.Recipe.Items, 1)
	assert.Equal(t, "Soy Sauce", body.Recipe.Items[0].Name)

	// Same name again is a conflict.
	resp = postJSON(t, app, "/web-recipes/save", payload)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandleSave_Validation(t *testing.T) {
	app := setupApp(t, setupDB(t), new(mocks.Client), "")

	resp := postJSON(t, app, "/web-recipes/save", `{"instructions":"whisk"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Fields []string `json:"fields"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Fields, "name is required")
	assert.Contains(t, body.Fields, "source_url is required")
}
