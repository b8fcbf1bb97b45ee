package webrecipe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chefcode/core/ai/mocks"
	"chefcode/core/database"
	"chefcode/core/reconcile"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/webrecipe"
	"chefcode/feature/webrecipe/mealdb"

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
	require.NoError(t, db.AutoMigrate(&invmodels.InventoryItem{}, &recmodels.Recipe{}))
	return db
}

func setupService(t *testing.T, db *gorm.DB, client *mocks.Client) *webrecipe.Service {
	t.Helper()

	recipes := recipe.NewService(db, zap.NewNop(), nil)
	return webrecipe.NewService(db, client, mealdb.NewClient(""), recipes, zap.NewNop())
}

func setupServiceWithMealDB(t *testing.T, db *gorm.DB, client *mocks.Client, mealdbURL string) *webrecipe.Service {
	t.Helper()

	recipes := recipe.NewService(db, zap.NewNop(), nil)
	return webrecipe.NewService(db, client, mealdb.NewClient(mealdbURL), recipes, zap.NewNop())
}

func seedInventory(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, db.Create(&invmodels.InventoryItem{Name: name, Unit: "kg", Quantity: 1}).Error)
	}
}

func TestInterpret(t *testing.T) {
	client := new(mocks.Client)
	client.On("Available").Return(true)
	client.On("GenerateText", mock.Anything, mock.Anything, "quick Italian pasta without cheese").
		Return(`{"keywords":["pasta"],"cuisine":"Italian","restrictions":["no cheese"],"max_time":30}`, nil)

	svc := setupService(t, setupDB(t), client)
	in, err := svc.Interpret(context.Background(), "quick Italian pasta without cheese")
	require.NoError(t, err)

	assert.Equal(t, []string{"pasta"}, in.Keywords)
	assert.Equal(t, "Italian", in.Cuisine)
	assert.Equal(t, []string{"no cheese"}, in.Restrictions)
	assert.Equal(t, 30, in.MaxTime)
}

func TestInterpret_FallbackWithoutProvider(t *testing.T) {
	client := new(mocks.Client)
	client.On("Available").Return(false)

	svc := setupService(t, setupDB(t), client)
	in, err := svc.Interpret(context.Background(), "spicy chicken curry")
	require.NoError(t, err)

	assert.Equal(t, []string{"spicy chicken curry"}, in.Keywords)
	assert.Empty(t, in.Cuisine)
	client.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterpret_FallbackOnGarbage(t *testing.T) {
	client := new(mocks.Client)
	client.On("Available").Return(true)
	client.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return("I would suggest searching for pasta.", nil)

	svc := setupService(t, setupDB(t), client)
	in, err := svc.Interpret(context.Background(), "pasta")
	require.NoError(t, err)
	assert.Equal(t, []string{"pasta"}, in.Keywords)
}

func TestInterpret_EmptyQuery(t *testing.T) {
	svc := setupService(t, setupDB(t), new(mocks.Client))

	_, err := svc.Interpret(context.Background(), "  ")
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMapIngredients_ModelPath(t *testing.T) {
	db := setupDB(t)
	seedInventory(t, db, "San Marzano Tomatoes", "Olive Oil")

	client := new(mocks.Client)
	client.On("Available").Return(true)
	// recipe_quantity arrives as a number; parsing must stringify it.
	client.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return(`[
			{"recipe_ingredient":"tomatoes","recipe_quantity":400,"recipe_unit":"g","mapped_to":"San Marzano Tomatoes","match_confidence":0.9,"match_type":"exact","note":"same ingredient"},
			{"recipe_ingredient":"saffron","recipe_quantity":"1","recipe_unit":"pinch","mapped_to":null,"match_confidence":0,"match_type":"missing","note":"not stocked"}
		]`, nil)

	svc := setupService(t, db, client)
	resp, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{
		RecipeID: "52771",
		Ingredients: []webrecipe.MapIngredient{
			{Name: "tomatoes", Quantity: "400", Unit: "g"},
			{Name: "saffron", Quantity: "1", Unit: "pinch"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "52771", resp.RecipeID)
	require.Len(t, resp.Mappings, 2)
	assert.Equal(t, "400", resp.Mappings[0].RecipeQuantity)
	assert.Equal(t, "San Marzano Tomatoes", resp.Mappings[0].MappedTo)
	assert.Equal(t, webrecipe.MatchExact, resp.Mappings[0].MatchType)
	assert.Equal(t, webrecipe.MatchMissing, resp.Mappings[1].MatchType)
	assert.Empty(t, resp.Mappings[1].MappedTo)
}

func TestMapIngredients_WrappedListAccepted(t *testing.T) {
	db := setupDB(t)
	seedInventory(t, db, "Butter")

	client := new(mocks.Client)
	client.On("Available").Return(true)
	client.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"mappings":[{"recipe_ingredient":"butter","recipe_quantity":"100","recipe_unit":"g","mapped_to":"Butter","match_confidence":1,"match_type":"exact","note":"same"}]}`, nil)

	svc := setupService(t, db, client)
	resp, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{
		RecipeID:    "1",
		Ingredients: []webrecipe.MapIngredient{{Name: "butter", Quantity: "100", Unit: "g"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Mappings, 1)
	assert.Equal(t, "Butter", resp.Mappings[0].MappedTo)
}

func TestMapIngredients_NameFallback(t *testing.T) {
	db := setupDB(t)
	seedInventory(t, db, "San Marzano Tomatoes", "Butter")

	client := new(mocks.Client)
	client.On("Available").Return(false)

	svc := setupService(t, db, client)
	resp, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{
		RecipeID: "52771",
		Ingredients: []webrecipe.MapIngredient{
			{Name: "tomatoes", Quantity: "400", Unit: "g"},
			{Name: "Butter", Quantity: "50", Unit: "g"},
			{Name: "saffron", Quantity: "1", Unit: "pinch"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Mappings, 3)

	assert.Equal(t, "San Marzano Tomatoes", resp.Mappings[0].MappedTo)
	assert.Equal(t, webrecipe.MatchSubstitute, resp.Mappings[0].MatchType)
	assert.InDelta(t, 0.7, resp.Mappings[0].MatchConfidence, 0.001)

	assert.Equal(t, "Butter", resp.Mappings[1].MappedTo)
	assert.Equal(t, 1.0, resp.Mappings[1].MatchConfidence)

	assert.Equal(t, webrecipe.MatchMissing, resp.Mappings[2].MatchType)
	assert.Empty(t, resp.Mappings[2].MappedTo)
}

func TestMapIngredients_ModelFailureFallsBack(t *testing.T) {
	db := setupDB(t)
	seedInventory(t, db, "Butter")

	client := new(mocks.Client)
	client.On("Available").Return(true)
	client.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return("no JSON here", nil)

	svc := setupService(t, db, client)
	resp, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{
		RecipeID:    "1",
		Ingredients: []webrecipe.MapIngredient{{Name: "butter", Quantity: "100", Unit: "g"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Mappings, 1)
	assert.Equal(t, "Butter", resp.Mappings[0].MappedTo)
}

func TestMapIngredients_EmptyInventory(t *testing.T) {
	client := new(mocks.Client)
	svc := setupService(t, setupDB(t), client)

	resp, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{
		RecipeID:    "1",
		Ingredients: []webrecipe.MapIngredient{{Name: "butter", Quantity: "100", Unit: "g"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Mappings, 1)
	assert.Equal(t, webrecipe.MatchMissing, resp.Mappings[0].MatchType)
	assert.Equal(t, "no inventory items available", resp.Mappings[0].Note)
	client.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_IngredientFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search.php":
			_, _ = w.Write([]byte(`{"meals":null}`))
		case "/filter.php":
			assert.Equal(t, "ceviche", r.URL.Query().Get("i"))
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52944","strMeal":"Ceviche","strMealThumb":"https://example.com/thumb.jpg"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	svc := setupServiceWithMealDB(t, setupDB(t), new(mocks.Client), server.URL)

	recipes, err := svc.Search(context.Background(), &webrecipe.SearchRequest{Query: "ceviche"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Ceviche", recipes[0].Name)
	assert.Empty(t, recipes[0].Ingredients)
}

func TestMapIngredients_LookupByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup.php", r.URL.Path)
		assert.Equal(t, "52771", r.URL.Query().Get("i"))
		_, _ = w.Write([]byte(`{"meals":[{
			"idMeal":"52771","strMeal":"Spicy Arrabiata Penne","strArea":"Italian","strInstructions":"Boil.",
			"strIngredient1":"butter","strMeasure1":"100g",
			"strIngredient2":"saffron","strMeasure2":"1 pinch"
		}]}`))
	}))
	defer server.Close()

	db := setupDB(t)
	seedInventory(t, db, "Butter")

	client := new(mocks.Client)
	client.On("Available").Return(false)
	svc := setupServiceWithMealDB(t, db, client, server.URL)

	resp, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{RecipeID: "52771"})
	require.NoError(t, err)
	assert.Equal(t, "52771", resp.RecipeID)
	require.Len(t, resp.Mappings, 2)
	assert.Equal(t, "butter", resp.Mappings[0].RecipeIngredient)
	assert.Equal(t, "100g", resp.Mappings[0].RecipeQuantity)
	assert.Equal(t, "Butter", resp.Mappings[0].MappedTo)
	assert.Equal(t, webrecipe.MatchMissing, resp.Mappings[1].MatchType)
}

func TestMapIngredients_UnknownRecipeID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	}))
	defer server.Close()

	svc := setupServiceWithMealDB(t, setupDB(t), new(mocks.Client), server.URL)

	_, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{RecipeID: "99999"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMapIngredients_NothingToMap(t *testing.T) {
	svc := setupService(t, setupDB(t), new(mocks.Client))

	_, err := svc.MapIngredients(context.Background(), &webrecipe.MapRequest{})

	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ingredients are required")
}

func TestSave(t *testing.T) {
	db := setupDB(t)
	recipes := recipe.NewService(db, zap.NewNop(), nil)
	svc := webrecipe.NewService(db, new(mocks.Client), mealdb.NewClient(""), recipes, zap.NewNop())

	row, err := svc.Save(context.Background(), &webrecipe.SaveRequest{
		RecipeID:     "52772",
		Name:         "Teriyaki Chicken Casserole",
		Instructions: "Preheat oven to 350.",
		Cuisine:      "Japanese",
		ImageURL:     "https://example.com/image.jpg",
		SourceURL:    "https://example.com/teriyaki",
		IngredientsRaw: []mealdb.Ingredient{
			{Name: "soy sauce", Measure: "3/4 cup"},
			{Name: "chicken breasts", Measure: "2"},
		},
		IngredientsMapped: []webrecipe.IngredientMapping{
			{RecipeIngredient: "soy sauce", RecipeQuantity: "180", RecipeUnit: "ml", MappedTo: "Soy Sauce", MatchConfidence: 1, MatchType: "exact"},
			{RecipeIngredient: "chicken breasts", RecipeQuantity: "2", RecipeUnit: "", MappedTo: "Chicken Breast", MatchConfidence: 0.9, MatchType: "exact"},
			{RecipeIngredient: "star anise", RecipeQuantity: "1", RecipeUnit: "pz", MatchType: "missing"},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, row.ID)

	stored, err := recipes.Get(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teriyaki Chicken Casserole", stored.Name)
	assert.Equal(t, "Japanese", stored.Cuisine)
	assert.Equal(t, "https://example.com/teriyaki", stored.SourceURL)

	// Only mapped ingredients become items; the missing one stays metadata.
	items := stored.ItemList()
	require.Len(t, items, 2)
	assert.Equal(t, recmodels.Ingredient{Name: "Soy Sauce", Qty: 180, Unit: "ml"}, items[0])
	assert.Equal(t, recmodels.Ingredient{Name: "Chicken Breast", Qty: 2, Unit: "pz"}, items[1])

	var raw []mealdb.Ingredient
	require.NoError(t, json.Unmarshal([]byte(stored.IngredientsRaw), &raw))
	assert.Len(t, raw, 2)
	var mapped []webrecipe.IngredientMapping
	require.NoError(t, json.Unmarshal([]byte(stored.IngredientsMapped), &mapped))
	assert.Len(t, mapped, 3)
}

func TestSave_DuplicateName(t *testing.T) {
	db := setupDB(t)
	recipes := recipe.NewService(db, zap.NewNop(), nil)
	require.NoError(t, recipes.Insert(context.Background(), &recmodels.Recipe{Name: "Carbonara"}))

	svc := webrecipe.NewService(db, new(mocks.Client), mealdb.NewClient(""), recipes, zap.NewNop())
	_, err := svc.Save(context.Background(), &webrecipe.SaveRequest{
		Name:      "Carbonara",
		SourceURL: "https://example.com/carbonara",
	})

	var cerr *reconcile.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Carbonara", cerr.Key)
}

func TestSave_Validation(t *testing.T) {
	svc := setupService(t, setupDB(t), new(mocks.Client))

	_, err := svc.Save(context.Background(), &webrecipe.SaveRequest{})

	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name is required")
	assert.Contains(t, verr.Fields, "source_url is required")
}
