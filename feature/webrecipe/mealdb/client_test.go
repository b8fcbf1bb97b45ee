package mealdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chefcode/feature/webrecipe/mealdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPayload = `{"meals":[
  {
    "idMeal":"52771",
    "strMeal":"Spicy Arrabiata Penne",
    "strCategory":"Vegetarian",
    "strArea":"Italian",
    "strInstructions":"Bring a large pot of water to a boil.",
    "strMealThumb":"https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
    "strTags":"Pasta,Curry",
    "strYoutube":"https://www.youtube.com/watch?v=1IszT_guI08",
    "strSource":null,
    "strIngredient1":"penne rigate",
    "strIngredient2":"olive oil",
    "strIngredient3":"garlic",
    "strIngredient4":"",
    "strIngredient5":null,
    "strMeasure1":"1 pound",
    "strMeasure2":"1/4 cup",
    "strMeasure3":"3 cloves",
    "strMeasure4":"",
    "strMeasure5":null
  },
  {
    "idMeal":"52772",
    "strMeal":"Teriyaki Chicken Casserole",
    "strCategory":"Chicken",
    "strArea":"Japanese",
    "strInstructions":"Preheat oven to 350.",
    "strMealThumb":"https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
    "strTags":null,
    "strYoutube":"",
    "strSource":"https://example.com/teriyaki",
    "strIngredient1":"soy sauce",
    "strMeasure1":"3/4 cup"
  }
]}`

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "pasta", r.URL.Query().Get("s"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	client := mealdb.NewClient(server.URL)
	recipes, err := client.Search(context.Background(), "pasta")
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	penne := recipes[0]
	assert.Equal(t, "52771", penne.ID)
	assert.Equal(t, "Spicy Arrabiata Penne", penne.Name)
	assert.Equal(t, "Italian", penne.Area)
	// Empty and null slots are dropped, order is kept.
	require.Len(t, penne.Ingredients, 3)
	assert.Equal(t, mealdb.Ingredient{Name: "penne rigate", Measure: "1 pound"}, penne.Ingredients[0])
	assert.Equal(t, mealdb.Ingredient{Name: "garlic", Measure: "3 cloves"}, penne.Ingredients[2])
	// No strSource, so the video link stands in.
	assert.Equal(t, "https://www.youtube.com/watch?v=1IszT_guI08", penne.SourceURL)
	assert.Equal(t, []string{"Pasta", "Curry"}, penne.Tags)

	teriyaki := recipes[1]
	assert.Equal(t, "https://example.com/teriyaki", teriyaki.SourceURL)
	assert.Empty(t, teriyaki.Tags)
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	}))
	defer server.Close()

	recipes, err := mealdb.NewClient(server.URL).Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup.php", r.URL.Path)
		assert.Equal(t, "52771", r.URL.Query().Get("i"))
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	recipe, err := mealdb.NewClient(server.URL).Lookup(context.Background(), "52771")
	require.NoError(t, err)
	require.NotNil(t, recipe)
	assert.Equal(t, "Spicy Arrabiata Penne", recipe.Name)
}

func TestLookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	}))
	defer server.Close()

	recipe, err := mealdb.NewClient(server.URL).Lookup(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, recipe)
}

func TestFilterByIngredient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/filter.php", r.URL.Path)
		assert.Equal(t, "chicken", r.URL.Query().Get("i"))
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52940","strMeal":"Brown Stew Chicken","strMealThumb":"https://example.com/thumb.jpg"}]}`))
	}))
	defer server.Close()

	recipes, err := mealdb.NewClient(server.URL).FilterByIngredient(context.Background(), "chicken")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Brown Stew Chicken", recipes[0].Name)
	assert.Empty(t, recipes[0].Ingredients)
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := mealdb.NewClient(server.URL).Search(context.Background(), "pasta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
