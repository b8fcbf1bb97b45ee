// Package mealdb is a thin client for TheMealDB public JSON API
// (https://www.themealdb.com/api.php), the web source recipes are
// imported from.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chefcode/core/utils"
)

// DefaultBaseURL is the free-tier API root.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// Ingredient is one slot of a web recipe's ingredient list. Measure is
// free text ("3/4 cup", "2 tbsp"), exactly as the source carries it.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// WebRecipe is one recipe as served by TheMealDB, with the twenty
// strIngredientN/strMeasureN slots flattened into an ordered list.
type WebRecipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Image        string       `json:"image,omitempty"`
	Category     string       `json:"category,omitempty"`
	Area         string       `json:"area,omitempty"`
	Instructions string       `json:"instructions"`
	Ingredients  []Ingredient `json:"ingredients"`
	SourceURL    string       `json:"source_url"`
	Tags         []string     `json:"tags,omitempty"`
}

// Client calls TheMealDB API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client. An empty baseURL selects the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search finds recipes by name.
func (c *Client) Search(ctx context.Context, name string) ([]WebRecipe, error) {
	return c.fetch(ctx, "/search.php", url.Values{"s": {name}})
}

// FilterByIngredient finds recipes using the given main ingredient. The
// endpoint returns id, name and image only; use Lookup for the rest.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]WebRecipe, error) {
	return c.fetch(ctx, "/filter.php", url.Values{"i": {ingredient}})
}

// Lookup fetches one recipe by its TheMealDB id. A missing id yields
// (nil, nil).
func (c *Client) Lookup(ctx context.Context, id string) (*WebRecipe, error) {
	recipes, err := c.fetch(ctx, "/lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	return &recipes[0], nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]WebRecipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mealdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mealdb returned status %d", resp.StatusCode)
	}

	// "meals" is null, not [], when nothing matches.
	var envelope struct {
		Meals []map[string]any `json:"meals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("mealdb returned invalid JSON: %w", err)
	}

	recipes := make([]WebRecipe, 0, len(envelope.Meals))
	for _, meal := range envelope.Meals {
		recipes = append(recipes, recipeFromMeal(meal))
	}
	return recipes, nil
}

// recipeFromMeal flattens one meal object. Ingredient slots are string or
// null and most of the twenty are empty, so slots without a name are
// skipped while list order is kept.
func recipeFromMeal(meal map[string]any) WebRecipe {
	r := WebRecipe{
		ID:           utils.ToString(meal["idMeal"]),
		Name:         utils.ToString(meal["strMeal"]),
		Image:        utils.ToString(meal["strMealThumb"]),
		Category:     utils.ToString(meal["strCategory"]),
		Area:         utils.ToString(meal["strArea"]),
		Instructions: utils.ToString(meal["strInstructions"]),
	}

	for i := 1; i <= 20; i++ {
		name := strings.TrimSpace(utils.ToString(meal[fmt.Sprintf("strIngredient%d", i)]))
		if name == "" {
			continue
		}
		measure := strings.TrimSpace(utils.ToString(meal[fmt.Sprintf("strMeasure%d", i)]))
		r.Ingredients = append(r.Ingredients, Ingredient{Name: name, Measure: measure})
	}

	r.SourceURL = utils.ToString(meal["strSource"])
	if r.SourceURL == "" {
		r.SourceURL = utils.ToString(meal["strYoutube"])
	}
	if tags := strings.TrimSpace(utils.ToString(meal["strTags"])); tags != "" {
		r.Tags = strings.Split(tags, ",")
	}
	return r
}
