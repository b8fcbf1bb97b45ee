package webrecipe

import "chefcode/feature/webrecipe/mealdb"

// Match types an ingredient mapping can carry.
const (
	MatchExact      = "exact"
	MatchSubstitute = "substitute"
	MatchMissing    = "missing"
)

// InterpretRequest is a natural-language recipe search query.
type InterpretRequest struct {
	Query string `json:"query"`
}

// Interpretation is the structured form of a query.
type Interpretation struct {
	Keywords     []string `json:"keywords"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Restrictions []string `json:"restrictions"`
	MaxTime      int      `json:"max_time,omitempty"`
}

// SearchRequest carries interpreted filters back for the web search.
// Restrictions ride along unused: the free TheMealDB API exposes no dietary
// or timing data, so filtering on them stays client-side.
type SearchRequest struct {
	Query        string   `json:"query"`
	Cuisine      string   `json:"cuisine"`
	Restrictions []string `json:"restrictions"`
}

// MapIngredient is one web-recipe ingredient to match against inventory.
// Quantity is free text as scraped ("3/4", "400").
type MapIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// MapRequest asks for an inventory mapping of a web recipe's ingredients.
type MapRequest struct {
	RecipeID    string          `json:"recipe_id"`
	Ingredients []MapIngredient `json:"ingredients"`
}

// IngredientMapping is the match verdict for one ingredient.
type IngredientMapping struct {
	RecipeIngredient string  `json:"recipe_ingredient"`
	RecipeQuantity   string  `json:"recipe_quantity"`
	RecipeUnit       string  `json:"recipe_unit"`
	MappedTo         string  `json:"mapped_to,omitempty"`
	MatchConfidence  float64 `json:"match_confidence"`
	MatchType        string  `json:"match_type"`
	Note             string  `json:"note,omitempty"`
}

// MapResponse is the full mapping result.
type MapResponse struct {
	RecipeID string              `json:"recipe_id"`
	Mappings []IngredientMapping `json:"mappings"`
}

// SaveRequest persists one web recipe into the catalogue. IngredientsRaw is
// the list as scraped; IngredientsMapped is the (possibly user-corrected)
// mapping verdicts, of which only mapped entries become recipe items.
type SaveRequest struct {
	RecipeID          string              `json:"recipe_id"`
	Name              string              `json:"name"`
	Instructions      string              `json:"instructions"`
	Cuisine           string              `json:"cuisine"`
	ImageURL          string              `json:"image_url"`
	SourceURL         string              `json:"source_url"`
	IngredientsRaw    []mealdb.Ingredient `json:"ingredients_raw"`
	IngredientsMapped []IngredientMapping `json:"ingredients_mapped"`
}
