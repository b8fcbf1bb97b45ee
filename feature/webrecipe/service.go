package webrecipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chefcode/core/ai"
	"chefcode/core/reconcile"
	"chefcode/core/utils"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/webrecipe/mealdb"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const interpretPrompt = `You are a culinary assistant that interprets recipe search queries.
Respond with ONLY a JSON object, no markdown fences, no prose around it.

Fields:
- "keywords": array of strings, the dish types or main ingredients to search for.
- "cuisine": string or null (e.g. "Italian", "Japanese", "Mexican").
- "restrictions": array of strings, dietary restrictions such as "no cheese", "vegetarian", "vegan".
- "max_time": number or null, the maximum cooking time in minutes.

Example: "quick Italian pasta without cheese" becomes
{"keywords":["pasta"],"cuisine":"Italian","restrictions":["no cheese"],"max_time":30}`

const mapPrompt = `You are a sous-chef matching recipe ingredients against a restaurant inventory.
Respond with ONLY a JSON array, one object per recipe ingredient, in the order given. No markdown.

Each object has:
- "recipe_ingredient": the ingredient name exactly as given.
- "recipe_quantity": the amount, as a string.
- "recipe_unit": the unit as given.
- "mapped_to": the matching inventory item name, or null when nothing fits.
- "match_confidence": a number between 0 and 1.
- "match_type": "exact" for the same ingredient, "substitute" for a workable replacement, "missing" when nothing fits.
- "note": one short sentence of advice.`

// Service runs the interpret, search, map, save import flow.
type Service struct {
	db      *gorm.DB
	ai      ai.Client
	mealdb  *mealdb.Client
	recipes *recipe.Service
	logger  *zap.Logger
}

// NewService creates a new web recipe service.
func NewService(db *gorm.DB, aiClient ai.Client, mealdbClient *mealdb.Client, recipes *recipe.Service, logger *zap.Logger) *Service {
	return &Service{db: db, ai: aiClient, mealdb: mealdbClient, recipes: recipes, logger: logger}
}

// Interpret turns a natural-language query into structured search filters.
// Any model trouble degrades to the raw query as a single keyword.
func (s *Service) Interpret(ctx context.Context, query string) (*Interpretation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, reconcile.NewValidationError("query is required")
	}
	if !s.ai.Available() {
		return fallbackInterpretation(query), nil
	}

	out, err := s.ai.GenerateText(ctx, interpretPrompt, query)
	if err != nil {
		s.logger.Warn("query interpretation failed, using raw keywords", zap.Error(err))
		return fallbackInterpretation(query), nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(out)), &fields); err != nil {
		s.logger.Warn("query interpretation returned no usable JSON, using raw keywords", zap.String("output", out))
		return fallbackInterpretation(query), nil
	}

	in := &Interpretation{
		Keywords:     toStringSlice(fields["keywords"]),
		Cuisine:      strings.TrimSpace(utils.ToString(fields["cuisine"])),
		Restrictions: toStringSlice(fields["restrictions"]),
		MaxTime:      utils.ToInt(fields["max_time"]),
	}
	if len(in.Keywords) == 0 {
		in.Keywords = []string{query}
	}
	return in, nil
}

func fallbackInterpretation(query string) *Interpretation {
	return &Interpretation{Keywords: []string{query}, Restrictions: []string{}}
}

// Search queries TheMealDB by name, falling back to a main-ingredient
// filter when the name index has nothing. The cuisine filter is applied
// locally, the search endpoint cannot.
func (s *Service) Search(ctx context.Context, req *SearchRequest) ([]mealdb.WebRecipe, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, reconcile.NewValidationError("query is required")
	}

	recipes, err := s.mealdb.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("web recipe search failed: %w", err)
	}

	if len(recipes) == 0 {
		// The name index misses dishes known only by their main
		// ingredient. Filter hits are skeleton rows without area data,
		// so the cuisine filter cannot apply to them.
		recipes, err = s.mealdb.FilterByIngredient(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("web recipe search failed: %w", err)
		}
		return recipes, nil
	}

	if cuisine := strings.ToLower(strings.TrimSpace(req.Cuisine)); cuisine != "" {
		filtered := make([]mealdb.WebRecipe, 0, len(recipes))
		for _, r := range recipes {
			if strings.Contains(strings.ToLower(r.Area), cuisine) {
				filtered = append(filtered, r)
			}
		}
		recipes = filtered
	}
	return recipes, nil
}

// MapIngredients matches a web recipe's ingredients against the current
// inventory, semantically through the model when one is configured, by
// case-insensitive name containment otherwise. A request carrying only the
// recipe id has its ingredient list looked up first.
func (s *Service) MapIngredients(ctx context.Context, req *MapRequest) (*MapResponse, error) {
	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		fetched, err := s.lookupIngredients(ctx, req.RecipeID)
		if err != nil {
			return nil, err
		}
		ingredients = fetched
	}

	var items []invmodels.InventoryItem
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &MapResponse{
			RecipeID: req.RecipeID,
			Mappings: missingMappings(ingredients, "no inventory items available"),
		}, nil
	}

	if s.ai.Available() {
		mappings, err := s.mapWithModel(ctx, ingredients, items)
		if err == nil {
			return &MapResponse{RecipeID: req.RecipeID, Mappings: mappings}, nil
		}
		s.logger.Warn("model mapping failed, falling back to name matching", zap.Error(err))
	}
	return &MapResponse{RecipeID: req.RecipeID, Mappings: nameMappings(ingredients, items)}, nil
}

// lookupIngredients pulls the scraped ingredient list for requests that
// carry only the TheMealDB id. Measures stay free text.
func (s *Service) lookupIngredients(ctx context.Context, id string) ([]MapIngredient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, reconcile.NewValidationError("ingredients are required")
	}

	web, err := s.mealdb.Lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("web recipe lookup failed: %w", err)
	}
	if web == nil {
		return nil, gorm.ErrRecordNotFound
	}

	ingredients := make([]MapIngredient, len(web.Ingredients))
	for i, ing := range web.Ingredients {
		ingredients[i] = MapIngredient{Name: ing.Name, Quantity: ing.Measure}
	}
	return ingredients, nil
}

func (s *Service) mapWithModel(ctx context.Context, ingredients []MapIngredient, items []invmodels.InventoryItem) ([]IngredientMapping, error) {
	var prompt strings.Builder
	prompt.WriteString("Recipe ingredients:\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&prompt, "- %s (%s %s)\n", ing.Name, ing.Quantity, ing.Unit)
	}
	prompt.WriteString("\nInventory available:\n")
	for _, item := range items {
		fmt.Fprintf(&prompt, "- %s (%s)\n", item.Name, item.Unit)
	}

	out, err := s.ai.GenerateText(ctx, mapPrompt, prompt.String())
	if err != nil {
		return nil, err
	}

	raw := decodeMappingList(ai.ExtractJSON(out))
	if len(raw) == 0 {
		return nil, errors.New("model returned no mapping list")
	}
	mappings := make([]IngredientMapping, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		m := IngredientMapping{
			RecipeIngredient: utils.ToString(fields["recipe_ingredient"]),
			RecipeQuantity:   utils.ToString(fields["recipe_quantity"]),
			RecipeUnit:       utils.ToString(fields["recipe_unit"]),
			MappedTo:         utils.ToString(fields["mapped_to"]),
			MatchConfidence:  utils.ToFloat(fields["match_confidence"]),
			MatchType:        utils.ToString(fields["match_type"]),
			Note:             utils.ToString(fields["note"]),
		}
		if m.MatchType == "" {
			m.MatchType = MatchMissing
		}
		mappings = append(mappings, m)
	}
	if len(mappings) == 0 {
		return nil, errors.New("model returned no mappings")
	}
	return mappings, nil
}

// decodeMappingList accepts a bare array or an object wrapping one, since
// models alternate between the two shapes.
func decodeMappingList(raw string) []any {
	var list []any
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	var wrapper map[string]any
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
		return nil
	}
	for _, key := range []string{"mappings", "ingredients"} {
		if list, ok := wrapper[key].([]any); ok {
			return list
		}
	}
	for _, value := range wrapper {
		if list, ok := value.([]any); ok {
			return list
		}
	}
	return nil
}

func nameMappings(ingredients []MapIngredient, items []invmodels.InventoryItem) []IngredientMapping {
	mappings := make([]IngredientMapping, 0, len(ingredients))
	for _, ing := range ingredients {
		m := IngredientMapping{
			RecipeIngredient: ing.Name,
			RecipeQuantity:   ing.Quantity,
			RecipeUnit:       ing.Unit,
			MatchType:        MatchMissing,
			Note:             "no matching inventory item",
		}
		needle := strings.ToLower(strings.TrimSpace(ing.Name))
		for _, item := range items {
			have := strings.ToLower(item.Name)
			if needle == have {
				m.MappedTo = item.Name
				m.MatchConfidence = 1
				m.MatchType = MatchExact
				m.Note = "same name"
				break
			}
			if needle != "" && m.MappedTo == "" && (strings.Contains(have, needle) || strings.Contains(needle, have)) {
				m.MappedTo = item.Name
				m.MatchConfidence = 0.7
				m.MatchType = MatchSubstitute
				m.Note = "matched by name"
			}
		}
		mappings = append(mappings, m)
	}
	return mappings
}

func missingMappings(ingredients []MapIngredient, note string) []IngredientMapping {
	mappings := make([]IngredientMapping, 0, len(ingredients))
	for _, ing := range ingredients {
		mappings = append(mappings, IngredientMapping{
			RecipeIngredient: ing.Name,
			RecipeQuantity:   ing.Quantity,
			RecipeUnit:       ing.Unit,
			MatchType:        MatchMissing,
			Note:             note,
		})
	}
	return mappings
}

// Save persists a web recipe through the recipe service. The catalogue keeps
// one recipe per name for imports, so an existing name is a conflict. Only
// mapped ingredients become recipe items; both ingredient lists are kept as
// metadata on the row.
func (s *Service) Save(ctx context.Context, req *SaveRequest) (*recmodels.Recipe, error) {
	var fields []string
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields = append(fields, "name is required")
	}
	if strings.TrimSpace(req.SourceURL) == "" {
		fields = append(fields, "source_url is required")
	}
	if len(fields) > 0 {
		return nil, reconcile.NewValidationError(fields...)
	}

	if _, err := s.recipes.FindByName(ctx, name); err == nil {
		return nil, &reconcile.ConflictError{Key: name, Detail: "recipe already in the catalogue"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	items := make([]recmodels.Ingredient, 0, len(req.IngredientsMapped))
	for _, m := range req.IngredientsMapped {
		if m.MappedTo == "" {
			continue
		}
		unit := strings.TrimSpace(m.RecipeUnit)
		if unit == "" {
			unit = invmodels.DefaultUnit
		}
		items = append(items, recmodels.Ingredient{
			Name: m.MappedTo,
			Qty:  utils.ToFloat(m.RecipeQuantity),
			Unit: unit,
		})
	}

	if req.IngredientsRaw == nil {
		req.IngredientsRaw = []mealdb.Ingredient{}
	}
	if req.IngredientsMapped == nil {
		req.IngredientsMapped = []IngredientMapping{}
	}
	rawJSON, err := json.Marshal(req.IngredientsRaw)
	if err != nil {
		return nil, err
	}
	mappedJSON, err := json.Marshal(req.IngredientsMapped)
	if err != nil {
		return nil, err
	}

	row := &recmodels.Recipe{
		Name:              name,
		Instructions:      req.Instructions,
		SourceURL:         strings.TrimSpace(req.SourceURL),
		ImageURL:          strings.TrimSpace(req.ImageURL),
		Cuisine:           strings.TrimSpace(req.Cuisine),
		IngredientsRaw:    string(rawJSON),
		IngredientsMapped: string(mappedJSON),
	}
	if err := row.SetItems(items); err != nil {
		return nil, err
	}
	if err := s.recipes.Insert(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func toStringSlice(val any) []string {
	items, ok := val.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(utils.ToString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
