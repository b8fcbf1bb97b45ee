package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chefcode/core/ai"
	"chefcode/core/reconcile"
	"chefcode/core/utils"
	invmodels "chefcode/feature/inventory/models"

	"go.uber.org/zap"
)

// Statuses returned by Parse.
const (
	StatusComplete    = "complete"
	StatusAskPrice    = "ask_price"
	StatusUnavailable = "unavailable"
)

// Intents the model is instructed to emit. IntentAddInventory deliberately
// matches the dispatcher action name so a complete parse can be submitted
// verbatim.
const (
	IntentAddInventory = "add-inventory"
	IntentQuery        = "query-inventory"
	IntentUnknown      = "unknown"
)

// Supported languages. Anything else falls back to English.
const (
	LanguageEN = "en"
	LanguageIT = "it"
)

const systemPromptEN = `You are the kitchen assistant of an inventory system for restaurants.
The user types one natural-language command about kitchen stock.
Respond with ONLY a JSON object, no markdown fences, no prose around it.

Fields:
- "intent": "add-inventory" when the command adds stock, "query-inventory" when it asks about stock, otherwise "unknown".
- "name": the item name, singular, capitalized (e.g. "Tomato").
- "quantity": the numeric amount, null when not mentioned.
- "unit": the measurement unit (kg, g, l, ml, pz), null when not mentioned.
- "price": the unit price as a number when the command mentions a cost ("at", "for", a currency amount), null when not mentioned.
- "category": one of Meat, Vegetables, Fruits, Dairy, Grains, Beverages, Spices, Oils, Other. Infer it from the item name.
- "lot_number": the lot or batch identifier, null when not mentioned.
- "expiry_date": the expiry date in YYYY-MM-DD form, null when not mentioned.
- "response": one short sentence for the user, in English.

Example: "add 5 kg of flour at 1.20" becomes
{"intent":"add-inventory","name":"Flour","quantity":5,"unit":"kg","price":1.2,"category":"Grains","lot_number":null,"expiry_date":null,"response":"Adding 5 kg of Flour."}`

const systemPromptIT = `Sei l'assistente di cucina di un sistema di inventario per ristoranti.
L'utente scrive un comando in linguaggio naturale sulle scorte della cucina.
Rispondi SOLO con un oggetto JSON, senza markdown e senza testo intorno.

Campi:
- "intent": "add-inventory" quando il comando aggiunge scorte, "query-inventory" quando chiede informazioni sulle scorte, altrimenti "unknown".
- "name": il nome dell'articolo, singolare, con iniziale maiuscola (es. "Pomodoro").
- "quantity": la quantità numerica, null se non indicata.
- "unit": l'unità di misura (kg, g, l, ml, pz), null se non indicata.
- "price": il prezzo unitario come numero quando il comando indica un costo ("a", "per", un importo in valuta), null se non indicato.
- "category": una tra Meat, Vegetables, Fruits, Dairy, Grains, Beverages, Spices, Oils, Other. Deducila dal nome dell'articolo.
- "lot_number": il numero di lotto, null se non indicato.
- "expiry_date": la data di scadenza in formato YYYY-MM-DD, null se non indicata.
- "response": una frase breve per l'utente, in italiano.

Esempio: "aggiungi 5 kg di farina a 1.20" diventa
{"intent":"add-inventory","name":"Farina","quantity":5,"unit":"kg","price":1.2,"category":"Grains","lot_number":null,"expiry_date":null,"response":"Aggiungo 5 kg di Farina."}`

var (
	unavailableMessages = map[string]string{
		LanguageEN: "The assistant is not configured. Set an API key to enable natural-language commands.",
		LanguageIT: "L'assistente non è configurato. Imposta una chiave API per abilitare i comandi in linguaggio naturale.",
	}
	askPriceMessages = map[string]string{
		LanguageEN: "Price?",
		LanguageIT: "Prezzo?",
	}
	confirmMessages = map[string]string{
		LanguageEN: "Ready to add %s to the inventory.",
		LanguageIT: "Pronto ad aggiungere %s all'inventario.",
	}
)

// ParseRequest is one kitchen command.
type ParseRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// ParseResponse is the parsed command.
//
// Item is present for add-inventory parses, including ask_price ones so the
// client can resubmit once the user answers with a price.
type ParseResponse struct {
	Status   string                     `json:"status"`
	Intent   string                     `json:"intent"`
	Item     *invmodels.InventoryRecord `json:"item,omitempty"`
	Response string                     `json:"response"`
}

// HealthResponse reports model availability.
type HealthResponse struct {
	Status             string   `json:"status"`
	AIAvailable        bool     `json:"ai_available"`
	SupportedLanguages []string `json:"supported_languages"`
	DefaultLanguage    string   `json:"default_language"`
}

// Service turns kitchen commands into structured inventory records.
type Service struct {
	ai     ai.Client
	logger *zap.Logger
}

func NewService(client ai.Client, logger *zap.Logger) *Service {
	return &Service{ai: client, logger: logger}
}

// Parse runs one command through the model and extracts the structured
// result. Without a configured provider it returns an unavailable response
// rather than an error, so the endpoint stays usable as a probe.
func (s *Service) Parse(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, reconcile.NewValidationError("message is required")
	}
	lang := normalizeLanguage(req.Language)

	if !s.ai.Available() {
		return &ParseResponse{
			Status:   StatusUnavailable,
			Intent:   IntentUnknown,
			Response: unavailableMessages[lang],
		}, nil
	}

	out, err := s.ai.GenerateText(ctx, systemPrompt(lang), req.Message)
	if err != nil {
		return nil, fmt.Errorf("assistant generation failed: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(out)), &fields); err != nil {
		s.logger.Warn("assistant returned unparseable output", zap.String("output", out))
		return nil, fmt.Errorf("model returned no usable JSON: %w", err)
	}

	intent := strings.TrimSpace(utils.ToString(fields["intent"]))
	if intent == "" {
		intent = IntentUnknown
	}
	resp := &ParseResponse{
		Status:   StatusComplete,
		Intent:   intent,
		Response: utils.ToString(fields["response"]),
	}
	if intent != IntentAddInventory {
		return resp, nil
	}

	item := itemFromFields(fields)
	if item.Name == "" {
		// Add intent without an item name is useless to the client.
		resp.Intent = IntentUnknown
		return resp, nil
	}
	resp.Item = item
	if item.Price <= 0 {
		resp.Status = StatusAskPrice
		resp.Response = askPriceMessages[lang]
		return resp, nil
	}
	if resp.Response == "" {
		resp.Response = fmt.Sprintf(confirmMessages[lang], item.Name)
	}
	return resp, nil
}

// Health reports whether the model is reachable for parsing.
func (s *Service) Health() *HealthResponse {
	status := StatusUnavailable
	if s.ai.Available() {
		status = "available"
	}
	return &HealthResponse{
		Status:             status,
		AIAvailable:        s.ai.Available(),
		SupportedLanguages: []string{LanguageEN, LanguageIT},
		DefaultLanguage:    LanguageEN,
	}
}

// itemFromFields builds the inventory record from whatever scalar shapes the
// model produced. Quantities and prices come back as numbers or quoted
// strings depending on the model's mood.
func itemFromFields(fields map[string]any) *invmodels.InventoryRecord {
	return &invmodels.InventoryRecord{
		Name:       strings.TrimSpace(utils.ToString(fields["name"])),
		Unit:       strings.TrimSpace(utils.ToString(fields["unit"])),
		Quantity:   utils.ToFloat(fields["quantity"]),
		Category:   strings.TrimSpace(utils.ToString(fields["category"])),
		Price:      utils.ToFloat(fields["price"]),
		LotNumber:  strings.TrimSpace(utils.ToString(fields["lot_number"])),
		ExpiryDate: strings.TrimSpace(utils.ToString(fields["expiry_date"])),
	}
}

func normalizeLanguage(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), LanguageIT) {
		return LanguageIT
	}
	return LanguageEN
}

func systemPrompt(lang string) string {
	if lang == LanguageIT {
		return systemPromptIT
	}
	return systemPromptEN
}
