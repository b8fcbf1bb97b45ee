// Package assistant implements the natural-language kitchen command parser.
//
// A chef types "add 5 kg of rice at 2.50" in English or Italian; the
// assistant asks the generative model to extract a structured inventory item
// (name, quantity, unit, price, category, optional lot and expiry) plus an
// intent, and parses the model output tolerantly since quantities come back
// quoted as often as not.
//
// The assistant never writes to the store. A "complete" parse hands the item
// back to the client, which submits it through the add-inventory action; a
// missing price yields "ask_price" so the client can prompt for it. With no
// API key configured the endpoint degrades to an "unavailable" canned
// response instead of failing.
//
// # HTTP Endpoints
//
//   - POST /assistant/parse  : Parse one kitchen command.
//   - GET  /assistant/health : Model availability probe.
package assistant
