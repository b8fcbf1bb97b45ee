// Package webrecipe imports recipes from the web into the catalogue.
//
// The flow is interpret, search, map, save: a natural-language query is
// interpreted into structured filters, TheMealDB is searched with them, each
// found recipe's ingredients are matched against the current inventory, and
// the chosen recipe is persisted through the recipe service with its source
// metadata and both ingredient lists (raw and mapped) attached.
//
// Interpretation and mapping prefer the generative model but always have a
// deterministic fallback (raw keywords, case-insensitive name containment),
// so the flow works without an API key.
//
// # HTTP Endpoints
//
//   - POST /web-recipes/interpret       : Query to structured filters.
//   - POST /web-recipes/search          : Search TheMealDB.
//   - POST /web-recipes/map-ingredients : Match ingredients to inventory.
//   - POST /web-recipes/save            : Persist into the catalogue.
package webrecipe
