// Package recipe implements the recipe catalogue feature.
//
// Recipes are identified by server-assigned id. Merging a record with a known
// id fully overwrites name, ingredient list, instructions, and yield; a
// record with no id (or an id the store does not own) becomes a new row with
// a freshly assigned id. Recipes have no accumulative semantics.
//
// The ingredient list is stored as a JSON text column and round-trips
// order-preserving. Web-recipe metadata (source URL, image, cuisine, raw and
// mapped ingredient payloads) lives on extra columns that snapshots never
// carry, so a sync leaves them untouched.
//
// # Components
//
//   - Adapter: validation, id matching, and overwrite policy.
//   - Service: single-recipe merge, listing, partial updates, deletion, and
//     the lookups the web-recipe flow builds on.
//   - Handler: HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET    /recipes      : List recipes (limit/offset).
//   - GET    /recipes/:id  : Get one recipe.
//   - POST   /recipes      : Insert or overwrite a recipe by id.
//   - PUT    /recipes/:id  : Partial update of one recipe.
//   - DELETE /recipes/:id  : Remove a recipe.
package recipe
