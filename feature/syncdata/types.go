package syncdata

import (
	"chefcode/core/reconcile"
	invmodels "chefcode/feature/inventory/models"
	recmodels "chefcode/feature/recipe/models"
	taskmodels "chefcode/feature/task/models"
)

// SyncRequest is a full client snapshot: three named collections of typed
// records, each an ordered sequence.
type SyncRequest struct {
	Inventory []invmodels.InventoryRecord `json:"inventory"`
	Recipes   []recmodels.RecipeRecord    `json:"recipes"`
	Tasks     []taskmodels.TaskRecord     `json:"tasks"`
}

// Size returns the total number of records across all collections.
func (r *SyncRequest) Size() int {
	return len(r.Inventory) + len(r.Recipes) + len(r.Tasks)
}

// Snapshot is the server's view of all three collections, with server ids.
type Snapshot struct {
	Inventory []invmodels.InventoryItem `json:"inventory"`
	Recipes   []recmodels.RecipeView    `json:"recipes"`
	Tasks     []taskmodels.Task         `json:"tasks"`
}

// SyncResponse reports one synchronization call: the post-merge snapshot,
// one result per incoming record in request order (inventory, then recipes,
// then tasks), and aggregate counts.
type SyncResponse struct {
	Snapshot Snapshot               `json:"snapshot"`
	Results  []reconcile.ItemResult `json:"results"`
	Summary  reconcile.Summary      `json:"summary"`
}
