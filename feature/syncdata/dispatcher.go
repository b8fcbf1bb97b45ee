package syncdata

import (
	"context"
	"encoding/json"
	"fmt"

	"chefcode/core/reconcile"
	invmodels "chefcode/feature/inventory/models"
	recmodels "chefcode/feature/recipe/models"
	taskmodels "chefcode/feature/task/models"
)

// Action names accepted by the dispatcher. The set is closed: anything else
// is an UnknownActionError.
const (
	ActionAddInventory     = "add-inventory"
	ActionSaveRecipe       = "save-recipe"
	ActionAddTask          = "add-task"
	ActionUpdateTaskStatus = "update-task-status"
)

// ActionRequest is one discrete user action: a name from the closed action
// set and its typed payload, decoded per action.
type ActionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// ActionResult reports one dispatched action: what happened and the affected
// record as stored.
type ActionResult struct {
	Action  string            `json:"action"`
	Outcome reconcile.Outcome `json:"outcome"`
	Record  any               `json:"record"`
}

// UnknownActionError reports an action name outside the closed set.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

// Dispatcher routes single actions into the same merge paths a full sync
// uses. Each action writes in its own transaction.
type Dispatcher struct {
	service *Service
}

// NewDispatcher creates the action dispatcher.
func NewDispatcher(service *Service) *Dispatcher {
	return &Dispatcher{service: service}
}

// Dispatch decodes and executes one action.
func (d *Dispatcher) Dispatch(ctx context.Context, req *ActionRequest) (*ActionResult, error) {
	switch req.Action {
	case ActionAddInventory:
		var rec invmodels.InventoryRecord
		if err := decodePayload(req.Data, &rec); err != nil {
			return nil, err
		}
		item, result, err := d.service.inventory.AddItem(ctx, &rec)
		if err != nil {
			return nil, err
		}
		return &ActionResult{Action: req.Action, Outcome: result.Outcome, Record: item}, nil

	case ActionSaveRecipe:
		var rec recmodels.RecipeRecord
		if err := decodePayload(req.Data, &rec); err != nil {
			return nil, err
		}
		row, result, err := d.service.recipes.Save(ctx, &rec)
		if err != nil {
			return nil, err
		}
		return &ActionResult{Action: req.Action, Outcome: result.Outcome, Record: row.View()}, nil

	case ActionAddTask:
		var rec taskmodels.TaskRecord
		if err := decodePayload(req.Data, &rec); err != nil {
			return nil, err
		}
		row, result, err := d.service.tasks.Add(ctx, &rec)
		if err != nil {
			return nil, err
		}
		return &ActionResult{Action: req.Action, Outcome: result.Outcome, Record: row}, nil

	case ActionUpdateTaskStatus:
		var payload struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		}
		if err := decodePayload(req.Data, &payload); err != nil {
			return nil, err
		}
		var fields []string
		if payload.ID == 0 {
			fields = append(fields, "id is required")
		}
		if payload.Status == "" {
			fields = append(fields, "status is required")
		}
		if len(fields) > 0 {
			return nil, reconcile.NewValidationError(fields...)
		}
		row, err := d.service.tasks.UpdateStatus(ctx, payload.ID, payload.Status)
		if err != nil {
			return nil, err
		}
		return &ActionResult{Action: req.Action, Outcome: reconcile.OutcomeUpdated, Record: row}, nil

	default:
		return nil, &UnknownActionError{Action: req.Action}
	}
}

// decodePayload unpacks an action payload, treating absence and malformed
// JSON as validation failures.
func decodePayload(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return reconcile.NewValidationError("data is required")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return reconcile.NewValidationError("data is not a valid payload")
	}
	return nil
}
