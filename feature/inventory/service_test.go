package inventory_test

import (
	"context"
	"testing"

	"chefcode/core/reconcile"
	"chefcode/feature/inventory"
	"chefcode/feature/inventory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestServiceAddItem_InsertThenAccumulate(t *testing.T) {
	db := setupDB(t)

	invalidations := 0
	svc := inventory.NewService(db, zap.NewNop(), func() { invalidations++ })

	item, result, err := svc.AddItem(context.Background(), &models.InventoryRecord{
		Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeInserted, result.Outcome)
	assert.Equal(t, float64(5), item.Quantity)

	// Same natural key, different casing: accumulates into the same row.
	item, result, err = svc.AddItem(context.Background(), &models.InventoryRecord{
		Name: "flour", Unit: "KG", Category: "dry", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeMergedQuantity, result.Outcome)
	assert.Equal(t, float64(8), item.Quantity)

	var count int64
	db.Model(&models.InventoryItem{}).Count(&count)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, 2, invalidations)
}

func TestServiceAddItem_Validation(t *testing.T) {
	db := setupDB(t)
	svc := inventory.NewService(db, zap.NewNop(), nil)

	_, _, err := svc.AddItem(context.Background(), &models.InventoryRecord{Name: "Flour", Quantity: -1})

	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity must be >= 0")

	var count int64
	db.Model(&models.InventoryItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestServiceList_Pagination(t *testing.T) {
	db := setupDB(t)
	svc := inventory.NewService(db, zap.NewNop(), nil)

	for _, name := range []string{"Apples", "Butter", "Cream"} {
		_, _, err := svc.AddItem(context.Background(), &models.InventoryRecord{Name: name, Quantity: 1})
		require.NoError(t, err)
	}

	items, total, err := svc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Apples", items[0].Name)
	assert.Equal(t, "Butter", items[1].Name)

	items, _, err = svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cream", items[0].Name)
}

func TestServiceUpdate(t *testing.T) {
	db := setupDB(t)
	svc := inventory.NewService(db, zap.NewNop(), nil)

	item, _, err := svc.AddItem(context.Background(), &models.InventoryRecord{Name: "Flour", Unit: "kg", Quantity: 5, Price: 1.10})
	require.NoError(t, err)

	newPrice := 1.25
	updated, err := svc.Update(context.Background(), item.ID, &models.InventoryUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 1.25, updated.Price)
	assert.Equal(t, "Flour", updated.Name)

	_, err = svc.Update(context.Background(), 999, &models.InventoryUpdate{Price: &newPrice})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestServiceUpdate_NaturalKeyConflict(t *testing.T) {
	db := setupDB(t)
	svc := inventory.NewService(db, zap.NewNop(), nil)

	_, _, err := svc.AddItem(context.Background(), &models.InventoryRecord{Name: "Flour", Unit: "kg", Category: "Dry", Quantity: 5})
	require.NoError(t, err)
	sugar, _, err := svc.AddItem(context.Background(), &models.InventoryRecord{Name: "Sugar", Unit: "kg", Category: "Dry", Quantity: 2})
	require.NoError(t, err)

	// Renaming sugar onto flour's natural key would leave two rows
	// sharing one identity.
	name := "flour"
	_, err = svc.Update(context.Background(), sugar.ID, &models.InventoryUpdate{Name: &name})

	var conflict *reconcile.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestServiceDelete(t *testing.T) {
	db := setupDB(t)
	svc := inventory.NewService(db, zap.NewNop(), nil)

	item, _, err := svc.AddItem(context.Background(), &models.InventoryRecord{Name: "Flour", Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), item.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), item.ID), gorm.ErrRecordNotFound)
}
