package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupInspectorDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)
	return db
}

func TestGetTableColumns(t *testing.T) {
	db := setupInspectorDB(t)

	// Create a test table
	// SQLite specific types: INTEGER, TEXT.
	err := db.Exec("CREATE TABLE inventory_items (id INTEGER PRIMARY KEY, name TEXT, quantity REAL)").Error
	assert.NoError(t, err)

	// Test GetTableColumns
	columns, err := GetTableColumns(db, "inventory_items")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Map columns to map for easy assertion
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "real", colMap["quantity"])

	// Test non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	// PRAGMA table_info returns empty result for non-existent table in SQLite, implies no error but empty columns
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTables(t *testing.T) {
	db := setupInspectorDB(t)

	assert.NoError(t, db.Exec("CREATE TABLE recipes (id INTEGER PRIMARY KEY)").Error)
	assert.NoError(t, db.Exec("CREATE TABLE inventory_items (id INTEGER PRIMARY KEY)").Error)

	tables, err := GetTables(db)
	assert.NoError(t, err)
	assert.Equal(t, []string{"inventory_items", "recipes"}, tables)
}

func TestCountRows(t *testing.T) {
	db := setupInspectorDB(t)

	assert.NoError(t, db.Exec("CREATE TABLE tasks (id INTEGER PRIMARY KEY, description TEXT)").Error)
	assert.NoError(t, db.Exec("INSERT INTO tasks (description) VALUES ('prep'), ('bake')").Error)

	count, err := CountRows(db, "tasks")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = CountRows(db, "non_existent")
	assert.Error(t, err)
}
