package checks

import (
	"fmt"

	"chefcode/core/database"

	"gorm.io/gorm"
)

// RequiredTables lists the tables the backend cannot run without.
var RequiredTables = []string{"inventory_items", "recipes", "sync_journals", "tasks"}

// TableStatus summarizes one required table.
type TableStatus struct {
	Rows    int64 `json:"rows"`
	Columns int   `json:"columns"`
}

// DatabaseReport strictly types the result of a database integrity check.
type DatabaseReport struct {
	Matched       bool                   `json:"matched"`
	MissingTables []string               `json:"missing_tables"`
	Tables        map[string]TableStatus `json:"tables"`
}

// CheckDatabase verifies the required tables exist and reports their size.
func CheckDatabase(db *gorm.DB) (*DatabaseReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	tables, err := database.GetTables(db)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(tables))
	for _, name := range tables {
		present[name] = true
	}

	report := &DatabaseReport{
		Matched:       true,
		MissingTables: []string{},
		Tables:        make(map[string]TableStatus, len(RequiredTables)),
	}
	for _, name := range RequiredTables {
		if !present[name] {
			report.MissingTables = append(report.MissingTables, name)
			report.Matched = false
			continue
		}

		columns, err := database.GetTableColumns(db, name)
		if err != nil {
			return nil, err
		}
		rows, err := database.CountRows(db, name)
		if err != nil {
			return nil, err
		}
		report.Tables[name] = TableStatus{Rows: rows, Columns: len(columns)}
	}

	return report, nil
}
