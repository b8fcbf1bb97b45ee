package cmd

import (
	"fmt"

	"chefcode/core/config"
	"chefcode/core/database"

	"github.com/spf13/cobra"
)

// inspectCmd dumps the connected database's tables, columns and row counts.
var inspectCmd = &cobra.Command{
	Use:   "inspect [table...]",
	Short: "Inspect database tables",
	Long: `Lists the tables of the configured database with their columns and
row counts. With table names as arguments, only those tables are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		tables := args
		if len(tables) == 0 {
			tables, err = database.GetTables(db)
			if err != nil {
				return err
			}
		}

		if len(tables) == 0 {
			fmt.Println("No tables found.")
			return nil
		}

		for _, table := range tables {
			columns, err := database.GetTableColumns(db, table)
			if err != nil {
				return err
			}
			rows, err := database.CountRows(db, table)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%d rows)\n", table, rows)
			for _, col := range columns {
				fmt.Printf("  - %s %s\n", col.Field, col.Type)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
